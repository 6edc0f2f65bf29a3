package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/rod-cutting/internal/report"
	"github.com/eugenenazirov/rod-cutting/internal/rodcut"
	"github.com/eugenenazirov/rod-cutting/internal/scheduler"
	"github.com/eugenenazirov/rod-cutting/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	defaultMaxLength = 10_000
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Handler wires solver and storage dependencies into HTTP handlers.
type Handler struct {
	solvers         map[rodcut.Strategy]rodcut.Solver
	defaultStrategy rodcut.Strategy
	maxLength       int
	storage         storage.Storage
	logger          *zap.Logger

	clock func() time.Time

	mu              sync.RWMutex
	pricesUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMaxLength caps the rod length accepted by the solve endpoints.
func WithMaxLength(maxLength int) HandlerOption {
	return func(h *Handler) {
		if maxLength > 0 {
			h.maxLength = maxLength
		}
	}
}

// WithDefaultStrategy selects the strategy used when a request names none.
func WithDefaultStrategy(strategy rodcut.Strategy) HandlerOption {
	return func(h *Handler) {
		if strategy != "" {
			h.defaultStrategy = strategy
		}
	}
}

// WithSolver replaces the solver registered for a strategy.
func WithSolver(strategy rodcut.Strategy, solver rodcut.Solver) HandlerOption {
	return func(h *Handler) {
		h.solvers[strategy] = solver
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		solvers: map[rodcut.Strategy]rodcut.Solver{
			rodcut.StrategyTopDown:  rodcut.NewTopDown(),
			rodcut.StrategyBottomUp: rodcut.NewBottomUp(),
		},
		defaultStrategy: rodcut.DefaultStrategy,
		maxLength:       defaultMaxLength,
		storage:         store,
		logger:          zap.NewNop(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.pricesUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleStrategies(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := strategiesResponse{
		Strategies: rodcut.Strategies(),
		Default:    h.defaultStrategy,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetPrices(w http.ResponseWriter, r *http.Request) {
	_ = r
	prices, err := h.storage.GetPrices()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := pricesResponse{
		Prices:    prices,
		UpdatedAt: h.currentPricesUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutPrices(w http.ResponseWriter, r *http.Request) {
	var req pricesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Prices) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid prices", "prices must contain at least one entry")
		return
	}

	if err := h.storage.SetPrices(req.Prices); err != nil {
		if errors.Is(err, storage.ErrInvalidPrices) {
			writeError(w, http.StatusBadRequest, "Invalid prices", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markPricesUpdated()

	prices, err := h.storage.GetPrices()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := pricesResponse{
		Prices:    prices,
		UpdatedAt: h.currentPricesUpdatedAt(),
		Message:   "Prices updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeSolveInput(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result, err := in.solver.Solve(in.length, in.prices)
	elapsed := time.Since(start)

	if err != nil {
		h.writeSolveError(w, r, err, in.length)
		return
	}

	resp := solveResponse{
		Length:            in.length,
		Strategy:          in.strategy,
		MaxProfit:         result.MaxProfit,
		Cuts:              result.Cuts,
		NumberOfCuts:      result.NumberOfCuts,
		Pieces:            piecesByLength(result),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeSolveInput(w, r)
	if !ok {
		return
	}

	result, err := in.solver.Solve(in.length, in.prices)
	if err != nil {
		h.writeSolveError(w, r, err, in.length)
		return
	}

	var buf bytes.Buffer
	err = report.Write(&buf, report.Request{
		Length:   in.length,
		Strategy: in.strategy,
		Prices:   in.prices,
		Result:   result,
	})
	if err != nil {
		h.logger.Error("report generation failed",
			zap.Error(err),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
		writeInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("rod-%d.xlsx", in.length)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeSolveInput(w, r)
	if !ok {
		return
	}

	cmp, err := rodcut.Compare(in.length, in.prices)
	if err != nil {
		h.writeSolveError(w, r, err, in.length)
		return
	}

	resp := compareResponse{
		Length:   in.length,
		TopDown:  cmp.TopDown,
		BottomUp: cmp.BottomUp,
		SameCuts: cmp.SameCuts,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	plan, err := scheduler.Optimize(req.Jobs, req.Constraints)
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrInvalidConstraints), errors.Is(err, scheduler.ErrInvalidJob):
			writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		default:
			writeInternalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

type solveInput struct {
	length   int
	strategy rodcut.Strategy
	solver   rodcut.Solver
	prices   []float64
}

// decodeSolveInput parses a solve request and resolves its strategy and price
// table. It writes the error response itself and reports false on failure.
func (h *Handler) decodeSolveInput(w http.ResponseWriter, r *http.Request) (solveInput, bool) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return solveInput{}, false
	}

	if req.Length == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "length is required")
		return solveInput{}, false
	}
	if *req.Length > h.maxLength {
		writeError(w, http.StatusBadRequest, "Invalid request",
			fmt.Sprintf("length must not exceed %d", h.maxLength))
		return solveInput{}, false
	}

	strategy := h.defaultStrategy
	if req.Strategy != "" {
		parsed, err := rodcut.ParseStrategy(req.Strategy)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
			return solveInput{}, false
		}
		strategy = parsed
	}
	solver, ok := h.solvers[strategy]
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid request",
			fmt.Sprintf("%v: %q", rodcut.ErrUnknownStrategy, strategy))
		return solveInput{}, false
	}

	prices := req.Prices
	if prices == nil {
		stored, err := h.storage.GetPrices()
		if err != nil {
			writeInternalError(w, err)
			return solveInput{}, false
		}
		prices = stored
	}
	if len(prices) > storage.MaxPriceEntries {
		writeError(w, http.StatusBadRequest, "Invalid prices",
			fmt.Sprintf("prices must not list more than %d entries", storage.MaxPriceEntries))
		return solveInput{}, false
	}

	return solveInput{
		length:   *req.Length,
		strategy: strategy,
		solver:   solver,
		prices:   prices,
	}, true
}

func (h *Handler) writeSolveError(w http.ResponseWriter, r *http.Request, err error, length int) {
	switch {
	case errors.Is(err, rodcut.ErrInvalidLength), errors.Is(err, rodcut.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, rodcut.ErrNoAvailableCut):
		h.logger.Debug("rod cannot be cut into priced pieces",
			zap.Int("length", length),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
		suggestion := fmt.Sprintf("Provide a price for at least one piece length up to %d", length)
		writeError(w, http.StatusUnprocessableEntity, "Cannot cut rod", err.Error(), suggestion)
	default:
		h.logger.Error("solve failed",
			zap.Error(err),
			zap.Int("length", length),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
		writeInternalError(w, err)
	}
}

// currentPricesUpdatedAt prefers the time recorded by the storage, which
// survives restarts, over the time this handler last saw a change.
func (h *Handler) currentPricesUpdatedAt() time.Time {
	if tracker, ok := h.storage.(storage.UpdateTracker); ok {
		at, err := tracker.PricesUpdatedAt()
		if err != nil {
			h.logger.Warn("failed to read prices timestamp", zap.Error(err))
		} else if !at.IsZero() {
			return at
		}
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pricesUpdatedAt
}

func (h *Handler) markPricesUpdated() {
	h.mu.Lock()
	h.pricesUpdatedAt = h.clock()
	h.mu.Unlock()
}

func piecesByLength(result rodcut.Result) map[string]int {
	pieces := result.Pieces()
	out := make(map[string]int, len(pieces))
	for length, count := range pieces {
		out[strconv.Itoa(length)] = count
	}
	return out
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type pricesRequest struct {
	Prices []float64 `json:"prices"`
}

type solveRequest struct {
	Length   *int      `json:"length"`
	Strategy string    `json:"strategy"`
	Prices   []float64 `json:"prices"`
}

type scheduleRequest struct {
	Jobs        []scheduler.Job       `json:"jobs"`
	Constraints scheduler.Constraints `json:"constraints"`
}

type solveResponse struct {
	Length            int             `json:"length"`
	Strategy          rodcut.Strategy `json:"strategy"`
	MaxProfit         float64         `json:"maxProfit"`
	Cuts              []int           `json:"cuts"`
	NumberOfCuts      int             `json:"numberOfCuts"`
	Pieces            map[string]int  `json:"pieces"`
	CalculationTimeMs int64           `json:"calculationTimeMs"`
}

type compareResponse struct {
	Length   int           `json:"length"`
	TopDown  rodcut.Result `json:"topDown"`
	BottomUp rodcut.Result `json:"bottomUp"`
	SameCuts bool          `json:"sameCuts"`
}

type pricesResponse struct {
	Prices    []float64 `json:"prices"`
	UpdatedAt time.Time `json:"updatedAt"`
	Message   string    `json:"message,omitempty"`
}

type strategiesResponse struct {
	Strategies []rodcut.Strategy `json:"strategies"`
	Default    rodcut.Strategy   `json:"default"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
