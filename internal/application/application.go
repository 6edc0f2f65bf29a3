package application

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/rod-cutting/internal/api"
	"github.com/eugenenazirov/rod-cutting/internal/config"
	"github.com/eugenenazirov/rod-cutting/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage storage.Storage
	closer  io.Closer
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store, closer, err := openStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	handler := api.NewHandler(store,
		api.WithLogger(logger),
		api.WithMaxLength(cfg.MaxLength),
		api.WithDefaultStrategy(cfg.Strategy),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		storage: store,
		closer:  closer,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  NewServer(cfg, BuildRootHandler(apiRouter)),
	}, nil
}

// openStorage picks the bolt store when a storage path is configured and the
// in-memory store otherwise. The configured prices seed the in-memory store
// only; a bolt store keeps whatever table it already holds.
func openStorage(cfg config.Config, logger *zap.Logger) (storage.Storage, io.Closer, error) {
	if cfg.StoragePath == "" {
		store := storage.NewMemoryStorage()
		if err := store.SetPrices(cfg.InitialPrices); err != nil {
			return nil, nil, fmt.Errorf("failed to apply initial prices: %w", err)
		}
		return store, nil, nil
	}

	store, err := storage.OpenBolt(cfg.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open price storage: %w", err)
	}
	logger.Info("using persistent price storage", zap.String("path", cfg.StoragePath))
	return store, store, nil
}

// BuildRootHandler mounts the API under /api/ and answers everything else with 404.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/", http.NotFoundHandler())
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Close releases the storage backend. It is safe to call when the storage
// holds no resources.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	if err := a.closer.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}
