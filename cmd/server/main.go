package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/rod-cutting/internal/application"
	"github.com/eugenenazirov/rod-cutting/internal/config"
	"github.com/eugenenazirov/rod-cutting/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("rod-cutting", "Rod Cutting Service - determines the most valuable way to cut a rod into priced pieces")
	flags := registerFlags(kingpinApp)

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	cfg, err := config.Load(flags.overrides())
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close application", zap.Error(err))
		}
	}()

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

type cliFlags struct {
	configFile     *string
	port           *string
	prices         *string
	strategy       *string
	maxLength      *int
	storagePath    *string
	logLevel       *string
	rateLimitRPS   *float64
	rateLimitBurst *int
}

func registerFlags(app *kingpin.Application) *cliFlags {
	return &cliFlags{
		configFile:     app.Flag("config", "Path to YAML configuration file").String(),
		port:           app.Flag("port", "HTTP port exposed by the service").String(),
		prices:         app.Flag("prices", "Comma-separated default prices, the first for a piece of length 1").String(),
		strategy:       app.Flag("strategy", "Default solver strategy (top-down or bottom-up)").String(),
		maxLength:      app.Flag("max-length", "Longest rod accepted by the solve endpoints").Default("0").Int(),
		storagePath:    app.Flag("storage-path", "Bolt database file for persistent prices (in-memory when empty)").String(),
		logLevel:       app.Flag("log-level", "Log level: debug, info, warn or error").String(),
		rateLimitRPS:   app.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64(),
		rateLimitBurst: app.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int(),
	}
}

// overrides keeps only the flags that were actually set.
func (f *cliFlags) overrides() *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile: *f.configFile,
	}

	if *f.port != "" {
		overrides.Port = f.port
	}
	if *f.prices != "" {
		overrides.PricesStr = f.prices
	}
	if *f.strategy != "" {
		overrides.Strategy = f.strategy
	}
	if *f.maxLength > 0 {
		overrides.MaxLength = f.maxLength
	}
	if *f.storagePath != "" {
		overrides.StoragePath = f.storagePath
	}
	if *f.logLevel != "" {
		overrides.LogLevel = f.logLevel
	}
	if *f.rateLimitRPS >= 0 {
		overrides.RateLimitRPS = f.rateLimitRPS
	}
	if *f.rateLimitBurst >= 0 {
		overrides.RateLimitBurst = f.rateLimitBurst
	}

	return overrides
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info("shutting down server", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
