package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/rod-cutting/internal/logging"
	"github.com/eugenenazirov/rod-cutting/internal/rodcut"
	"github.com/eugenenazirov/rod-cutting/internal/storage"
)

const (
	defaultPort           = "8080"
	defaultMaxLength      = 10_000
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	InitialPrices        []float64
	Strategy             rodcut.Strategy
	MaxLength            int
	StoragePath          string
	LogLevel             string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	Prices               []float64     `yaml:"prices"`
	Strategy             string        `yaml:"strategy"`
	MaxLength            int           `yaml:"max_length"`
	StoragePath          string        `yaml:"storage_path"`
	LogLevel             string        `yaml:"log_level"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	PricesStr      *string
	Strategy       *string
	MaxLength      *int
	StoragePath    *string
	LogLevel       *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables
	if err := applyEnvConfig(&cfg); err != nil {
		return Config{}, err
	}

	// Load from YAML file if specified (overrides environment)
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		InitialPrices:        storage.DefaultPrices(),
		Strategy:             rodcut.DefaultStrategy,
		MaxLength:            defaultMaxLength,
		LogLevel:             logging.DefaultLevel,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if len(yamlCfg.Prices) > 0 {
		cfg.InitialPrices = yamlCfg.Prices
	}

	if yamlCfg.Strategy != "" {
		strategy, err := rodcut.ParseStrategy(yamlCfg.Strategy)
		if err != nil {
			return err
		}
		cfg.Strategy = strategy
	}

	if yamlCfg.MaxLength != 0 {
		cfg.MaxLength = yamlCfg.MaxLength
	}

	if yamlCfg.StoragePath != "" {
		cfg.StoragePath = yamlCfg.StoragePath
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	durations := []struct {
		raw    string
		target *time.Duration
	}{
		{yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{yamlCfg.WriteTimeout, &cfg.WriteTimeout},
		{yamlCfg.IdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", d.raw, err)
		}
		*d.target = parsed
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}

	if yamlCfg.RateLimit.RPS != nil {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst != nil {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}

	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) error {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if rawPrices := strings.TrimSpace(os.Getenv("PRICES")); rawPrices != "" {
		prices, err := parsePrices(rawPrices)
		if err != nil {
			return fmt.Errorf("parse PRICES: %w", err)
		}
		cfg.InitialPrices = prices
	}

	if raw := strings.TrimSpace(os.Getenv("STRATEGY")); raw != "" {
		strategy, err := rodcut.ParseStrategy(raw)
		if err != nil {
			return fmt.Errorf("parse STRATEGY: %w", err)
		}
		cfg.Strategy = strategy
	}

	if raw := strings.TrimSpace(os.Getenv("MAX_LENGTH")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("parse MAX_LENGTH: invalid integer %q", raw)
		}
		cfg.MaxLength = value
	}

	if path := strings.TrimSpace(os.Getenv("STORAGE_PATH")); path != "" {
		cfg.StoragePath = path
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.PricesStr != nil && *overrides.PricesStr != "" {
		prices, err := parsePrices(*overrides.PricesStr)
		if err != nil {
			return fmt.Errorf("parse prices: %w", err)
		}
		cfg.InitialPrices = prices
	}

	if overrides.Strategy != nil && *overrides.Strategy != "" {
		strategy, err := rodcut.ParseStrategy(*overrides.Strategy)
		if err != nil {
			return fmt.Errorf("parse strategy: %w", err)
		}
		cfg.Strategy = strategy
	}

	if overrides.MaxLength != nil && *overrides.MaxLength > 0 {
		cfg.MaxLength = *overrides.MaxLength
	}

	if overrides.StoragePath != nil && *overrides.StoragePath != "" {
		cfg.StoragePath = *overrides.StoragePath
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.MaxLength <= 0 || cfg.MaxLength > rodcut.MaxLength {
		return fmt.Errorf("max length must be between 1 and %d, got %d", rodcut.MaxLength, cfg.MaxLength)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if _, err := rodcut.New(cfg.Strategy); err != nil {
		return err
	}
	if err := storage.ValidatePrices(cfg.InitialPrices); err != nil {
		return err
	}
	return nil
}

// parsePrices parses a comma-separated string of prices into a slice of floats.
// Entry k is the price of a piece of length k, so an empty entry is an error
// rather than something to skip.
func parsePrices(raw string) ([]float64, error) {
	if strings.TrimSpace(strings.ReplaceAll(raw, ",", "")) == "" {
		return nil, fmt.Errorf("no prices provided")
	}

	parts := strings.Split(raw, ",")
	prices := make([]float64, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("missing price for length %d", i+1)
		}
		value, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", part)
		}
		if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("price must be non-negative, got %v", value)
		}
		prices = append(prices, value)
	}
	return prices, nil
}
