package main

import (
	"testing"

	"github.com/alecthomas/kingpin/v2"
)

func parseFlags(t *testing.T, args ...string) *cliFlags {
	t.Helper()

	app := kingpin.New("rod-cutting", "test")
	flags := registerFlags(app)
	if _, err := app.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return flags
}

func TestOverridesOmitUnsetFlags(t *testing.T) {
	overrides := parseFlags(t).overrides()

	if overrides.ConfigFile != "" {
		t.Fatalf("expected no config file, got %q", overrides.ConfigFile)
	}
	if overrides.Port != nil || overrides.PricesStr != nil || overrides.Strategy != nil ||
		overrides.MaxLength != nil || overrides.StoragePath != nil || overrides.LogLevel != nil {
		t.Fatalf("expected unset flags to stay nil: %+v", overrides)
	}
	if overrides.RateLimitRPS != nil || overrides.RateLimitBurst != nil {
		t.Fatalf("expected rate limit overrides to stay nil")
	}
}

func TestOverridesCarrySetFlags(t *testing.T) {
	overrides := parseFlags(t,
		"--config", "service.yaml",
		"--port", "9000",
		"--prices", "2,5,7,8,10",
		"--strategy", "top-down",
		"--max-length", "64",
		"--storage-path", "prices.db",
		"--log-level", "debug",
		"--rate-limit-rps", "0",
		"--rate-limit-burst", "0",
	).overrides()

	if overrides.ConfigFile != "service.yaml" {
		t.Fatalf("unexpected config file %q", overrides.ConfigFile)
	}
	if overrides.Port == nil || *overrides.Port != "9000" {
		t.Fatalf("expected port override")
	}
	if overrides.PricesStr == nil || *overrides.PricesStr != "2,5,7,8,10" {
		t.Fatalf("expected prices override")
	}
	if overrides.Strategy == nil || *overrides.Strategy != "top-down" {
		t.Fatalf("expected strategy override")
	}
	if overrides.MaxLength == nil || *overrides.MaxLength != 64 {
		t.Fatalf("expected max length override")
	}
	if overrides.StoragePath == nil || *overrides.StoragePath != "prices.db" {
		t.Fatalf("expected storage path override")
	}
	if overrides.LogLevel == nil || *overrides.LogLevel != "debug" {
		t.Fatalf("expected log level override")
	}
	if overrides.RateLimitRPS == nil || *overrides.RateLimitRPS != 0 {
		t.Fatalf("expected zero rate limit to be passed through")
	}
	if overrides.RateLimitBurst == nil || *overrides.RateLimitBurst != 0 {
		t.Fatalf("expected zero burst to be passed through")
	}
}
