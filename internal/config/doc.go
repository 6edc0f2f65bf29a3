// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. It exposes strongly typed settings such as
// the default price table, the solver strategy and the HTTP limits to the rest
// of the application.
package config
