package rodcut

import (
	"fmt"
	"strings"
)

// Strategy names a rod-cutting algorithm.
type Strategy string

const (
	// StrategyTopDown evaluates subproblems recursively on demand and memoizes them.
	StrategyTopDown Strategy = "top-down"
	// StrategyBottomUp tabulates subproblems in increasing length order.
	StrategyBottomUp Strategy = "bottom-up"

	// DefaultStrategy is used when no strategy is requested.
	DefaultStrategy = StrategyBottomUp
)

// Strategies returns every supported strategy.
func Strategies() []Strategy {
	return []Strategy{StrategyTopDown, StrategyBottomUp}
}

// ParseStrategy resolves a strategy name or one of its aliases. An empty name
// resolves to DefaultStrategy.
func ParseStrategy(raw string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return DefaultStrategy, nil
	case "top-down", "topdown", "memo":
		return StrategyTopDown, nil
	case "bottom-up", "bottomup", "table":
		return StrategyBottomUp, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, raw)
	}
}

// New returns the Solver implementing the given strategy.
func New(strategy Strategy) (Solver, error) {
	switch strategy {
	case StrategyTopDown:
		return NewTopDown(), nil
	case StrategyBottomUp:
		return NewBottomUp(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(strategy))
	}
}
