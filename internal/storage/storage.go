package storage

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

// MaxPriceEntries caps the number of piece lengths a price table may list.
const MaxPriceEntries = 1000

var (
	// ErrInvalidPrices indicates the provided price table violates validation rules.
	ErrInvalidPrices = errors.New("prices must contain between 1 and 1000 non-negative finite numbers")
)

var defaultPrices = []float64{1, 5, 8, 9, 10, 17, 17, 20}

// Storage provides access to the price table used when a request brings none.
type Storage interface {
	GetPrices() ([]float64, error)
	SetPrices(prices []float64) error
}

// UpdateTracker is implemented by storages that remember when the price table
// last changed.
type UpdateTracker interface {
	PricesUpdatedAt() (time.Time, error)
}

// MemoryStorage keeps the price table in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu     sync.RWMutex
	prices []float64
}

// NewMemoryStorage initialises storage with a copy of the default price table.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		prices: clonePrices(defaultPrices),
	}
}

// DefaultPrices returns a copy of the default price table.
func DefaultPrices() []float64 {
	return clonePrices(defaultPrices)
}

// GetPrices returns a defensive copy of the current price table.
func (s *MemoryStorage) GetPrices() ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clonePrices(s.prices), nil
}

// SetPrices validates and stores a copy of the provided price table.
func (s *MemoryStorage) SetPrices(prices []float64) error {
	if err := ValidatePrices(prices); err != nil {
		return err
	}

	s.mu.Lock()
	s.prices = clonePrices(prices)
	s.mu.Unlock()

	return nil
}

// ValidatePrices reports ErrInvalidPrices when the table is empty, too long
// or holds a negative, NaN or infinite price.
func ValidatePrices(prices []float64) error {
	if len(prices) == 0 || len(prices) > MaxPriceEntries {
		return fmt.Errorf("%w: got %d entries", ErrInvalidPrices, len(prices))
	}
	for i, price := range prices {
		if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			return fmt.Errorf("%w: price for length %d is %v", ErrInvalidPrices, i+1, price)
		}
	}
	return nil
}

func clonePrices(src []float64) []float64 {
	if len(src) == 0 {
		return []float64{}
	}

	out := make([]float64, len(src))
	copy(out, src)
	return out
}
