package fx

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/currency"

	"github.com/cafebooks/cafebooks/internal/shared"
)

// ErrUnknownCurrency indicates no rate is configured for a currency code.
var ErrUnknownCurrency = errors.New("fx: unknown currency")

// ErrInvalidRate indicates a non-positive or non-finite rate.
var ErrInvalidRate = errors.New("fx: rate must be positive")

// Table maps currency codes to multipliers into the base currency.
// The base currency always converts at 1.
type Table struct {
	mu    sync.RWMutex
	base  string
	rates map[string]float64
}

// NewTable builds a Table for the given base currency. The seed map may be
// nil; rates can be added later with Set.
func NewTable(base string, seed map[string]float64) (*Table, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if _, err := currency.ParseISO(base); err != nil {
		return nil, fmt.Errorf("fx: base currency %q: %w", base, err)
	}
	t := &Table{base: base, rates: make(map[string]float64, len(seed))}
	for code, rate := range seed {
		if err := t.Set(code, rate); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Base returns the base currency code.
func (t *Table) Base() string {
	return t.base
}

// Set registers or replaces the rate for a currency code.
func (t *Table) Set(code string, rate float64) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("fx: currency %q: %w", code, err)
	}
	if !(rate > 0) {
		return ErrInvalidRate
	}
	t.mu.Lock()
	t.rates[code] = rate
	t.mu.Unlock()
	return nil
}

// RateToBase returns the multiplier for a currency into the base currency.
func (t *Table) RateToBase(code string) (float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == t.base {
		return 1, nil
	}
	t.mu.RLock()
	rate, ok := t.rates[code]
	t.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	return rate, nil
}

// Convert converts an amount into the base currency, rounded to cents.
func (t *Table) Convert(amount float64, code string) (float64, error) {
	if !shared.ValidAmount(amount) {
		return 0, fmt.Errorf("fx: %w: amount", shared.ErrInvalidInput)
	}
	rate, err := t.RateToBase(code)
	if err != nil {
		return 0, err
	}
	return shared.MulRound(amount, rate), nil
}

// Snapshot copies the current rate map for listing.
func (t *Table) Snapshot() map[string]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]float64, len(t.rates))
	for code, rate := range t.rates {
		out[code] = rate
	}
	return out
}
