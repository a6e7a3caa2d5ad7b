package fx

import (
	"context"
	"strings"
)

// Service binds the in-memory rate table to its persistent store. Reads hit
// the table; writes go to the store first, then the table, so a restart
// rebuilds the same rates.
type Service struct {
	table *Table
	repo  *Repository
}

func NewService(table *Table, repo *Repository) *Service {
	return &Service{table: table, repo: repo}
}

// LoadService builds a table for the base currency from persisted rates.
func LoadService(ctx context.Context, base string, repo *Repository) (*Service, error) {
	rates, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	table, err := NewTable(base, rates)
	if err != nil {
		return nil, err
	}
	return &Service{table: table, repo: repo}, nil
}

// Table exposes the underlying rate table for posting collaborators.
func (s *Service) Table() *Table {
	return s.table
}

// Base returns the base currency code.
func (s *Service) Base() string {
	return s.table.Base()
}

// Rates returns the configured rates.
func (s *Service) Rates() map[string]float64 {
	return s.table.Snapshot()
}

// SetRate validates, persists, and activates a rate.
func (s *Service) SetRate(ctx context.Context, code string, rate float64) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	// Validate through the table before touching the store.
	probe, err := NewTable(s.table.Base(), nil)
	if err != nil {
		return err
	}
	if err := probe.Set(code, rate); err != nil {
		return err
	}
	if s.repo != nil {
		if err := s.repo.Upsert(ctx, code, rate); err != nil {
			return err
		}
	}
	return s.table.Set(code, rate)
}

// RateToBase returns the multiplier into the base currency.
func (s *Service) RateToBase(code string) (float64, error) {
	return s.table.RateToBase(code)
}

// Convert converts an amount into the base currency.
func (s *Service) Convert(amount float64, code string) (float64, error) {
	return s.table.Convert(amount, code)
}
