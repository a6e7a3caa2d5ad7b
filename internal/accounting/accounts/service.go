package accounts

import (
	"context"
	"log/slog"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

// EnsureSeeded inserts the seed accounts when the registry is empty and
// returns the resulting chart. Seeding is one-shot: an already populated
// registry is left untouched.
func (s *Service) EnsureSeeded(ctx context.Context, seedPath string) (*Chart, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		seed, err := LoadSeed(seedPath)
		if err != nil {
			return nil, err
		}
		for _, row := range seed {
			if _, err := s.repo.Insert(ctx, Account{Code: row.Code, Name: row.Name, Type: AccountType(row.Type)}); err != nil {
				return nil, err
			}
		}
		if s.logger != nil {
			s.logger.Info("chart of accounts seeded", slog.Int("accounts", len(seed)))
		}
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	chart := NewChart(list)
	if err := chart.VerifyPostingCodes(); err != nil {
		return nil, err
	}
	return chart, nil
}
