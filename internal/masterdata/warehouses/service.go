package warehouses

import (
	"context"
	"fmt"
	"strings"

	"github.com/cafebooks/cafebooks/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Warehouse, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Warehouse, error) {
	if id <= 0 {
		return Warehouse{}, fmt.Errorf("warehouses: %w: id", shared.ErrInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, name string) (Warehouse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Warehouse{}, fmt.Errorf("warehouses: %w: name required", shared.ErrInvalidInput)
	}
	return s.repo.Create(ctx, Warehouse{Name: name})
}

func (s *Service) Rename(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if id <= 0 || name == "" {
		return fmt.Errorf("warehouses: %w", shared.ErrInvalidInput)
	}
	return s.repo.Rename(ctx, id, name)
}

// EnsureDefault creates the Default warehouse when the registry is empty
// and returns it. Warehouses are never auto-deleted, so after the first
// call stock operations always have a location to land in.
func (s *Service) EnsureDefault(ctx context.Context) (Warehouse, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return Warehouse{}, err
	}
	if count == 0 {
		return s.repo.Create(ctx, Warehouse{Name: DefaultName})
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return Warehouse{}, err
	}
	return list[0], nil
}
