package products

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

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("products: %w: id", shared.ErrInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) FindByBarcode(ctx context.Context, barcode string) (Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return Product{}, fmt.Errorf("products: %w: barcode required", shared.ErrInvalidInput)
	}
	return s.repo.GetByBarcode(ctx, barcode)
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return Product{}, fmt.Errorf("products: %w: name required", shared.ErrInvalidInput)
	}
	if !shared.ValidAmount(product.Price) || !shared.ValidAmount(product.UnitCost) {
		return Product{}, fmt.Errorf("products: %w: price and unit cost must be non-negative", shared.ErrInvalidInput)
	}
	product.Enabled = true
	product.Archived = false
	return s.repo.Create(ctx, product)
}

func (s *Service) Update(ctx context.Context, product Product) error {
	if product.ID <= 0 {
		return fmt.Errorf("products: %w: id", shared.ErrInvalidInput)
	}
	if !shared.ValidAmount(product.Price) || !shared.ValidAmount(product.UnitCost) {
		return fmt.Errorf("products: %w: price and unit cost must be non-negative", shared.ErrInvalidInput)
	}
	return s.repo.Update(ctx, product)
}
