package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/cafebooks/cafebooks/internal/accounting/accounts"
	"github.com/cafebooks/cafebooks/internal/accounting/journals"
	"github.com/cafebooks/cafebooks/internal/shared"
)

// SourceModule tags journal entries created by stock adjustments.
const SourceModule = "INV"

// ChartPort resolves account codes for adjustment postings.
type ChartPort interface {
	AccountID(code string) (int64, error)
}

// Config controls the over-decrement policy. Strict mode (the default)
// rejects any adjustment that would push a level below zero; clamp mode
// floors the level at zero and journals only the applied portion.
type Config struct {
	ClampToZero bool
	Currency    string
}

type Service struct {
	repo  Repository
	chart ChartPort
	cache *TotalsCache
	audit *shared.AuditLogger
	log   *slog.Logger
	cfg   Config
	now   func() time.Time
}

func NewService(repo Repository, chart ChartPort, cache *TotalsCache, audit *shared.AuditLogger, log *slog.Logger, cfg Config) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, chart: chart, cache: cache, audit: audit, log: log, cfg: cfg, now: time.Now}
}

// StockAt returns the on-hand quantity for a product at one warehouse.
// A level that has never been written reads as zero.
func (s *Service) StockAt(ctx context.Context, productID, warehouseID int64) (float64, error) {
	if productID <= 0 || warehouseID <= 0 {
		return 0, fmt.Errorf("inventory: %w: product and warehouse ids required", shared.ErrInvalidInput)
	}
	lvl, err := s.repo.GetLevel(ctx, productID, warehouseID)
	if err != nil {
		if errors.Is(err, ErrLevelNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return lvl.Qty, nil
}

// Levels returns every per-warehouse level for a product.
func (s *Service) Levels(ctx context.Context, productID int64) ([]StockLevel, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("inventory: %w: product id required", shared.ErrInvalidInput)
	}
	return s.repo.ListLevels(ctx, productID)
}

// TotalFor returns the product's stock summed across warehouses, preferring
// the cache when it is warm.
func (s *Service) TotalFor(ctx context.Context, productID int64) (float64, error) {
	if productID <= 0 {
		return 0, fmt.Errorf("inventory: %w: product id required", shared.ErrInvalidInput)
	}
	if total, ok := s.cache.Total(ctx, productID); ok {
		return total, nil
	}
	total, err := s.repo.TotalFor(ctx, productID)
	if err != nil {
		return 0, err
	}
	s.cache.SetTotal(ctx, productID, total)
	return total, nil
}

// SetLevel overwrites the absolute quantity for a (product, warehouse) pair.
// Used by seeding and stock-take flows; no journal entry is produced because
// the caller asserts the count rather than moving value.
func (s *Service) SetLevel(ctx context.Context, productID, warehouseID int64, qty float64, actorID int64) error {
	if productID <= 0 || warehouseID <= 0 {
		return fmt.Errorf("inventory: %w: product and warehouse ids required", shared.ErrInvalidInput)
	}
	if math.IsNaN(qty) || math.IsInf(qty, 0) {
		return ErrInvalidQuantity
	}
	if qty < 0 {
		return ErrNegativeLevel
	}
	var total float64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.UpsertLevel(ctx, productID, warehouseID, qty); err != nil {
			return err
		}
		var err error
		total, err = tx.SyncProductTotal(ctx, productID)
		return err
	})
	if err != nil {
		return err
	}
	s.cache.SetTotal(ctx, productID, total)
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "stock.set_level",
			Entity:   "stock_level",
			EntityID: fmt.Sprintf("%d/%d", productID, warehouseID),
			Meta:     map[string]any{"qty": qty},
		})
	}
	return nil
}

// ApplyAdjustment changes one stock level by a signed delta and posts the
// matching inventory journal entry in the same transaction, stock first.
// Positive deltas debit Inventory and credit COGS; negative deltas reverse
// the pair. A zero-cost product moves stock without a journal entry.
func (s *Service) ApplyAdjustment(ctx context.Context, in AdjustmentInput) (Adjustment, error) {
	if in.ProductID <= 0 || in.WarehouseID <= 0 {
		return Adjustment{}, fmt.Errorf("inventory: %w: product and warehouse ids required", shared.ErrInvalidInput)
	}
	if in.Delta == 0 || math.IsNaN(in.Delta) || math.IsInf(in.Delta, 0) {
		return Adjustment{}, ErrInvalidQuantity
	}

	var (
		adj   Adjustment
		total float64
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var current float64
		lvl, err := tx.GetLevelForUpdate(ctx, in.ProductID, in.WarehouseID)
		switch {
		case err == nil:
			current = lvl.Qty
		case errors.Is(err, ErrLevelNotFound):
			current = 0
		default:
			return err
		}

		applied := in.Delta
		newQty := current + in.Delta
		if newQty < 0 {
			if !s.cfg.ClampToZero {
				return fmt.Errorf("%w: have %.3f, requested %.3f", ErrInsufficientStock, current, in.Delta)
			}
			applied = -current
			newQty = 0
			s.log.Warn("stock adjustment clamped to zero",
				"product_id", in.ProductID,
				"warehouse_id", in.WarehouseID,
				"requested", in.Delta,
				"applied", applied)
		}

		if err := tx.UpsertLevel(ctx, in.ProductID, in.WarehouseID, newQty); err != nil {
			return err
		}
		total, err = tx.SyncProductTotal(ctx, in.ProductID)
		if err != nil {
			return err
		}

		unitCost, err := tx.UnitCost(ctx, in.ProductID)
		if err != nil {
			return err
		}

		adj = Adjustment{
			ProductID:    in.ProductID,
			WarehouseID:  in.WarehouseID,
			Delta:        in.Delta,
			AppliedDelta: applied,
			Reason:       in.Reason,
			At:           s.now(),
		}

		amount := shared.MulRound(math.Abs(applied), unitCost)
		if amount > 0 && applied != 0 {
			posting, err := s.adjustmentPosting(in, applied, amount)
			if err != nil {
				return err
			}
			entry, err := tx.InsertEntry(ctx, posting, adj.At)
			if err != nil {
				return err
			}
			adj.JournalID = entry.ID
		}

		adj.ID, err = tx.InsertAdjustment(ctx, adj)
		return err
	})
	if err != nil {
		return Adjustment{}, err
	}

	s.cache.SetTotal(ctx, in.ProductID, total)
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  in.ActorID,
			Action:   "stock.adjust",
			Entity:   "stock_adjustment",
			EntityID: strconv.FormatInt(adj.ID, 10),
			Meta: map[string]any{
				"product_id":   in.ProductID,
				"warehouse_id": in.WarehouseID,
				"delta":        in.Delta,
				"applied":      adj.AppliedDelta,
			},
		})
	}
	return adj, nil
}

// Adjustments lists a product's adjustment history, most recent first.
func (s *Service) Adjustments(ctx context.Context, productID int64) ([]Adjustment, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("inventory: %w: product id required", shared.ErrInvalidInput)
	}
	return s.repo.ListAdjustments(ctx, productID)
}

func (s *Service) adjustmentPosting(in AdjustmentInput, applied, amount float64) (journals.PostingInput, error) {
	inventoryID, err := s.chart.AccountID(accounts.CodeInventory)
	if err != nil {
		return journals.PostingInput{}, err
	}
	cogsID, err := s.chart.AccountID(accounts.CodeCOGS)
	if err != nil {
		return journals.PostingInput{}, err
	}
	posting := journals.PostingInput{
		Memo:         fmt.Sprintf("Stock adjustment: product %d @ warehouse %d", in.ProductID, in.WarehouseID),
		Currency:     s.cfg.Currency,
		RateToBase:   1,
		SourceModule: SourceModule,
		SourceID:     uuid.New(),
	}
	if applied > 0 {
		posting.Lines = []journals.PostingLineInput{
			{AccountID: inventoryID, Debit: amount},
			{AccountID: cogsID, Credit: amount},
		}
	} else {
		posting.Lines = []journals.PostingLineInput{
			{AccountID: cogsID, Debit: amount},
			{AccountID: inventoryID, Credit: amount},
		}
	}
	return posting, nil
}
