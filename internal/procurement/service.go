package procurement

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cafebooks/cafebooks/internal/accounting/accounts"
	"github.com/cafebooks/cafebooks/internal/accounting/journals"
	"github.com/cafebooks/cafebooks/internal/inventory"
	"github.com/cafebooks/cafebooks/internal/shared"
)

// SourceModule tags journal entries created by purchase order receipts.
const SourceModule = "PO"

// ChartPort resolves account codes for receipt postings.
type ChartPort interface {
	AccountID(code string) (int64, error)
}

// Config carries posting defaults for receipts.
type Config struct {
	Currency string
}

type Service struct {
	repo  Repository
	chart ChartPort
	cache *inventory.TotalsCache
	audit *shared.AuditLogger
	log   *slog.Logger
	cfg   Config
	now   func() time.Time
}

func NewService(repo Repository, chart ChartPort, cache *inventory.TotalsCache, audit *shared.AuditLogger, log *slog.Logger, cfg Config) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, chart: chart, cache: cache, audit: audit, log: log, cfg: cfg, now: time.Now}
}

// List returns all purchase orders, newest first.
func (s *Service) List(ctx context.Context) ([]PurchaseOrder, error) {
	return s.repo.List(ctx)
}

// Get returns one purchase order with its items.
func (s *Service) Get(ctx context.Context, id int64) (PurchaseOrder, error) {
	if id <= 0 {
		return PurchaseOrder{}, fmt.Errorf("procurement: %w: id", shared.ErrInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

// CreatePurchaseOrder opens a new order. Every line needs a product, a
// warehouse, a positive quantity, and a non-negative unit cost.
func (s *Service) CreatePurchaseOrder(ctx context.Context, supplier string, items []ItemInput, actorID int64) (PurchaseOrder, error) {
	supplier = strings.TrimSpace(supplier)
	if supplier == "" {
		return PurchaseOrder{}, fmt.Errorf("procurement: %w: supplier required", shared.ErrInvalidInput)
	}
	if len(items) == 0 {
		return PurchaseOrder{}, ErrNoItems
	}
	po := PurchaseOrder{Supplier: supplier, Status: StatusOpen}
	for idx, in := range items {
		if in.ProductID <= 0 || in.WarehouseID <= 0 {
			return PurchaseOrder{}, fmt.Errorf("%w: line %d missing product or warehouse", ErrInvalidItem, idx)
		}
		if in.Qty <= 0 {
			return PurchaseOrder{}, fmt.Errorf("%w: line %d qty must be > 0", ErrInvalidItem, idx)
		}
		if !shared.ValidAmount(in.UnitCost) {
			return PurchaseOrder{}, fmt.Errorf("%w: line %d unit cost", ErrInvalidItem, idx)
		}
		po.Items = append(po.Items, Item{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Qty:         in.Qty,
			UnitCost:    in.UnitCost,
		})
	}
	created, err := s.repo.Create(ctx, po)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "po.create",
			Entity:   "purchase_order",
			EntityID: strconv.FormatInt(created.ID, 10),
			Meta:     map[string]any{"supplier": supplier, "items": len(created.Items)},
		})
	}
	return created, nil
}

// Receive confirms arrival of an open order: stock levels increase, supplied
// batch metadata is persisted, the order flips to received, and one journal
// entry debits Inventory and credits Cash for the order's total cost. All of
// it happens in a single transaction, stock first. Receiving an already
// received order is a no-op so a retry never double-increments stock or
// double-posts the journal.
func (s *Service) Receive(ctx context.Context, orderID int64, batches []BatchInput, actorID int64) error {
	if orderID <= 0 {
		return fmt.Errorf("procurement: %w: id", shared.ErrInvalidInput)
	}

	totals := make(map[int64]float64)
	var received bool
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		po, err := tx.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if po.Status == StatusReceived {
			s.log.Info("purchase order already received", "po_id", orderID)
			return nil
		}

		receivedAt := s.now()
		warehouseFor := make(map[int64]int64, len(po.Items))
		var cost float64
		for _, item := range po.Items {
			if err := tx.IncreaseLevel(ctx, item.ProductID, item.WarehouseID, item.Qty); err != nil {
				return err
			}
			warehouseFor[item.ProductID] = item.WarehouseID
			cost += shared.MulRound(item.Qty, item.UnitCost)
		}
		for _, item := range po.Items {
			if _, seen := totals[item.ProductID]; seen {
				continue
			}
			total, err := tx.SyncProductTotal(ctx, item.ProductID)
			if err != nil {
				return err
			}
			totals[item.ProductID] = total
		}

		for idx, in := range batches {
			if in.ProductID <= 0 || in.Qty <= 0 {
				return fmt.Errorf("procurement: %w: batch %d", shared.ErrInvalidInput, idx)
			}
			warehouseID := in.WarehouseID
			if warehouseID == 0 {
				warehouseID = warehouseFor[in.ProductID]
			}
			if warehouseID == 0 {
				return fmt.Errorf("procurement: %w: batch %d has no warehouse", shared.ErrInvalidInput, idx)
			}
			_, err := tx.InsertBatch(ctx, SerialBatch{
				OrderID:     orderID,
				ProductID:   in.ProductID,
				WarehouseID: warehouseID,
				Qty:         in.Qty,
				Serial:      in.Serial,
				Lot:         in.Lot,
				Expiry:      in.Expiry,
				ReceivedAt:  receivedAt,
			})
			if err != nil {
				return err
			}
		}

		if err := tx.MarkReceived(ctx, orderID, receivedAt); err != nil {
			return err
		}

		if cost > 0 {
			posting, err := s.receiptPosting(po, cost)
			if err != nil {
				return err
			}
			if _, err := tx.InsertEntry(ctx, posting, receivedAt); err != nil {
				return err
			}
		}
		received = true
		return nil
	})
	if err != nil {
		return err
	}
	if !received {
		return nil
	}

	for productID, total := range totals {
		s.cache.SetTotal(ctx, productID, total)
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "po.receive",
			Entity:   "purchase_order",
			EntityID: strconv.FormatInt(orderID, 10),
			Meta:     map[string]any{"batches": len(batches)},
		})
	}
	return nil
}

func (s *Service) receiptPosting(po PurchaseOrder, cost float64) (journals.PostingInput, error) {
	inventoryID, err := s.chart.AccountID(accounts.CodeInventory)
	if err != nil {
		return journals.PostingInput{}, err
	}
	cashID, err := s.chart.AccountID(accounts.CodeCash)
	if err != nil {
		return journals.PostingInput{}, err
	}
	// Deterministic source id so a receipt maps to exactly one journal entry.
	sourceID := uuid.NewSHA1(uuid.NameSpaceOID, []byte("po:"+strconv.FormatInt(po.ID, 10)))
	return journals.PostingInput{
		Memo:         fmt.Sprintf("PO receipt: %s", po.Supplier),
		Currency:     s.cfg.Currency,
		RateToBase:   1,
		SourceModule: SourceModule,
		SourceID:     sourceID,
		Lines: []journals.PostingLineInput{
			{AccountID: inventoryID, Debit: cost},
			{AccountID: cashID, Credit: cost},
		},
	}, nil
}

// ExpiringWithin lists batches whose expiry falls inside [today, today+days],
// soonest first.
func (s *Service) ExpiringWithin(ctx context.Context, days int) ([]SerialBatch, error) {
	if days < 0 {
		return nil, fmt.Errorf("procurement: %w: days must be >= 0", shared.ErrInvalidInput)
	}
	today := s.now().Truncate(24 * time.Hour)
	to := today.AddDate(0, 0, days).Add(24*time.Hour - time.Nanosecond)
	batches, err := s.repo.ExpiringWithin(ctx, today, to)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(batches, func(i, j int) bool {
		return batches[i].Expiry.Before(*batches[j].Expiry)
	})
	return batches, nil
}
