package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cafebooks/cafebooks/internal/accounting/journals"
	"github.com/cafebooks/cafebooks/internal/platform/db"
	"github.com/cafebooks/cafebooks/internal/shared"
)

// Repository encapsulates DB operations for the stock ledger.
type Repository interface {
	GetLevel(ctx context.Context, productID, warehouseID int64) (StockLevel, error)
	ListLevels(ctx context.Context, productID int64) ([]StockLevel, error)
	TotalFor(ctx context.Context, productID int64) (float64, error)
	ListAdjustments(ctx context.Context, productID int64) ([]Adjustment, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes stock mutations available within a transaction. The
// journal insert lives here too so a stock change and its ledger entry commit
// or roll back together.
type TxRepository interface {
	GetLevelForUpdate(ctx context.Context, productID, warehouseID int64) (StockLevel, error)
	UpsertLevel(ctx context.Context, productID, warehouseID int64, qty float64) error
	SyncProductTotal(ctx context.Context, productID int64) (float64, error)
	UnitCost(ctx context.Context, productID int64) (float64, error)
	InsertAdjustment(ctx context.Context, adj Adjustment) (int64, error)
	InsertEntry(ctx context.Context, in journals.PostingInput, postedAt time.Time) (journals.JournalEntry, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) GetLevel(ctx context.Context, productID, warehouseID int64) (StockLevel, error) {
	var lvl StockLevel
	err := r.db.QueryRow(ctx, `SELECT product_id, warehouse_id, qty, updated_at
FROM stock_levels WHERE product_id=$1 AND warehouse_id=$2`, productID, warehouseID).
		Scan(&lvl.ProductID, &lvl.WarehouseID, &lvl.Qty, &lvl.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockLevel{}, ErrLevelNotFound
		}
		return StockLevel{}, err
	}
	return lvl, nil
}

func (r *repository) ListLevels(ctx context.Context, productID int64) ([]StockLevel, error) {
	rows, err := r.db.Query(ctx, `SELECT product_id, warehouse_id, qty, updated_at
FROM stock_levels WHERE product_id=$1 ORDER BY warehouse_id`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StockLevel
	for rows.Next() {
		var lvl StockLevel
		if err := rows.Scan(&lvl.ProductID, &lvl.WarehouseID, &lvl.Qty, &lvl.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, lvl)
	}
	return out, rows.Err()
}

func (r *repository) TotalFor(ctx context.Context, productID int64) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(qty), 0) FROM stock_levels WHERE product_id=$1`, productID).Scan(&total)
	return total, err
}

func (r *repository) ListAdjustments(ctx context.Context, productID int64) ([]Adjustment, error) {
	rows, err := r.db.Query(ctx, `SELECT id, product_id, warehouse_id, delta, applied_delta, reason, COALESCE(je_id, 0), created_at
FROM stock_adjustments WHERE product_id=$1 ORDER BY id DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Adjustment
	for rows.Next() {
		var adj Adjustment
		if err := rows.Scan(&adj.ID, &adj.ProductID, &adj.WarehouseID, &adj.Delta, &adj.AppliedDelta, &adj.Reason, &adj.JournalID, &adj.At); err != nil {
			return nil, err
		}
		out = append(out, adj)
	}
	return out, rows.Err()
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) GetLevelForUpdate(ctx context.Context, productID, warehouseID int64) (StockLevel, error) {
	var lvl StockLevel
	err := r.tx.QueryRow(ctx, `SELECT product_id, warehouse_id, qty, updated_at
FROM stock_levels WHERE product_id=$1 AND warehouse_id=$2 FOR UPDATE`, productID, warehouseID).
		Scan(&lvl.ProductID, &lvl.WarehouseID, &lvl.Qty, &lvl.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockLevel{}, ErrLevelNotFound
		}
		return StockLevel{}, err
	}
	return lvl, nil
}

func (r *txRepository) UpsertLevel(ctx context.Context, productID, warehouseID int64, qty float64) error {
	return UpsertLevelTx(ctx, r.tx, productID, warehouseID, qty)
}

func (r *txRepository) SyncProductTotal(ctx context.Context, productID int64) (float64, error) {
	return SyncProductTotalTx(ctx, r.tx, productID)
}

func (r *txRepository) UnitCost(ctx context.Context, productID int64) (float64, error) {
	var cost float64
	err := r.tx.QueryRow(ctx, `SELECT unit_cost FROM products WHERE id=$1`, productID).Scan(&cost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return cost, nil
}

func (r *txRepository) InsertAdjustment(ctx context.Context, adj Adjustment) (int64, error) {
	var jeID any
	if adj.JournalID > 0 {
		jeID = adj.JournalID
	}
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO stock_adjustments (product_id, warehouse_id, delta, applied_delta, reason, je_id)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		adj.ProductID, adj.WarehouseID, adj.Delta, adj.AppliedDelta, adj.Reason, jeID).Scan(&id)
	return id, err
}

func (r *txRepository) InsertEntry(ctx context.Context, in journals.PostingInput, postedAt time.Time) (journals.JournalEntry, error) {
	return journals.InsertWithTx(ctx, r.tx, in, postedAt)
}

// UpsertLevelTx writes the absolute quantity for a (product, warehouse) pair
// inside the caller's transaction. Exported for the procurement repository,
// which increments stock and posts the receipt journal in one transaction.
func UpsertLevelTx(ctx context.Context, tx pgx.Tx, productID, warehouseID int64, qty float64) error {
	_, err := tx.Exec(ctx, `INSERT INTO stock_levels (product_id, warehouse_id, qty, updated_at)
VALUES ($1,$2,$3,NOW())
ON CONFLICT (product_id, warehouse_id) DO UPDATE SET qty=EXCLUDED.qty, updated_at=NOW()`,
		productID, warehouseID, qty)
	return err
}

// IncreaseLevelTx adds qty to a (product, warehouse) pair, creating the row
// when missing.
func IncreaseLevelTx(ctx context.Context, tx pgx.Tx, productID, warehouseID int64, qty float64) error {
	_, err := tx.Exec(ctx, `INSERT INTO stock_levels (product_id, warehouse_id, qty, updated_at)
VALUES ($1,$2,$3,NOW())
ON CONFLICT (product_id, warehouse_id) DO UPDATE SET qty=stock_levels.qty+EXCLUDED.qty, updated_at=NOW()`,
		productID, warehouseID, qty)
	return err
}

// SyncProductTotalTx recomputes the product's denormalized stock total from
// its levels and returns the new total.
func SyncProductTotalTx(ctx context.Context, tx pgx.Tx, productID int64) (float64, error) {
	var total float64
	err := tx.QueryRow(ctx, `UPDATE products SET stock_total=(
SELECT COALESCE(SUM(qty), 0) FROM stock_levels WHERE product_id=$1
), updated_at=NOW() WHERE id=$1 RETURNING stock_total`, productID).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return total, nil
}
