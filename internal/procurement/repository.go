package procurement

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cafebooks/cafebooks/internal/accounting/journals"
	"github.com/cafebooks/cafebooks/internal/inventory"
	"github.com/cafebooks/cafebooks/internal/platform/db"
	"github.com/cafebooks/cafebooks/internal/shared"
)

// Repository encapsulates DB operations for purchasing.
type Repository interface {
	List(ctx context.Context) ([]PurchaseOrder, error)
	Get(ctx context.Context, id int64) (PurchaseOrder, error)
	Create(ctx context.Context, po PurchaseOrder) (PurchaseOrder, error)
	ExpiringWithin(ctx context.Context, from, to time.Time) ([]SerialBatch, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the receive flow's writes within one transaction:
// stock increments, batch inserts, the status flip, and the receipt journal
// entry all commit or roll back together.
type TxRepository interface {
	GetForUpdate(ctx context.Context, id int64) (PurchaseOrder, error)
	IncreaseLevel(ctx context.Context, productID, warehouseID int64, qty float64) error
	SyncProductTotal(ctx context.Context, productID int64) (float64, error)
	InsertBatch(ctx context.Context, batch SerialBatch) (int64, error)
	MarkReceived(ctx context.Context, id int64, at time.Time) error
	InsertEntry(ctx context.Context, in journals.PostingInput, postedAt time.Time) (journals.JournalEntry, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const orderColumns = `id, supplier, status, created_at, received_at`

func scanOrder(row pgx.Row) (PurchaseOrder, error) {
	var po PurchaseOrder
	err := row.Scan(&po.ID, &po.Supplier, &po.Status, &po.CreatedAt, &po.ReceivedAt)
	return po, err
}

func (r *repository) List(ctx context.Context) ([]PurchaseOrder, error) {
	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+` FROM purchase_orders ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []PurchaseOrder
	ids := make([]int64, 0)
	for rows.Next() {
		po, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, po)
		ids = append(ids, po.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}
	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *repository) Get(ctx context.Context, id int64) (PurchaseOrder, error) {
	po, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PurchaseOrder{}, shared.ErrNotFound
		}
		return PurchaseOrder{}, err
	}
	items, err := r.itemsFor(ctx, []int64{id})
	if err != nil {
		return PurchaseOrder{}, err
	}
	po.Items = items[id]
	return po, nil
}

func (r *repository) itemsFor(ctx context.Context, ids []int64) (map[int64][]Item, error) {
	rows, err := r.db.Query(ctx, `SELECT id, po_id, product_id, warehouse_id, qty, unit_cost
FROM purchase_order_items WHERE po_id = ANY($1) ORDER BY id ASC`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64][]Item, len(ids))
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.WarehouseID, &item.Qty, &item.UnitCost); err != nil {
			return nil, err
		}
		out[item.OrderID] = append(out[item.OrderID], item)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, po PurchaseOrder) (PurchaseOrder, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return PurchaseOrder{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `INSERT INTO purchase_orders (supplier, status) VALUES ($1,$2) RETURNING id, created_at`,
		po.Supplier, po.Status)
	if err := row.Scan(&po.ID, &po.CreatedAt); err != nil {
		return PurchaseOrder{}, err
	}
	for i := range po.Items {
		po.Items[i].OrderID = po.ID
		err := tx.QueryRow(ctx, `INSERT INTO purchase_order_items (po_id, product_id, warehouse_id, qty, unit_cost)
VALUES ($1,$2,$3,$4,$5) RETURNING id`,
			po.ID, po.Items[i].ProductID, po.Items[i].WarehouseID, po.Items[i].Qty, po.Items[i].UnitCost).
			Scan(&po.Items[i].ID)
		if err != nil {
			return PurchaseOrder{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return PurchaseOrder{}, err
	}
	return po, nil
}

func (r *repository) ExpiringWithin(ctx context.Context, from, to time.Time) ([]SerialBatch, error) {
	rows, err := r.db.Query(ctx, `SELECT id, COALESCE(po_id, 0), product_id, warehouse_id, qty, serial, lot, expiry, received_at
FROM serial_batches WHERE expiry IS NOT NULL AND expiry >= $1 AND expiry <= $2 ORDER BY expiry ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SerialBatch
	for rows.Next() {
		var b SerialBatch
		if err := rows.Scan(&b.ID, &b.OrderID, &b.ProductID, &b.WarehouseID, &b.Qty, &b.Serial, &b.Lot, &b.Expiry, &b.ReceivedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
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

func (r *txRepository) GetForUpdate(ctx context.Context, id int64) (PurchaseOrder, error) {
	po, err := scanOrder(r.tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PurchaseOrder{}, shared.ErrNotFound
		}
		return PurchaseOrder{}, err
	}
	rows, err := r.tx.Query(ctx, `SELECT id, po_id, product_id, warehouse_id, qty, unit_cost
FROM purchase_order_items WHERE po_id=$1 ORDER BY id ASC`, id)
	if err != nil {
		return PurchaseOrder{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.WarehouseID, &item.Qty, &item.UnitCost); err != nil {
			return PurchaseOrder{}, err
		}
		po.Items = append(po.Items, item)
	}
	return po, rows.Err()
}

func (r *txRepository) IncreaseLevel(ctx context.Context, productID, warehouseID int64, qty float64) error {
	return inventory.IncreaseLevelTx(ctx, r.tx, productID, warehouseID, qty)
}

func (r *txRepository) SyncProductTotal(ctx context.Context, productID int64) (float64, error) {
	return inventory.SyncProductTotalTx(ctx, r.tx, productID)
}

func (r *txRepository) InsertBatch(ctx context.Context, batch SerialBatch) (int64, error) {
	var poID any
	if batch.OrderID > 0 {
		poID = batch.OrderID
	}
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO serial_batches (po_id, product_id, warehouse_id, qty, serial, lot, expiry, received_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`,
		poID, batch.ProductID, batch.WarehouseID, batch.Qty, batch.Serial, batch.Lot, batch.Expiry, batch.ReceivedAt).Scan(&id)
	return id, err
}

func (r *txRepository) MarkReceived(ctx context.Context, id int64, at time.Time) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE purchase_orders SET status=$2, received_at=$3 WHERE id=$1 AND status=$4`,
		id, StatusReceived, at, StatusOpen)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *txRepository) InsertEntry(ctx context.Context, in journals.PostingInput, postedAt time.Time) (journals.JournalEntry, error) {
	return journals.InsertWithTx(ctx, r.tx, in, postedAt)
}
