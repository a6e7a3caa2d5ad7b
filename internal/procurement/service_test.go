package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cafebooks/cafebooks/internal/accounting/accounts"
	"github.com/cafebooks/cafebooks/internal/accounting/journals"
	"github.com/cafebooks/cafebooks/internal/shared"
)

type levelKey struct {
	productID   int64
	warehouseID int64
}

type memoryRepo struct {
	orders  map[int64]*PurchaseOrder
	levels  map[levelKey]float64
	batches []SerialBatch
	entries []journals.PostingInput
	nextID  int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		orders: make(map[int64]*PurchaseOrder),
		levels: make(map[levelKey]float64),
	}
}

func (r *memoryRepo) List(ctx context.Context) ([]PurchaseOrder, error) {
	var out []PurchaseOrder
	for _, po := range r.orders {
		out = append(out, *po)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (PurchaseOrder, error) {
	po, ok := r.orders[id]
	if !ok {
		return PurchaseOrder{}, shared.ErrNotFound
	}
	return *po, nil
}

func (r *memoryRepo) Create(ctx context.Context, po PurchaseOrder) (PurchaseOrder, error) {
	r.nextID++
	po.ID = r.nextID
	po.CreatedAt = time.Now()
	for i := range po.Items {
		po.Items[i].ID = int64(i + 1)
		po.Items[i].OrderID = po.ID
	}
	stored := po
	r.orders[po.ID] = &stored
	return po, nil
}

func (r *memoryRepo) ExpiringWithin(ctx context.Context, from, to time.Time) ([]SerialBatch, error) {
	var out []SerialBatch
	for _, b := range r.batches {
		if b.Expiry == nil {
			continue
		}
		if b.Expiry.Before(from) || b.Expiry.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryTx{repo: r})
}

type memoryTx struct {
	repo *memoryRepo
}

func (t *memoryTx) GetForUpdate(ctx context.Context, id int64) (PurchaseOrder, error) {
	return t.repo.Get(ctx, id)
}

func (t *memoryTx) IncreaseLevel(ctx context.Context, productID, warehouseID int64, qty float64) error {
	t.repo.levels[levelKey{productID, warehouseID}] += qty
	return nil
}

func (t *memoryTx) SyncProductTotal(ctx context.Context, productID int64) (float64, error) {
	var total float64
	for key, qty := range t.repo.levels {
		if key.productID == productID {
			total += qty
		}
	}
	return total, nil
}

func (t *memoryTx) InsertBatch(ctx context.Context, batch SerialBatch) (int64, error) {
	batch.ID = int64(len(t.repo.batches) + 1)
	t.repo.batches = append(t.repo.batches, batch)
	return batch.ID, nil
}

func (t *memoryTx) MarkReceived(ctx context.Context, id int64, at time.Time) error {
	po, ok := t.repo.orders[id]
	if !ok {
		return shared.ErrNotFound
	}
	po.Status = StatusReceived
	po.ReceivedAt = &at
	return nil
}

func (t *memoryTx) InsertEntry(ctx context.Context, in journals.PostingInput, postedAt time.Time) (journals.JournalEntry, error) {
	t.repo.entries = append(t.repo.entries, in)
	return journals.JournalEntry{ID: int64(len(t.repo.entries)), PostedAt: postedAt}, nil
}

type testChart struct{}

func (testChart) AccountID(code string) (int64, error) {
	switch code {
	case accounts.CodeCash:
		return 1, nil
	case accounts.CodeInventory:
		return 3, nil
	}
	return 0, nil
}

func newTestService(repo *memoryRepo) *Service {
	return NewService(repo, testChart{}, nil, nil, nil, Config{})
}

func TestCreatePurchaseOrderValidation(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.CreatePurchaseOrder(ctx, "", []ItemInput{{ProductID: 1, WarehouseID: 1, Qty: 1}}, 0)
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.CreatePurchaseOrder(ctx, "Acme", nil, 0)
	require.ErrorIs(t, err, ErrNoItems)

	_, err = svc.CreatePurchaseOrder(ctx, "Acme", []ItemInput{{ProductID: 1, WarehouseID: 1, Qty: 0}}, 0)
	require.ErrorIs(t, err, ErrInvalidItem)

	po, err := svc.CreatePurchaseOrder(ctx, "Acme", []ItemInput{{ProductID: 1, WarehouseID: 1, Qty: 20, UnitCost: 2}}, 0)
	require.NoError(t, err)
	require.Equal(t, StatusOpen, po.Status)
	require.Len(t, po.Items, 1)
}

func TestReceiveIncrementsStockAndPostsJournal(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	po, err := svc.CreatePurchaseOrder(ctx, "Acme", []ItemInput{{ProductID: 1, WarehouseID: 1, Qty: 20, UnitCost: 2}}, 0)
	require.NoError(t, err)

	require.NoError(t, svc.Receive(ctx, po.ID, nil, 0))

	require.Equal(t, 20.0, repo.levels[levelKey{1, 1}])
	require.Equal(t, StatusReceived, repo.orders[po.ID].Status)

	// One entry: Debit Inventory 40.00 / Credit Cash 40.00.
	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	require.Equal(t, SourceModule, entry.SourceModule)
	require.Len(t, entry.Lines, 2)
	require.Equal(t, int64(3), entry.Lines[0].AccountID)
	require.Equal(t, 40.0, entry.Lines[0].Debit)
	require.Equal(t, int64(1), entry.Lines[1].AccountID)
	require.Equal(t, 40.0, entry.Lines[1].Credit)
}

func TestReceiveIsIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	po, err := svc.CreatePurchaseOrder(ctx, "Acme", []ItemInput{{ProductID: 1, WarehouseID: 1, Qty: 5, UnitCost: 3}}, 0)
	require.NoError(t, err)

	require.NoError(t, svc.Receive(ctx, po.ID, nil, 0))
	require.NoError(t, svc.Receive(ctx, po.ID, nil, 0))

	require.Equal(t, 5.0, repo.levels[levelKey{1, 1}])
	require.Len(t, repo.entries, 1)
}

func TestReceiveMissingOrder(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	err := svc.Receive(context.Background(), 99, nil, 0)
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Empty(t, repo.levels)
	require.Empty(t, repo.entries)
}

func TestReceivePersistsBatches(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	po, err := svc.CreatePurchaseOrder(ctx, "Acme", []ItemInput{{ProductID: 1, WarehouseID: 2, Qty: 10, UnitCost: 1}}, 0)
	require.NoError(t, err)

	expiry := time.Now().AddDate(0, 0, 10)
	err = svc.Receive(ctx, po.ID, []BatchInput{{ProductID: 1, Qty: 10, Lot: "L-7", Expiry: &expiry}}, 0)
	require.NoError(t, err)

	require.Len(t, repo.batches, 1)
	batch := repo.batches[0]
	require.Equal(t, po.ID, batch.OrderID)
	// Warehouse defaults from the matching order line when the batch omits it.
	require.Equal(t, int64(2), batch.WarehouseID)
	require.Equal(t, "L-7", batch.Lot)
}

func TestExpiringWithinSortsAscending(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	day := func(n int) *time.Time {
		d := time.Now().AddDate(0, 0, n)
		return &d
	}
	repo.batches = []SerialBatch{
		{ID: 1, ProductID: 1, WarehouseID: 1, Qty: 1, Expiry: day(20)},
		{ID: 2, ProductID: 1, WarehouseID: 1, Qty: 1, Expiry: day(5)},
		{ID: 3, ProductID: 1, WarehouseID: 1, Qty: 1, Expiry: day(60)},
		{ID: 4, ProductID: 1, WarehouseID: 1, Qty: 1},
	}

	batches, err := svc.ExpiringWithin(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	require.Equal(t, int64(2), batches[0].ID)
	require.Equal(t, int64(1), batches[1].ID)
}
