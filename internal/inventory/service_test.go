package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cafebooks/cafebooks/internal/accounting/accounts"
	"github.com/cafebooks/cafebooks/internal/accounting/journals"
)

type levelKey struct {
	productID   int64
	warehouseID int64
}

type memoryRepo struct {
	levels      map[levelKey]StockLevel
	unitCosts   map[int64]float64
	adjustments []Adjustment
	entries     []journals.PostingInput
	nextAdjID   int64
	nextJeID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		levels:    make(map[levelKey]StockLevel),
		unitCosts: make(map[int64]float64),
	}
}

func (r *memoryRepo) GetLevel(ctx context.Context, productID, warehouseID int64) (StockLevel, error) {
	lvl, ok := r.levels[levelKey{productID, warehouseID}]
	if !ok {
		return StockLevel{}, ErrLevelNotFound
	}
	return lvl, nil
}

func (r *memoryRepo) ListLevels(ctx context.Context, productID int64) ([]StockLevel, error) {
	var out []StockLevel
	for _, lvl := range r.levels {
		if lvl.ProductID == productID {
			out = append(out, lvl)
		}
	}
	return out, nil
}

func (r *memoryRepo) TotalFor(ctx context.Context, productID int64) (float64, error) {
	var total float64
	for _, lvl := range r.levels {
		if lvl.ProductID == productID {
			total += lvl.Qty
		}
	}
	return total, nil
}

func (r *memoryRepo) ListAdjustments(ctx context.Context, productID int64) ([]Adjustment, error) {
	var out []Adjustment
	for i := len(r.adjustments) - 1; i >= 0; i-- {
		if r.adjustments[i].ProductID == productID {
			out = append(out, r.adjustments[i])
		}
	}
	return out, nil
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryTx{repo: r})
}

type memoryTx struct {
	repo *memoryRepo
}

func (t *memoryTx) GetLevelForUpdate(ctx context.Context, productID, warehouseID int64) (StockLevel, error) {
	return t.repo.GetLevel(ctx, productID, warehouseID)
}

func (t *memoryTx) UpsertLevel(ctx context.Context, productID, warehouseID int64, qty float64) error {
	t.repo.levels[levelKey{productID, warehouseID}] = StockLevel{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Qty:         qty,
		UpdatedAt:   time.Now(),
	}
	return nil
}

func (t *memoryTx) SyncProductTotal(ctx context.Context, productID int64) (float64, error) {
	return t.repo.TotalFor(ctx, productID)
}

func (t *memoryTx) UnitCost(ctx context.Context, productID int64) (float64, error) {
	return t.repo.unitCosts[productID], nil
}

func (t *memoryTx) InsertAdjustment(ctx context.Context, adj Adjustment) (int64, error) {
	t.repo.nextAdjID++
	adj.ID = t.repo.nextAdjID
	t.repo.adjustments = append(t.repo.adjustments, adj)
	return adj.ID, nil
}

func (t *memoryTx) InsertEntry(ctx context.Context, in journals.PostingInput, postedAt time.Time) (journals.JournalEntry, error) {
	t.repo.nextJeID++
	t.repo.entries = append(t.repo.entries, in)
	return journals.JournalEntry{ID: t.repo.nextJeID, PostedAt: postedAt}, nil
}

type testChart struct{}

func (testChart) AccountID(code string) (int64, error) {
	switch code {
	case accounts.CodeInventory:
		return 3, nil
	case accounts.CodeCOGS:
		return 6, nil
	}
	return 0, nil
}

func newTestService(repo *memoryRepo, cfg Config) *Service {
	return NewService(repo, testChart{}, nil, nil, nil, cfg)
}

func TestApplyAdjustmentPostsJournal(t *testing.T) {
	repo := newMemoryRepo()
	repo.levels[levelKey{1, 1}] = StockLevel{ProductID: 1, WarehouseID: 1, Qty: 5}
	repo.unitCosts[1] = 2.5
	svc := newTestService(repo, Config{})

	adj, err := svc.ApplyAdjustment(context.Background(), AdjustmentInput{ProductID: 1, WarehouseID: 1, Delta: -2, Reason: "spoilage"})
	require.NoError(t, err)
	require.Equal(t, -2.0, adj.AppliedDelta)
	require.NotZero(t, adj.JournalID)

	lvl, err := repo.GetLevel(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, 3.0, lvl.Qty)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	require.Equal(t, SourceModule, entry.SourceModule)
	require.Len(t, entry.Lines, 2)
	// Shrinkage debits COGS and credits Inventory for 2 * 2.50.
	require.Equal(t, int64(6), entry.Lines[0].AccountID)
	require.Equal(t, 5.0, entry.Lines[0].Debit)
	require.Equal(t, int64(3), entry.Lines[1].AccountID)
	require.Equal(t, 5.0, entry.Lines[1].Credit)
}

func TestApplyAdjustmentIncreaseDebitsInventory(t *testing.T) {
	repo := newMemoryRepo()
	repo.unitCosts[7] = 4
	svc := newTestService(repo, Config{})

	adj, err := svc.ApplyAdjustment(context.Background(), AdjustmentInput{ProductID: 7, WarehouseID: 2, Delta: 3})
	require.NoError(t, err)
	require.Equal(t, 3.0, adj.AppliedDelta)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	require.Equal(t, int64(3), entry.Lines[0].AccountID)
	require.Equal(t, 12.0, entry.Lines[0].Debit)
	require.Equal(t, int64(6), entry.Lines[1].AccountID)
	require.Equal(t, 12.0, entry.Lines[1].Credit)
}

func TestApplyAdjustmentStrictRejectsOverDecrement(t *testing.T) {
	repo := newMemoryRepo()
	repo.levels[levelKey{1, 1}] = StockLevel{ProductID: 1, WarehouseID: 1, Qty: 1}
	repo.unitCosts[1] = 2
	svc := newTestService(repo, Config{})

	_, err := svc.ApplyAdjustment(context.Background(), AdjustmentInput{ProductID: 1, WarehouseID: 1, Delta: -5})
	require.ErrorIs(t, err, ErrInsufficientStock)

	lvl, err := repo.GetLevel(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, 1.0, lvl.Qty)
	require.Empty(t, repo.entries)
	require.Empty(t, repo.adjustments)
}

func TestApplyAdjustmentClampsWhenConfigured(t *testing.T) {
	repo := newMemoryRepo()
	repo.levels[levelKey{1, 1}] = StockLevel{ProductID: 1, WarehouseID: 1, Qty: 1}
	repo.unitCosts[1] = 2
	svc := newTestService(repo, Config{ClampToZero: true})

	adj, err := svc.ApplyAdjustment(context.Background(), AdjustmentInput{ProductID: 1, WarehouseID: 1, Delta: -5})
	require.NoError(t, err)
	require.Equal(t, -5.0, adj.Delta)
	require.Equal(t, -1.0, adj.AppliedDelta)

	lvl, err := repo.GetLevel(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, 0.0, lvl.Qty)

	// Only the applied unit is journaled, not the requested five.
	require.Len(t, repo.entries, 1)
	require.Equal(t, 2.0, repo.entries[0].Lines[0].Debit)
}

func TestApplyAdjustmentZeroCostSkipsJournal(t *testing.T) {
	repo := newMemoryRepo()
	repo.unitCosts[1] = 0
	svc := newTestService(repo, Config{})

	adj, err := svc.ApplyAdjustment(context.Background(), AdjustmentInput{ProductID: 1, WarehouseID: 1, Delta: 4})
	require.NoError(t, err)
	require.Zero(t, adj.JournalID)
	require.Empty(t, repo.entries)

	lvl, err := repo.GetLevel(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, 4.0, lvl.Qty)
}

func TestApplyAdjustmentRejectsZeroDelta(t *testing.T) {
	svc := newTestService(newMemoryRepo(), Config{})
	_, err := svc.ApplyAdjustment(context.Background(), AdjustmentInput{ProductID: 1, WarehouseID: 1, Delta: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestSetLevelRejectsNegative(t *testing.T) {
	svc := newTestService(newMemoryRepo(), Config{})
	err := svc.SetLevel(context.Background(), 1, 1, -1, 0)
	require.ErrorIs(t, err, ErrNegativeLevel)
}

func TestStockAtMissingLevelIsZero(t *testing.T) {
	svc := newTestService(newMemoryRepo(), Config{})
	qty, err := svc.StockAt(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Zero(t, qty)
}

func TestTotalForSumsAcrossWarehouses(t *testing.T) {
	repo := newMemoryRepo()
	repo.levels[levelKey{1, 1}] = StockLevel{ProductID: 1, WarehouseID: 1, Qty: 2}
	repo.levels[levelKey{1, 2}] = StockLevel{ProductID: 1, WarehouseID: 2, Qty: 3}
	repo.levels[levelKey{2, 1}] = StockLevel{ProductID: 2, WarehouseID: 1, Qty: 9}
	svc := newTestService(repo, Config{})

	total, err := svc.TotalFor(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 5.0, total)
}
