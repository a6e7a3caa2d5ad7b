package warehouses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cafebooks/cafebooks/internal/shared"
)

type memoryRepo struct {
	rows   []Warehouse
	nextID int64
}

func (r *memoryRepo) List(ctx context.Context) ([]Warehouse, error) {
	out := make([]Warehouse, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Warehouse, error) {
	for _, w := range r.rows {
		if w.ID == id {
			return w, nil
		}
	}
	return Warehouse{}, shared.ErrNotFound
}

func (r *memoryRepo) Create(ctx context.Context, warehouse Warehouse) (Warehouse, error) {
	r.nextID++
	warehouse.ID = r.nextID
	r.rows = append(r.rows, warehouse)
	return warehouse, nil
}

func (r *memoryRepo) Rename(ctx context.Context, id int64, name string) error {
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Name = name
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memoryRepo) Count(ctx context.Context) (int, error) {
	return len(r.rows), nil
}

func TestEnsureDefault(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	wh, err := svc.EnsureDefault(ctx)
	require.NoError(t, err)
	require.Equal(t, DefaultName, wh.Name)

	// Idempotent: a second call returns the existing warehouse.
	again, err := svc.EnsureDefault(ctx)
	require.NoError(t, err)
	require.Equal(t, wh.ID, again.ID)
	count, _ := repo.Count(ctx)
	require.Equal(t, 1, count)
}

func TestCreateValidatesName(t *testing.T) {
	svc := NewService(&memoryRepo{})
	_, err := svc.Create(context.Background(), "   ")
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	wh, err := svc.Create(context.Background(), " Secondary ")
	require.NoError(t, err)
	require.Equal(t, "Secondary", wh.Name)
}
