package fx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists configured rates in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Load reads all configured rates.
func (r *Repository) Load(ctx context.Context) (map[string]float64, error) {
	rows, err := r.pool.Query(ctx, `SELECT code, rate_to_base FROM fx_rates`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rates := make(map[string]float64)
	for rows.Next() {
		var code string
		var rate float64
		if err := rows.Scan(&code, &rate); err != nil {
			return nil, err
		}
		rates[code] = rate
	}
	return rates, rows.Err()
}

// Upsert stores a rate for a currency code.
func (r *Repository) Upsert(ctx context.Context, code string, rate float64) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO fx_rates (code, rate_to_base, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (code) DO UPDATE SET rate_to_base = EXCLUDED.rate_to_base, updated_at = EXCLUDED.updated_at`,
		code, rate, time.Now().UTC())
	return err
}
