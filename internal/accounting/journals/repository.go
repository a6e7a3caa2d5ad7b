package journals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	accshared "github.com/cafebooks/cafebooks/internal/accounting/shared"
	"github.com/cafebooks/cafebooks/internal/platform/db"
)

// Repository encapsulates DB operations for journals.
type Repository interface {
	List(ctx context.Context) ([]JournalEntry, error)
	Get(ctx context.Context, id int64) (JournalEntry, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes methods available within a transaction.
type TxRepository interface {
	InsertEntry(ctx context.Context, in PostingInput, postedAt time.Time) (JournalEntry, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]JournalEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT id, memo, currency, rate_to_base, source_module, source_id, posted_at, created_at
FROM journal_entries ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []JournalEntry
	ids := make([]int64, 0)
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.ID, &e.Memo, &e.Currency, &e.RateToBase, &e.SourceModule, &e.SourceID, &e.PostedAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return entries, nil
	}
	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Lines = lines[entries[i].ID]
	}
	return entries, nil
}

func (r *repository) Get(ctx context.Context, id int64) (JournalEntry, error) {
	var e JournalEntry
	err := r.db.QueryRow(ctx, `SELECT id, memo, currency, rate_to_base, source_module, source_id, posted_at, created_at
FROM journal_entries WHERE id=$1`, id).
		Scan(&e.ID, &e.Memo, &e.Currency, &e.RateToBase, &e.SourceModule, &e.SourceID, &e.PostedAt, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JournalEntry{}, accshared.ErrJournalNotFound
		}
		return JournalEntry{}, err
	}
	lines, err := r.linesFor(ctx, []int64{id})
	if err != nil {
		return JournalEntry{}, err
	}
	e.Lines = lines[id]
	return e, nil
}

func (r *repository) linesFor(ctx context.Context, ids []int64) (map[int64][]JournalLine, error) {
	rows, err := r.db.Query(ctx, `SELECT id, je_id, account_id, debit, credit FROM journal_lines WHERE je_id = ANY($1) ORDER BY id ASC`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64][]JournalLine, len(ids))
	for rows.Next() {
		var line JournalLine
		if err := rows.Scan(&line.ID, &line.JournalID, &line.AccountID, &line.Debit, &line.Credit); err != nil {
			return nil, err
		}
		out[line.JournalID] = append(out[line.JournalID], line)
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

func (r *txRepository) InsertEntry(ctx context.Context, in PostingInput, postedAt time.Time) (JournalEntry, error) {
	return InsertWithTx(ctx, r.tx, in, postedAt)
}

// InsertWithTx appends a journal entry and its lines inside the caller's
// transaction. The inventory and procurement repositories call this so a
// stock mutation and its journal entry commit or roll back together.
func InsertWithTx(ctx context.Context, tx pgx.Tx, in PostingInput, postedAt time.Time) (JournalEntry, error) {
	row := tx.QueryRow(ctx, `INSERT INTO journal_entries (memo, currency, rate_to_base, source_module, source_id, posted_at)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, created_at`,
		in.Memo, in.Currency, in.RateToBase, in.SourceModule, in.SourceID, postedAt)
	entry := JournalEntry{
		Memo:         in.Memo,
		Currency:     in.Currency,
		RateToBase:   in.RateToBase,
		SourceModule: in.SourceModule,
		SourceID:     in.SourceID,
		PostedAt:     postedAt,
	}
	if err := row.Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return JournalEntry{}, err
	}
	for _, line := range in.Lines {
		var lineID int64
		err := tx.QueryRow(ctx, `INSERT INTO journal_lines (je_id, account_id, debit, credit)
VALUES ($1,$2,$3,$4) RETURNING id`, entry.ID, line.AccountID, toNumeric(line.Debit), toNumeric(line.Credit)).Scan(&lineID)
		if err != nil {
			return JournalEntry{}, err
		}
		entry.Lines = append(entry.Lines, JournalLine{
			ID:        lineID,
			JournalID: entry.ID,
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
		})
	}
	return entry, nil
}

func toNumeric(v float64) any {
	return fmt.Sprintf("%.2f", v)
}
