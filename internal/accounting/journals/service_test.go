package journals

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	accshared "github.com/cafebooks/cafebooks/internal/accounting/shared"
)

type memoryRepo struct {
	entries []JournalEntry
	nextID  int64
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{}
}

func (r *memoryRepo) List(ctx context.Context) ([]JournalEntry, error) {
	out := make([]JournalEntry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (JournalEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return JournalEntry{}, accshared.ErrJournalNotFound
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryTx{repo: r})
}

func (tx *memoryTx) InsertEntry(ctx context.Context, in PostingInput, postedAt time.Time) (JournalEntry, error) {
	tx.repo.nextID++
	entry := JournalEntry{
		ID:           tx.repo.nextID,
		Memo:         in.Memo,
		Currency:     in.Currency,
		RateToBase:   in.RateToBase,
		SourceModule: in.SourceModule,
		SourceID:     in.SourceID,
		PostedAt:     postedAt,
	}
	for _, line := range in.Lines {
		entry.Lines = append(entry.Lines, JournalLine{JournalID: entry.ID, AccountID: line.AccountID, Debit: line.Debit, Credit: line.Credit})
	}
	tx.repo.entries = append(tx.repo.entries, entry)
	return entry, nil
}

func balancedInput() PostingInput {
	return PostingInput{
		Memo:         "test",
		Currency:     "USD",
		RateToBase:   1,
		SourceModule: "TEST",
		SourceID:     uuid.New(),
		Lines: []PostingLineInput{
			{AccountID: 1, Debit: 9.90},
			{AccountID: 5, Credit: 9.00},
			{AccountID: 4, Credit: 0.90},
		},
	}
}

func TestPostEntry(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	entry, err := svc.PostEntry(ctx, balancedInput())
	require.NoError(t, err)
	require.NotZero(t, entry.ID)
	require.Len(t, entry.Lines, 3)

	var debit, credit float64
	for _, line := range entry.Lines {
		debit += line.Debit
		credit += line.Credit
	}
	require.InDelta(t, debit, credit, 0.01)
}

func TestPostEntryRejectsImbalance(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	in := balancedInput()
	in.Lines[0].Debit = 10.00
	_, err := svc.PostEntry(context.Background(), in)
	require.ErrorIs(t, err, accshared.ErrUnbalanced)
	require.Empty(t, repo.entries, "imbalanced entry must not be written")
}

func TestPostEntryRoundsBeforeBalanceCheck(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	// 3*0.1 as floats drifts from 0.3; rounding at entry construction must
	// keep this balanced.
	in := PostingInput{
		SourceModule: "TEST",
		SourceID:     uuid.New(),
		Lines: []PostingLineInput{
			{AccountID: 1, Debit: 0.1 + 0.1 + 0.1},
			{AccountID: 5, Credit: 0.3},
		},
	}
	entry, err := svc.PostEntry(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, 0.3, entry.Lines[0].Debit)
	require.Equal(t, 1.0, entry.RateToBase)
}

func TestPostEntryRejectsSingleLine(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	in := balancedInput()
	in.Lines = in.Lines[:1]
	_, err := svc.PostEntry(context.Background(), in)
	require.ErrorIs(t, err, accshared.ErrTooFewLines)
}

func TestListMostRecentFirst(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	first, err := svc.PostEntry(ctx, balancedInput())
	require.NoError(t, err)
	second, err := svc.PostEntry(ctx, balancedInput())
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)
}
