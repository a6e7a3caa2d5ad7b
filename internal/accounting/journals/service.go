package journals

import (
	"context"
	"fmt"
	"time"

	"github.com/cafebooks/cafebooks/internal/shared"
)

type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service owns the append-only journal. All postings flow through
// PostEntry; nothing else writes journal rows.
type Service struct {
	repo  Repository
	audit AuditPort
	now   func() time.Time
}

func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// List returns all entries, most recent first.
func (s *Service) List(ctx context.Context) ([]JournalEntry, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (JournalEntry, error) {
	return s.repo.Get(ctx, id)
}

// PostEntry validates and appends a balanced entry. On imbalance nothing is
// written; callers should treat ErrUnbalanced as a bug in the adapter that
// built the input, not a user-recoverable condition.
func (s *Service) PostEntry(ctx context.Context, input PostingInput) (JournalEntry, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return JournalEntry{}, err
	}
	postedAt := s.now().UTC()
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		inserted, err := tx.InsertEntry(ctx, input, postedAt)
		if err != nil {
			return err
		}
		entry = inserted
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "journal.post",
			Entity:   "journal_entry",
			EntityID: fmt.Sprintf("%d", entry.ID),
			Meta: map[string]any{
				"source_module": input.SourceModule,
				"source_id":     input.SourceID.String(),
			},
			At: postedAt,
		})
	}
	return entry, nil
}
