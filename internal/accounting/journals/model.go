package journals

import (
	"time"

	"github.com/google/uuid"
)

// JournalEntry captures posting metadata. Entries are append-only: once
// created they are never mutated or deleted.
type JournalEntry struct {
	ID           int64
	Memo         string
	Currency     string
	RateToBase   float64
	SourceModule string
	SourceID     uuid.UUID
	PostedAt     time.Time
	CreatedAt    time.Time
	Lines        []JournalLine
}

// JournalLine stores debit or credit amount for an account, in base
// currency, rounded to two decimal places.
type JournalLine struct {
	ID        int64
	JournalID int64
	AccountID int64
	Debit     float64
	Credit    float64
}
