package journals

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	accshared "github.com/cafebooks/cafebooks/internal/accounting/shared"
	"github.com/cafebooks/cafebooks/internal/shared"
)

// PostingLineInput describes a journal line for a posting request.
type PostingLineInput struct {
	AccountID int64
	Debit     float64
	Credit    float64
}

// PostingInput groups fields required to create a journal entry.
type PostingInput struct {
	Memo         string
	Currency     string
	RateToBase   float64
	SourceModule string
	SourceID     uuid.UUID
	Lines        []PostingLineInput
}

// Normalize rounds every line amount to cents. Rounding happens before the
// balance check so floating drift is never misread as an imbalance.
func (in *PostingInput) Normalize() {
	if in.RateToBase == 0 {
		in.RateToBase = 1
	}
	for i := range in.Lines {
		in.Lines[i].Debit = shared.Round2(in.Lines[i].Debit)
		in.Lines[i].Credit = shared.Round2(in.Lines[i].Credit)
	}
}

// Validate ensures posting input meets minimum criteria. Call Normalize
// first; the balance comparison assumes rounded amounts.
func (in PostingInput) Validate() error {
	if len(in.Lines) < 2 {
		return accshared.ErrTooFewLines
	}
	var debit, credit float64
	for idx, line := range in.Lines {
		if line.AccountID == 0 {
			return fmt.Errorf("accounting: line %d missing account", idx)
		}
		if !shared.ValidAmount(line.Debit) || !shared.ValidAmount(line.Credit) {
			return fmt.Errorf("accounting: line %d: %w", idx, accshared.ErrInvalidAmount)
		}
		if line.Debit > 0 && line.Credit > 0 {
			return fmt.Errorf("accounting: line %d cannot be both debit and credit", idx)
		}
		debit += line.Debit
		credit += line.Credit
	}
	if fmt.Sprintf("%.2f", debit) != fmt.Sprintf("%.2f", credit) {
		return accshared.ErrUnbalanced
	}
	if in.SourceModule == "" {
		return errors.New("accounting: source module required")
	}
	if in.SourceID == uuid.Nil {
		return errors.New("accounting: source id required")
	}
	return nil
}
