package shared

import "errors"

var (
	// ErrUnbalanced indicates debit != credit.
	ErrUnbalanced = errors.New("accounting: journal lines must balance")
	// ErrTooFewLines indicates less than two lines.
	ErrTooFewLines = errors.New("accounting: journal requires at least two lines")
	// ErrJournalNotFound indicates missing entry.
	ErrJournalNotFound = errors.New("accounting: journal entry not found")
	// ErrUnknownAccount indicates a code missing from the chart of accounts.
	ErrUnknownAccount = errors.New("accounting: unknown account code")
	// ErrInvalidAmount indicates a NaN, infinite, or negative amount.
	ErrInvalidAmount = errors.New("accounting: invalid amount")
)
