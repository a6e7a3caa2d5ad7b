package posting

import (
	"context"

	"github.com/cafebooks/cafebooks/internal/accounting/journals"
)

// RateSource resolves a currency into its base-currency multiplier.
// *fx.Table satisfies it.
type RateSource interface {
	RateToBase(code string) (float64, error)
}

// Service posts adapter-built entries through the journal. Invoice and
// expense rates fall back to the configured rate table when the caller
// leaves RateToBase at zero.
type Service struct {
	journals *journals.Service
	chart    Chart
	rates    RateSource
}

func NewService(js *journals.Service, chart Chart, rates RateSource) *Service {
	return &Service{journals: js, chart: chart, rates: rates}
}

// PostSale posts a completed POS sale.
func (s *Service) PostSale(ctx context.Context, sale Sale) (journals.JournalEntry, error) {
	input, err := SaleEntry(s.chart, sale)
	if err != nil {
		return journals.JournalEntry{}, err
	}
	return s.journals.PostEntry(ctx, input)
}

// PostInvoice posts an invoice, resolving the rate when omitted.
func (s *Service) PostInvoice(ctx context.Context, inv Invoice) (journals.JournalEntry, error) {
	if inv.RateToBase == 0 && inv.Currency != "" && s.rates != nil {
		rate, err := s.rates.RateToBase(inv.Currency)
		if err != nil {
			return journals.JournalEntry{}, err
		}
		inv.RateToBase = rate
	}
	input, err := InvoiceEntry(s.chart, inv)
	if err != nil {
		return journals.JournalEntry{}, err
	}
	return s.journals.PostEntry(ctx, input)
}

// PostExpense posts an expense, resolving the rate when omitted.
func (s *Service) PostExpense(ctx context.Context, exp Expense) (journals.JournalEntry, error) {
	if exp.RateToBase == 0 && exp.Currency != "" && s.rates != nil {
		rate, err := s.rates.RateToBase(exp.Currency)
		if err != nil {
			return journals.JournalEntry{}, err
		}
		exp.RateToBase = rate
	}
	input, err := ExpenseEntry(s.chart, exp)
	if err != nil {
		return journals.JournalEntry{}, err
	}
	return s.journals.PostEntry(ctx, input)
}

// RecordTaxPayment clears accumulated sales tax liability.
func (s *Service) RecordTaxPayment(ctx context.Context, amount float64) (journals.JournalEntry, error) {
	input, err := TaxPaymentEntry(s.chart, amount)
	if err != nil {
		return journals.JournalEntry{}, err
	}
	return s.journals.PostEntry(ctx, input)
}
