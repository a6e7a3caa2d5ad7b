// Package posting translates completed domain events produced by external
// collaborators (the POS checkout, invoicing, expense entry) into balanced
// journal posting inputs. The adapters are pure: they never read or write
// domain collections, only transform already-validated totals.
package posting

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cafebooks/cafebooks/internal/accounting/accounts"
	"github.com/cafebooks/cafebooks/internal/accounting/journals"
	accshared "github.com/cafebooks/cafebooks/internal/accounting/shared"
	"github.com/cafebooks/cafebooks/internal/shared"
)

// Chart resolves account codes to ids. *accounts.Chart satisfies it.
type Chart interface {
	AccountID(code string) (int64, error)
}

// Sale is a completed POS sale. Discount already includes any promo
// discount; total = subtotal - discount + tax.
type Sale struct {
	ID       uuid.UUID
	Subtotal float64
	Discount float64
	Tax      float64
	Total    float64
	Currency string
}

// Invoice is a posted customer invoice.
type Invoice struct {
	ID         uuid.UUID
	Amount     float64
	Currency   string
	RateToBase float64
	Paid       bool
}

// Expense is a recorded business expense.
type Expense struct {
	ID         uuid.UUID
	Amount     float64
	Currency   string
	RateToBase float64
	Category   string
}

// SaleEntry builds the journal posting for a completed sale:
// Debit Cash for the total, Credit Sales Revenue for subtotal-discount,
// Credit Sales Tax Payable when tax was collected.
func SaleEntry(chart Chart, sale Sale) (journals.PostingInput, error) {
	for name, v := range map[string]float64{"subtotal": sale.Subtotal, "discount": sale.Discount, "tax": sale.Tax, "total": sale.Total} {
		if !shared.ValidAmount(v) {
			return journals.PostingInput{}, fmt.Errorf("posting: sale %s: %w", name, accshared.ErrInvalidAmount)
		}
	}
	netRevenue := shared.Round2(sale.Subtotal - sale.Discount)
	tax := shared.Round2(sale.Tax)
	if netRevenue < 0 {
		return journals.PostingInput{}, fmt.Errorf("posting: sale discount exceeds subtotal: %w", accshared.ErrInvalidAmount)
	}
	total := shared.Round2(netRevenue + tax)
	if diff := shared.Round2(sale.Total) - total; diff > 0.01 || diff < -0.01 {
		return journals.PostingInput{}, fmt.Errorf("posting: sale total %.2f does not match net+tax %.2f: %w", sale.Total, total, accshared.ErrInvalidAmount)
	}
	cash, err := chart.AccountID(accounts.CodeCash)
	if err != nil {
		return journals.PostingInput{}, err
	}
	revenue, err := chart.AccountID(accounts.CodeSalesRevenue)
	if err != nil {
		return journals.PostingInput{}, err
	}
	lines := []journals.PostingLineInput{
		{AccountID: cash, Debit: total},
		{AccountID: revenue, Credit: netRevenue},
	}
	if tax > 0 {
		taxPayable, err := chart.AccountID(accounts.CodeSalesTaxPayable)
		if err != nil {
			return journals.PostingInput{}, err
		}
		lines = append(lines, journals.PostingLineInput{AccountID: taxPayable, Credit: tax})
	}
	return journals.PostingInput{
		Memo:         "POS sale",
		Currency:     sale.Currency,
		RateToBase:   1,
		SourceModule: "POS",
		SourceID:     sourceID(sale.ID),
		Lines:        lines,
	}, nil
}

// InvoiceEntry builds the posting for an invoice, converting to base
// currency. Paid invoices debit Cash; unpaid ones debit Accounts
// Receivable.
func InvoiceEntry(chart Chart, inv Invoice) (journals.PostingInput, error) {
	if !shared.ValidAmount(inv.Amount) {
		return journals.PostingInput{}, fmt.Errorf("posting: invoice amount: %w", accshared.ErrInvalidAmount)
	}
	rate := inv.RateToBase
	if rate == 0 {
		rate = 1
	}
	if rate < 0 {
		return journals.PostingInput{}, fmt.Errorf("posting: invoice rate: %w", accshared.ErrInvalidAmount)
	}
	amount := shared.MulRound(inv.Amount, rate)
	debitCode := accounts.CodeAccountsReceivable
	if inv.Paid {
		debitCode = accounts.CodeCash
	}
	debitAccount, err := chart.AccountID(debitCode)
	if err != nil {
		return journals.PostingInput{}, err
	}
	revenue, err := chart.AccountID(accounts.CodeSalesRevenue)
	if err != nil {
		return journals.PostingInput{}, err
	}
	return journals.PostingInput{
		Memo:         "Invoice",
		Currency:     inv.Currency,
		RateToBase:   rate,
		SourceModule: "AR",
		SourceID:     sourceID(inv.ID),
		Lines: []journals.PostingLineInput{
			{AccountID: debitAccount, Debit: amount},
			{AccountID: revenue, Credit: amount},
		},
	}, nil
}

// ExpenseEntry builds the posting for an expense, converting to base
// currency: Debit Operating Expenses / Credit Cash.
func ExpenseEntry(chart Chart, exp Expense) (journals.PostingInput, error) {
	if !shared.ValidAmount(exp.Amount) {
		return journals.PostingInput{}, fmt.Errorf("posting: expense amount: %w", accshared.ErrInvalidAmount)
	}
	rate := exp.RateToBase
	if rate == 0 {
		rate = 1
	}
	if rate < 0 {
		return journals.PostingInput{}, fmt.Errorf("posting: expense rate: %w", accshared.ErrInvalidAmount)
	}
	amount := shared.MulRound(exp.Amount, rate)
	opex, err := chart.AccountID(accounts.CodeOperatingExpenses)
	if err != nil {
		return journals.PostingInput{}, err
	}
	cash, err := chart.AccountID(accounts.CodeCash)
	if err != nil {
		return journals.PostingInput{}, err
	}
	memo := "Expense"
	if exp.Category != "" {
		memo = "Expense: " + exp.Category
	}
	return journals.PostingInput{
		Memo:         memo,
		Currency:     exp.Currency,
		RateToBase:   rate,
		SourceModule: "EXPENSE",
		SourceID:     sourceID(exp.ID),
		Lines: []journals.PostingLineInput{
			{AccountID: opex, Debit: amount},
			{AccountID: cash, Credit: amount},
		},
	}, nil
}

// TaxPaymentEntry clears a prior sales-tax liability:
// Debit Sales Tax Payable / Credit Cash.
func TaxPaymentEntry(chart Chart, amount float64) (journals.PostingInput, error) {
	if !shared.ValidAmount(amount) || amount == 0 {
		return journals.PostingInput{}, fmt.Errorf("posting: tax payment amount: %w", accshared.ErrInvalidAmount)
	}
	amount = shared.Round2(amount)
	taxPayable, err := chart.AccountID(accounts.CodeSalesTaxPayable)
	if err != nil {
		return journals.PostingInput{}, err
	}
	cash, err := chart.AccountID(accounts.CodeCash)
	if err != nil {
		return journals.PostingInput{}, err
	}
	return journals.PostingInput{
		Memo:         "Sales tax payment",
		Currency:     "",
		RateToBase:   1,
		SourceModule: "TAX",
		SourceID:     uuid.New(),
		Lines: []journals.PostingLineInput{
			{AccountID: taxPayable, Debit: amount},
			{AccountID: cash, Credit: amount},
		},
	}, nil
}

func sourceID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}
