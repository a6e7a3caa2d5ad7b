package posting

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cafebooks/cafebooks/internal/accounting/accounts"
	accshared "github.com/cafebooks/cafebooks/internal/accounting/shared"
)

func testChart() *accounts.Chart {
	return accounts.NewChart([]accounts.Account{
		{ID: 1, Code: accounts.CodeCash, Name: "Cash", Type: accounts.AccountTypeAsset},
		{ID: 2, Code: accounts.CodeAccountsReceivable, Name: "Accounts Receivable", Type: accounts.AccountTypeAsset},
		{ID: 3, Code: accounts.CodeInventory, Name: "Inventory", Type: accounts.AccountTypeAsset},
		{ID: 4, Code: accounts.CodeSalesTaxPayable, Name: "Sales Tax Payable", Type: accounts.AccountTypeLiability},
		{ID: 5, Code: accounts.CodeSalesRevenue, Name: "Sales Revenue", Type: accounts.AccountTypeRevenue},
		{ID: 6, Code: accounts.CodeCOGS, Name: "Cost of Goods Sold", Type: accounts.AccountTypeExpense},
		{ID: 7, Code: accounts.CodeOperatingExpenses, Name: "Operating Expenses", Type: accounts.AccountTypeExpense},
	})
}

func TestSaleEntry(t *testing.T) {
	chart := testChart()
	in, err := SaleEntry(chart, Sale{
		ID:       uuid.New(),
		Subtotal: 10.00,
		Discount: 1.00,
		Tax:      0.90,
		Total:    9.90,
		Currency: "USD",
	})
	require.NoError(t, err)
	require.Len(t, in.Lines, 3)
	require.Equal(t, 9.90, in.Lines[0].Debit)  // cash
	require.Equal(t, 9.00, in.Lines[1].Credit) // revenue
	require.Equal(t, 0.90, in.Lines[2].Credit) // tax payable

	in.Normalize()
	require.NoError(t, in.Validate())
}

func TestSaleEntryNoTax(t *testing.T) {
	in, err := SaleEntry(testChart(), Sale{Subtotal: 5, Total: 5})
	require.NoError(t, err)
	require.Len(t, in.Lines, 2)
}

func TestSaleEntryRejectsBadTotals(t *testing.T) {
	chart := testChart()
	_, err := SaleEntry(chart, Sale{Subtotal: math.NaN(), Total: 1})
	require.ErrorIs(t, err, accshared.ErrInvalidAmount)
	_, err = SaleEntry(chart, Sale{Subtotal: 10, Discount: 11, Total: -1})
	require.ErrorIs(t, err, accshared.ErrInvalidAmount)
	// Total disagreeing with net+tax is a caller bug, rejected up front.
	_, err = SaleEntry(chart, Sale{Subtotal: 10, Tax: 1, Total: 12})
	require.ErrorIs(t, err, accshared.ErrInvalidAmount)
}

func TestInvoiceEntry(t *testing.T) {
	chart := testChart()

	paid, err := InvoiceEntry(chart, Invoice{Amount: 100, Currency: "EUR", RateToBase: 1.08, Paid: true})
	require.NoError(t, err)
	require.Equal(t, int64(1), paid.Lines[0].AccountID) // cash
	require.Equal(t, 108.0, paid.Lines[0].Debit)
	require.Equal(t, 108.0, paid.Lines[1].Credit)

	unpaid, err := InvoiceEntry(chart, Invoice{Amount: 50, Paid: false})
	require.NoError(t, err)
	require.Equal(t, int64(2), unpaid.Lines[0].AccountID) // accounts receivable
	require.Equal(t, 50.0, unpaid.Lines[0].Debit)

	_, err = InvoiceEntry(chart, Invoice{Amount: -1})
	require.ErrorIs(t, err, accshared.ErrInvalidAmount)
}

func TestExpenseEntry(t *testing.T) {
	in, err := ExpenseEntry(testChart(), Expense{Amount: 42.424, Category: "Rent"})
	require.NoError(t, err)
	require.Equal(t, 42.42, in.Lines[0].Debit)
	require.Equal(t, 42.42, in.Lines[1].Credit)
	require.Equal(t, "Expense: Rent", in.Memo)
}

func TestTaxPaymentEntry(t *testing.T) {
	in, err := TaxPaymentEntry(testChart(), 0.90)
	require.NoError(t, err)
	require.Equal(t, int64(4), in.Lines[0].AccountID) // tax payable debited
	require.Equal(t, 0.90, in.Lines[0].Debit)
	require.Equal(t, 0.90, in.Lines[1].Credit)

	_, err = TaxPaymentEntry(testChart(), 0)
	require.ErrorIs(t, err, accshared.ErrInvalidAmount)
}
