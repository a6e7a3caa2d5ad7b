package accounts

import (
	"testing"

	"github.com/stretchr/testify/require"

	accshared "github.com/cafebooks/cafebooks/internal/accounting/shared"
)

func postingAccounts() []Account {
	codes := []struct {
		code string
		name string
		typ  AccountType
	}{
		{CodeCash, "Cash", AccountTypeAsset},
		{CodeAccountsReceivable, "Accounts Receivable", AccountTypeAsset},
		{CodeInventory, "Inventory", AccountTypeAsset},
		{CodeSalesTaxPayable, "Sales Tax Payable", AccountTypeLiability},
		{CodeSalesRevenue, "Sales Revenue", AccountTypeRevenue},
		{CodeCOGS, "Cost of Goods Sold", AccountTypeExpense},
		{CodeOperatingExpenses, "Operating Expenses", AccountTypeExpense},
	}
	out := make([]Account, 0, len(codes))
	for i, c := range codes {
		out = append(out, Account{ID: int64(i + 1), Code: c.code, Name: c.name, Type: c.typ, IsActive: true})
	}
	return out
}

func TestChartResolvesCodes(t *testing.T) {
	chart := NewChart(postingAccounts())

	id, err := chart.AccountID(CodeCash)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	a, err := chart.Lookup(CodeSalesRevenue)
	require.NoError(t, err)
	require.Equal(t, AccountTypeRevenue, a.Type)
}

func TestChartUnknownCode(t *testing.T) {
	chart := NewChart(postingAccounts())
	_, err := chart.AccountID("9999")
	require.ErrorIs(t, err, accshared.ErrUnknownAccount)
}

func TestVerifyPostingCodes(t *testing.T) {
	require.NoError(t, NewChart(postingAccounts()).VerifyPostingCodes())

	partial := postingAccounts()[:3]
	require.ErrorIs(t, NewChart(partial).VerifyPostingCodes(), accshared.ErrUnknownAccount)
}
