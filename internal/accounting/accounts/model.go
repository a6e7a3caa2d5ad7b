package accounts

import "time"

// AccountType enumerates CoA categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// Well-known codes used by the posting adapters. The seed file must define
// all of them; startup fails otherwise.
const (
	CodeCash               = "1000"
	CodeAccountsReceivable = "1100"
	CodeInventory          = "1300"
	CodeSalesTaxPayable    = "2100"
	CodeSalesRevenue       = "4000"
	CodeCOGS               = "5000"
	CodeOperatingExpenses  = "6000"
)

// Account models a chart of accounts node. The registry is seeded once and
// accounts referenced by journal lines are never deleted.
type Account struct {
	ID        int64
	Code      string
	Name      string
	Type      AccountType
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
