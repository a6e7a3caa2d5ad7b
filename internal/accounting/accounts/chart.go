package accounts

import (
	"fmt"

	accshared "github.com/cafebooks/cafebooks/internal/accounting/shared"
)

// Chart is an immutable code-to-account index built from the seeded
// registry. Posting adapters resolve account IDs through it.
type Chart struct {
	byCode map[string]Account
}

// NewChart indexes the given accounts by code.
func NewChart(list []Account) *Chart {
	byCode := make(map[string]Account, len(list))
	for _, a := range list {
		byCode[a.Code] = a
	}
	return &Chart{byCode: byCode}
}

// AccountID resolves a code to its account id.
func (c *Chart) AccountID(code string) (int64, error) {
	a, ok := c.byCode[code]
	if !ok {
		return 0, fmt.Errorf("%w: %s", accshared.ErrUnknownAccount, code)
	}
	return a.ID, nil
}

// Lookup returns the full account for a code.
func (c *Chart) Lookup(code string) (Account, error) {
	a, ok := c.byCode[code]
	if !ok {
		return Account{}, fmt.Errorf("%w: %s", accshared.ErrUnknownAccount, code)
	}
	return a, nil
}

// VerifyPostingCodes ensures every code the posting adapters depend on is
// present. Called once at startup after seeding.
func (c *Chart) VerifyPostingCodes() error {
	for _, code := range []string{
		CodeCash,
		CodeAccountsReceivable,
		CodeInventory,
		CodeSalesTaxPayable,
		CodeSalesRevenue,
		CodeCOGS,
		CodeOperatingExpenses,
	} {
		if _, ok := c.byCode[code]; !ok {
			return fmt.Errorf("%w: %s", accshared.ErrUnknownAccount, code)
		}
	}
	return nil
}
