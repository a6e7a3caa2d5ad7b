package accounts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cafebooks/cafebooks/internal/shared"
)

// SeedAccount is one row of the YAML chart seed file.
type SeedAccount struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type seedFile struct {
	Accounts []SeedAccount `yaml:"accounts"`
}

var validTypes = map[AccountType]bool{
	AccountTypeAsset:     true,
	AccountTypeLiability: true,
	AccountTypeEquity:    true,
	AccountTypeRevenue:   true,
	AccountTypeExpense:   true,
}

// LoadSeed parses the chart seed file. A missing or malformed file is a
// fatal startup condition, never an empty chart.
func LoadSeed(path string) ([]SeedAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("accounts: read seed %s: %w", path, err)
	}
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("accounts: parse seed %s: %w: %v", path, shared.ErrCorruptState, err)
	}
	if len(file.Accounts) == 0 {
		return nil, fmt.Errorf("accounts: seed %s: %w: no accounts defined", path, shared.ErrCorruptState)
	}
	seen := make(map[string]bool, len(file.Accounts))
	for _, a := range file.Accounts {
		if a.Code == "" || a.Name == "" {
			return nil, fmt.Errorf("accounts: seed %s: %w: account missing code or name", path, shared.ErrCorruptState)
		}
		if !validTypes[AccountType(a.Type)] {
			return nil, fmt.Errorf("accounts: seed %s: %w: account %s has invalid type %q", path, shared.ErrCorruptState, a.Code, a.Type)
		}
		if seen[a.Code] {
			return nil, fmt.Errorf("accounts: seed %s: %w: duplicate code %s", path, shared.ErrCorruptState, a.Code)
		}
		seen[a.Code] = true
	}
	return file.Accounts, nil
}
