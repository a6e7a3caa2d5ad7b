package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cafebooks/cafebooks/internal/shared"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadSeedParsesAccounts(t *testing.T) {
	path := writeSeed(t, `accounts:
  - code: "1000"
    name: Cash
    type: ASSET
  - code: "4000"
    name: Sales Revenue
    type: REVENUE
`)
	seed, err := LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, seed, 2)
	require.Equal(t, "1000", seed[0].Code)
	require.Equal(t, "REVENUE", seed[1].Type)
}

func TestLoadSeedMissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestLoadSeedMalformedYAML(t *testing.T) {
	path := writeSeed(t, "accounts: [whoops")
	_, err := LoadSeed(path)
	require.ErrorIs(t, err, shared.ErrCorruptState)
}

func TestLoadSeedRejectsEmptyChart(t *testing.T) {
	path := writeSeed(t, "accounts: []\n")
	_, err := LoadSeed(path)
	require.ErrorIs(t, err, shared.ErrCorruptState)
}

func TestLoadSeedRejectsInvalidType(t *testing.T) {
	path := writeSeed(t, `accounts:
  - code: "1000"
    name: Cash
    type: MONEY
`)
	_, err := LoadSeed(path)
	require.ErrorIs(t, err, shared.ErrCorruptState)
}

func TestLoadSeedRejectsDuplicateCode(t *testing.T) {
	path := writeSeed(t, `accounts:
  - code: "1000"
    name: Cash
    type: ASSET
  - code: "1000"
    name: Petty Cash
    type: ASSET
`)
	_, err := LoadSeed(path)
	require.ErrorIs(t, err, shared.ErrCorruptState)
}
