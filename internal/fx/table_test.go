package fx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cafebooks/cafebooks/internal/shared"
)

func TestTableConvert(t *testing.T) {
	table, err := NewTable("USD", map[string]float64{"EUR": 1.08, "IDR": 0.000062})
	require.NoError(t, err)

	got, err := table.Convert(100, "EUR")
	require.NoError(t, err)
	require.Equal(t, 108.0, got)

	// Base currency converts at 1, as does an empty code.
	got, err = table.Convert(9.9, "USD")
	require.NoError(t, err)
	require.Equal(t, 9.9, got)
	got, err = table.Convert(9.9, "")
	require.NoError(t, err)
	require.Equal(t, 9.9, got)

	_, err = table.Convert(10, "JPY")
	require.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestTableRejectsBadInput(t *testing.T) {
	_, err := NewTable("NOPE", nil)
	require.Error(t, err)

	table, err := NewTable("USD", nil)
	require.NoError(t, err)
	require.Error(t, table.Set("???", 1))
	require.ErrorIs(t, table.Set("EUR", 0), ErrInvalidRate)
	require.ErrorIs(t, table.Set("EUR", -1), ErrInvalidRate)

	_, err = table.Convert(-5, "USD")
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestTableCaseInsensitive(t *testing.T) {
	table, err := NewTable("usd", map[string]float64{"eur": 2})
	require.NoError(t, err)
	require.Equal(t, "USD", table.Base())
	rate, err := table.RateToBase("EuR")
	require.NoError(t, err)
	require.Equal(t, 2.0, rate)
}
