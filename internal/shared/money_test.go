package shared

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	require.Equal(t, 9.90, Round2(9.9000000001))
	require.Equal(t, 0.9, Round2(0.9))
	require.Equal(t, 1.01, Round2(1.005))
	require.Equal(t, 0.0, Round2(0))
	require.Equal(t, 106666.67, Round2(106666.6666))
}

func TestMulRound(t *testing.T) {
	// 0.1*3 accumulates binary drift as floats; decimal math keeps cents exact.
	require.Equal(t, 0.30, MulRound(3, 0.1))
	require.Equal(t, 40.0, MulRound(20, 2.0))
	require.Equal(t, 10.0, MulRound(5, 2.0))
}

func TestValidAmount(t *testing.T) {
	require.True(t, ValidAmount(0))
	require.True(t, ValidAmount(12.34))
	require.False(t, ValidAmount(-0.01))
	require.False(t, ValidAmount(math.NaN()))
	require.False(t, ValidAmount(math.Inf(1)))
}
