package crypto_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"dhlib/internal/crypto"
	"dhlib/internal/domain"
)

func TestFindGenerator_SmallestPrimitiveRoot(t *testing.T) {
	for _, tc := range []struct{ p, q, g int64 }{
		{7, 3, 3},
		{11, 5, 2},
		{23, 11, 5},
		{47, 23, 5},
	} {
		g, err := crypto.FindGenerator(big.NewInt(tc.p), big.NewInt(tc.q), 0)
		require.NoError(t, err)
		require.Equal(t, tc.g, g.Int64(), "p=%d", tc.p)
	}
}

func TestFindGenerator_Errors(t *testing.T) {
	_, err := crypto.FindGenerator(big.NewInt(3), big.NewInt(1), 0)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// 2, 3 and 4 are all quadratic residues mod 23.
	_, err = crypto.FindGenerator(big.NewInt(23), big.NewInt(11), 3)
	require.ErrorIs(t, err, domain.ErrGenerationExhausted)
}

func TestGeneratorChecks(t *testing.T) {
	p, q := big.NewInt(23), big.NewInt(11)
	require.False(t, crypto.IsPrimitiveRoot(big.NewInt(2), p, q))
	require.True(t, crypto.IsPrimitiveRoot(big.NewInt(5), p, q))

	require.True(t, crypto.HasLargeOrder(big.NewInt(2), p))
	require.False(t, crypto.HasLargeOrder(big.NewInt(1), p))
	require.False(t, crypto.HasLargeOrder(big.NewInt(22), p))
	require.False(t, crypto.HasLargeOrder(big.NewInt(30), p))
}
