package crypto_test

import (
	"bytes"
	"io"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"dhlib/internal/crypto"
	"dhlib/internal/domain"
)

func TestRandomRange_StaysInBounds(t *testing.T) {
	src := crypto.NewDeterministicSource([]byte("range"))
	lo, hi := big.NewInt(2), big.NewInt(21)

	seen := map[int64]bool{}
	for i := 0; i < 2000; i++ {
		x, err := crypto.RandomRange(src, lo, hi)
		require.NoError(t, err)
		require.True(t, x.Cmp(lo) >= 0 && x.Cmp(hi) <= 0, "out of range: %s", x)
		seen[x.Int64()] = true
	}
	// Every value of a 20-element range shows up in 2000 uniform draws.
	require.Len(t, seen, 20)
}

func TestRandomRange_SingletonAndEmpty(t *testing.T) {
	x, err := crypto.RandomRange(crypto.SystemSource, big.NewInt(9), big.NewInt(9))
	require.NoError(t, err)
	require.Equal(t, int64(9), x.Int64())

	_, err = crypto.RandomRange(crypto.SystemSource, big.NewInt(9), big.NewInt(8))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRandomRange_BrokenSource(t *testing.T) {
	_, err := crypto.RandomRange(failingReader{}, big.NewInt(0), big.NewInt(100))
	require.ErrorIs(t, err, domain.ErrEntropy)

	// 0x07 after masking is 7, always above the span of five values.
	_, err = crypto.RandomRange(constReader(0xff), big.NewInt(0), big.NewInt(4))
	require.ErrorIs(t, err, domain.ErrEntropy)
}

func TestDeterministicSource_Reproducible(t *testing.T) {
	read := func(seed string) []byte {
		b := make([]byte, 64)
		_, err := io.ReadFull(crypto.NewDeterministicSource([]byte(seed)), b)
		require.NoError(t, err)
		return b
	}
	require.Equal(t, read("a"), read("a"))
	require.False(t, bytes.Equal(read("a"), read("b")))
	require.False(t, bytes.Equal(read("a"), make([]byte, 64)))
}
