package crypto_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// constReader yields the same byte forever.
type constReader byte

func (c constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(c)
	}
	return len(p), nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("source unavailable") }

func mustInt(t *testing.T, s string, base int) *big.Int {
	t.Helper()
	x, ok := new(big.Int).SetString(s, base)
	require.True(t, ok, "bad literal %q", s)
	return x
}
