package crypto_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"dhlib/internal/crypto"
	"dhlib/internal/domain"
)

func TestParseDecimal_AcceptsDigits(t *testing.T) {
	x, err := crypto.ParseDecimal("0123")
	require.NoError(t, err)
	require.Equal(t, int64(123), x.Int64())

	long := "1" + strings.Repeat("0", 999)
	x, err = crypto.ParseDecimal(long)
	require.NoError(t, err)
	require.Equal(t, long, x.Text(10))
}

func TestParseDecimal_RejectsNonDigits(t *testing.T) {
	for _, in := range []string{"", "-1", "+1", " 1", "1 ", "1a", "0x10", "1.5", "１"} {
		_, err := crypto.ParseDecimal(in)
		require.ErrorIs(t, err, domain.ErrInvalidInput, "input %q", in)
	}
}

func TestParsePositive_RejectsZero(t *testing.T) {
	_, err := crypto.ParsePositive("000")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	x, err := crypto.ParsePositive("7")
	require.NoError(t, err)
	require.Equal(t, int64(7), x.Int64())
}

func TestFixedBytes_PadsToWidth(t *testing.T) {
	require.Equal(t, []byte{0, 0, 0, 0xff}, crypto.FixedBytes(big.NewInt(255), 4))
	require.Equal(t, []byte{0x01, 0x00}, crypto.FixedBytes(big.NewInt(256), 1))
	require.Equal(t, []byte{0x01, 0x00}, crypto.FixedBytes(big.NewInt(256), 0))
}
