package crypto_test

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"dhlib/internal/crypto"
	"dhlib/internal/domain"
)

func TestDigestInt_FixedWidth(t *testing.T) {
	h, err := crypto.HashFunc("")
	require.NoError(t, err)

	d, err := crypto.DigestInt(h, big.NewInt(255), 4)
	require.NoError(t, err)
	sum := sha256.Sum256([]byte{0, 0, 0, 0xff})
	require.Equal(t, hex.EncodeToString(sum[:]), d.String())

	minimal, err := crypto.DigestInt(h, big.NewInt(255), 0)
	require.NoError(t, err)
	sum = sha256.Sum256([]byte{0xff})
	require.Equal(t, hex.EncodeToString(sum[:]), minimal.String())
	require.NotEqual(t, d, minimal)
}

func TestDigestInt_Algorithms(t *testing.T) {
	sha, err := crypto.HashFunc(crypto.AlgSHA256)
	require.NoError(t, err)
	b2, err := crypto.HashFunc("BLAKE2b")
	require.NoError(t, err)

	z := big.NewInt(123456789)
	d1, err := crypto.DigestInt(sha, z, 8)
	require.NoError(t, err)
	d2, err := crypto.DigestInt(b2, z, 8)
	require.NoError(t, err)

	require.Len(t, d1.String(), 64)
	require.Len(t, d2.String(), 64)
	require.NotEqual(t, d1, d2)

	_, err = crypto.HashFunc("md5")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDigestInt_RejectsNonPositive(t *testing.T) {
	h, _ := crypto.HashFunc("")
	_, err := crypto.DigestInt(h, big.NewInt(0), 4)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = crypto.DigestInt(h, nil, 4)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
