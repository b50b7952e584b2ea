package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"math/big"
	"strings"

	"golang.org/x/crypto/blake2b"

	"dhlib/internal/domain"
)

// Digest algorithm names accepted by HashFunc.
const (
	AlgSHA256  = "sha256"
	AlgBLAKE2b = "blake2b"
)

// HashFunc returns a constructor for the named digest algorithm. The empty
// name selects SHA-256.
func HashFunc(name string) (func() hash.Hash, error) {
	switch strings.ToLower(name) {
	case "", AlgSHA256:
		return sha256.New, nil
	case AlgBLAKE2b, "blake2b-256":
		return newBLAKE2b256, nil
	default:
		return nil, fmt.Errorf("%w: unknown digest algorithm %q", domain.ErrInvalidInput, name)
	}
}

func newBLAKE2b256() hash.Hash {
	// Only a bad key length can fail and no key is used.
	h, _ := blake2b.New256(nil)
	return h
}

// DigestInt hashes the big-endian encoding of z left-padded to width bytes and
// returns lowercase hex.
func DigestInt(newHash func() hash.Hash, z *big.Int, width int) (domain.Digest, error) {
	if !IsPositive(z) {
		return "", fmt.Errorf("%w: digest input must be positive", domain.ErrInvalidInput)
	}
	buf := FixedBytes(z, width)
	defer zeroBytes(buf)

	h := newHash()
	h.Write(buf)
	return domain.Digest(hex.EncodeToString(h.Sum(nil))), nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
