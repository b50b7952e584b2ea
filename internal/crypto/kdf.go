package crypto

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"

	"dhlib/internal/domain"
)

// DefaultKeyInfo labels keys derived from a Diffie-Hellman shared secret.
const DefaultKeyInfo = "dhlib|key"

// DeriveKey expands the shared secret z, encoded at width bytes, into size
// bytes of key material with HKDF-SHA256.
func DeriveKey(z *big.Int, width int, salt, info []byte, size int) ([]byte, error) {
	if !IsPositive(z) {
		return nil, fmt.Errorf("%w: key derivation input must be positive", domain.ErrInvalidInput)
	}
	if size <= 0 || size > 255*sha256.Size {
		return nil, fmt.Errorf("%w: key size %d out of range", domain.ErrInvalidInput, size)
	}
	if info == nil {
		info = []byte(DefaultKeyInfo)
	}
	ikm := FixedBytes(z, width)
	defer zeroBytes(ikm)

	r := hkdf.New(sha256.New, ikm, salt, info)
	out := make([]byte, size)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("hkdf: %w", err)
	}
	return out, nil
}
