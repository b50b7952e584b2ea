package engine

import (
	"dhlib/internal/crypto"
	"dhlib/internal/domain"
	"dhlib/internal/util/memzero"
)

// HashShared hashes the shared value encoded big-endian at its modulus width.
// The digest depends only on the shared value and that width.
func (e *Engine) HashShared(shared domain.Shared) (domain.Digest, error) {
	z := shared.Int()
	defer memzero.ZeroInt(z)
	return crypto.DigestInt(e.newHash, z, shared.Width())
}

// DeriveKey expands the shared value into size bytes with HKDF-SHA256. A nil
// info uses crypto.DefaultKeyInfo.
func (e *Engine) DeriveKey(shared domain.Shared, salt, info []byte, size int) ([]byte, error) {
	z := shared.Int()
	defer memzero.ZeroInt(z)
	return crypto.DeriveKey(z, shared.Width(), salt, info, size)
}
