package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"dhlib/internal/domain"
)

// fingerprintLen is the number of hash bytes kept in a fingerprint.
const fingerprintLen = 10

// Fingerprint returns a short hex fingerprint of key material.
//
// It hashes with SHA-256 and truncates to 10 bytes (20 hex chars). Both sides
// of a handshake compare fingerprints of their digests instead of the digests
// themselves.
func Fingerprint(material []byte) domain.Fingerprint {
	sum := sha256.Sum256(material)
	return domain.Fingerprint(hex.EncodeToString(sum[:fingerprintLen]))
}

// DigestFingerprint fingerprints a shared-secret digest.
func DigestFingerprint(d domain.Digest) domain.Fingerprint {
	return Fingerprint([]byte(d))
}
