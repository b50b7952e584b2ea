package types

// Digest is the lowercase hex encoding of a hash over a shared secret.
type Digest string

// String returns the string form of the digest.
func (d Digest) String() string { return string(d) }

// Fingerprint is a short identifier for key material presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// HandshakeID identifies a pending handshake on an exchange server.
type HandshakeID string

// String returns the string form of the identifier.
func (id HandshakeID) String() string { return string(id) }
