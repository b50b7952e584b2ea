// Package store provides file-based persistence for dhlib.
//
// It contains concrete implementations of the domain storage interfaces:
//   - Group parameters keyed by modulus size (ParamFileStore, params.json)
//   - Key material sealed under a passphrase (KeyFileStore, keys/<name>.enc)
//
// Files are written through a temp file and an atomic rename with mode 0600.
// All methods are concurrency-safe via internal locking. Secrets never reach
// disk unsealed: key files use scrypt to derive a ChaCha20-Poly1305 key.
package store
