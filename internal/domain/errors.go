package domain

import "errors"

var (
	// ErrInvalidInput is returned when an argument fails validation. No
	// arithmetic is attempted once it is returned.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGenerationExhausted is returned when the randomized search for a prime
	// or generator used up its attempt budget. Callers may retry.
	ErrGenerationExhausted = errors.New("parameter generation exhausted")

	// ErrEntropy is returned when the randomness source fails to deliver bytes.
	ErrEntropy = errors.New("randomness source failure")

	// ErrInvalidPeer is returned by strict peer validation when a public value
	// lies outside 1 < y < p-1.
	ErrInvalidPeer = errors.New("invalid peer public value")

	// ErrUnknownGroup is returned for well-known group identifiers that are not supported.
	ErrUnknownGroup = errors.New("unknown group")

	// ErrFingerprintMismatch means the two sides of a handshake derived different keys.
	ErrFingerprintMismatch = errors.New("key fingerprint mismatch")

	// ErrHandshakeNotFound is returned for unknown or expired handshake identifiers.
	ErrHandshakeNotFound = errors.New("handshake not found")
)

var (
	// ErrDoubleRelease is returned when a boundary buffer is released twice.
	ErrDoubleRelease = errors.New("buffer already released")

	// ErrReleased is returned when a released buffer, or a closed arena, is used.
	ErrReleased = errors.New("use of released buffer")
)
