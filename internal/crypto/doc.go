// Package crypto holds the arithmetic primitives behind dhlib.
//
// Contents
//
//   - Strict base-10 codec and fixed-width big-endian encoding (ParseDecimal, FixedBytes)
//   - Randomness sources: the system CSPRNG and a seeded ChaCha20 stream for tests
//     (SystemSource, NewDeterministicSource) and uniform sampling in a range (RandomRange)
//   - Miller-Rabin primality oracle with trial division (Oracle)
//   - Safe-prime search with a small-prime sieve over parallel workers (SafePrimeGenerator)
//   - Generator selection and checks for safe-prime groups (FindGenerator, IsPrimitiveRoot)
//   - Shared-secret digests, HKDF key derivation and short fingerprints
//   - RFC 2409 / RFC 3526 MODP groups (WellKnownGroup)
//
// # Notes
//
// All integers are math/big values. Functions that need randomness take an
// io.Reader so callers control the source; nothing here reads global state
// except SystemSource. Callers should treat exponents and shared values as
// sensitive and wipe them with memzero.ZeroInt when done.
package crypto
