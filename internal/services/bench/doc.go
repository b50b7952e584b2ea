// Package bench is dhlib's self-test harness.
//
// Each check runs complete exchanges through the engine or the text boundary
// and returns a Report listing timings and any bugs found:
//
//   - Speed: one exchange per modulus size over a range
//   - Stress: concurrent exchanges from many goroutines
//   - Leak: heap growth and live buffers across repeated exchanges
//   - Primality: generated moduli re-checked by math/big
//   - Invalid: malformed inputs must be rejected
//   - Interop: agreement with github.com/monnand/dhkx
//   - Loopback: a networked handshake against a local responder
package bench
