package types

import (
	"fmt"
	"math/big"

	"dhlib/internal/util/memzero"
)

const redacted = "[redacted]"

// Secret is a private exponent. It exists only inside one party's process and
// formats as a redacted placeholder so it cannot end up in logs by accident.
type Secret struct {
	x *big.Int
}

// NewSecret copies x into a Secret.
func NewSecret(x *big.Int) Secret {
	if x == nil {
		return Secret{}
	}
	return Secret{x: new(big.Int).Set(x)}
}

// Int returns a copy of the exponent, or nil for the zero Secret.
func (s Secret) Int() *big.Int {
	if s.x == nil {
		return nil
	}
	return new(big.Int).Set(s.x)
}

// Decimal returns the base-10 text of the exponent for boundary callers.
func (s Secret) Decimal() string {
	if s.x == nil {
		return ""
	}
	return s.x.Text(10)
}

// IsZero reports whether the Secret is unset.
func (s Secret) IsZero() bool { return s.x == nil }

// Wipe zeroes the exponent in place.
func (s Secret) Wipe() { memzero.ZeroInt(s.x) }

func (s Secret) String() string                { return redacted }
func (s Secret) GoString() string              { return "types.Secret{" + redacted + "}" }
func (s Secret) Format(f fmt.State, verb rune) { _, _ = f.Write([]byte(redacted)) }

// Public is a public value g^secret mod p. It is safe to transmit.
type Public struct {
	Y *big.Int
}

// String returns the decimal form of the value.
func (p Public) String() string {
	if p.Y == nil {
		return ""
	}
	return p.Y.Text(10)
}

// Shared is the secret both parties derive. Width is the byte length of the
// modulus it was computed under; zero means unknown.
type Shared struct {
	z     *big.Int
	width int
}

// NewShared copies z into a Shared with the given canonical width.
func NewShared(z *big.Int, width int) Shared {
	if z == nil {
		return Shared{width: width}
	}
	return Shared{z: new(big.Int).Set(z), width: width}
}

// Int returns a copy of the value, or nil when unset.
func (s Shared) Int() *big.Int {
	if s.z == nil {
		return nil
	}
	return new(big.Int).Set(s.z)
}

// Decimal returns the base-10 text of the value for boundary callers.
func (s Shared) Decimal() string {
	if s.z == nil {
		return ""
	}
	return s.z.Text(10)
}

// Width returns the canonical encoding width in bytes.
func (s Shared) Width() int { return s.width }

// Equal reports whether both values are set and numerically equal.
func (s Shared) Equal(o Shared) bool {
	return s.z != nil && o.z != nil && s.z.Cmp(o.z) == 0
}

// Wipe zeroes the value in place.
func (s Shared) Wipe() { memzero.ZeroInt(s.z) }

func (s Shared) String() string                { return redacted }
func (s Shared) GoString() string              { return "types.Shared{" + redacted + "}" }
func (s Shared) Format(f fmt.State, verb rune) { _, _ = f.Write([]byte(redacted)) }
