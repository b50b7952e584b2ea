package types

import "math/big"

var one = big.NewInt(1)

// Parameters is a finite-field Diffie-Hellman group: a prime modulus P and a
// generator G. Both parties of an exchange share one Parameters value read-only.
type Parameters struct {
	P *big.Int
	G *big.Int
}

// Bits returns the bit length of the modulus.
func (p Parameters) Bits() int {
	if p.P == nil {
		return 0
	}
	return p.P.BitLen()
}

// Width returns the byte length of the modulus, used for fixed-width encodings.
func (p Parameters) Width() int { return (p.Bits() + 7) / 8 }

// Order returns q = (p-1)/2. For a safe prime this is the prime order of the
// quadratic-residue subgroup.
func (p Parameters) Order() *big.Int {
	if p.P == nil {
		return nil
	}
	q := new(big.Int).Sub(p.P, one)
	return q.Rsh(q, 1)
}

// IsZero reports whether the parameters are unset.
func (p Parameters) IsZero() bool { return p.P == nil && p.G == nil }
