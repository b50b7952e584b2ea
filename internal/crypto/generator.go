package crypto

import (
	"fmt"
	"math/big"

	"dhlib/internal/domain"
)

// DefaultGeneratorLimit caps the search for a primitive root. For a safe prime
// roughly half of all candidates qualify, so the cap is never reached in practice.
const DefaultGeneratorLimit = 1 << 16

// IsPrimitiveRoot reports whether g generates the full group mod the safe prime
// p = 2q + 1, that is g^2 != 1 and g^q != 1 mod p.
func IsPrimitiveRoot(g, p, q *big.Int) bool {
	if !inGeneratorRange(g, p) {
		return false
	}
	if new(big.Int).Exp(g, two, p).Cmp(one) == 0 {
		return false
	}
	return new(big.Int).Exp(g, q, p).Cmp(one) != 0
}

// HasLargeOrder reports whether g has order q or 2q mod the safe prime
// p = 2q + 1. Any g in [2, p-2] with g^2 != 1 qualifies.
func HasLargeOrder(g, p *big.Int) bool {
	if !inGeneratorRange(g, p) {
		return false
	}
	return new(big.Int).Exp(g, two, p).Cmp(one) != 0
}

// FindGenerator returns the smallest primitive root g >= 2 of p = 2q + 1,
// trying at most limit candidates.
func FindGenerator(p, q *big.Int, limit int) (*big.Int, error) {
	if p == nil || q == nil || p.Cmp(big.NewInt(5)) < 0 {
		return nil, fmt.Errorf("%w: modulus too small for a generator", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultGeneratorLimit
	}
	g := big.NewInt(2)
	for i := 0; i < limit; i++ {
		if !inGeneratorRange(g, p) {
			break
		}
		if IsPrimitiveRoot(g, p, q) {
			return g, nil
		}
		g.Add(g, one)
	}
	return nil, fmt.Errorf("%w: no generator within %d candidates", domain.ErrGenerationExhausted, limit)
}

// inGeneratorRange reports 2 <= g <= p-2.
func inGeneratorRange(g, p *big.Int) bool {
	if g == nil || p == nil || g.Cmp(two) < 0 {
		return false
	}
	return g.Cmp(new(big.Int).Sub(p, two)) <= 0
}
