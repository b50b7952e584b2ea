package crypto

import (
	"io"
	"math/big"
)

// DefaultRounds gives a false-positive bound of 4^-40 = 2^-80 per call.
const DefaultRounds = 40

// smallPrimes are used for trial division and for sieving safe-prime candidates.
// Their product fits in a uint64.
var smallPrimes = []uint64{3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53}

var smallPrimesProduct = new(big.Int).SetUint64(16294579238595022365)

// Oracle is a probabilistic primality test: trial division by small primes
// followed by Rounds Miller-Rabin iterations with witnesses drawn from Source.
type Oracle struct {
	Rounds int
	Source io.Reader
}

// NewOracle returns an Oracle with the given rounds and source, falling back
// to DefaultRounds and SystemSource for zero values.
func NewOracle(rounds int, src io.Reader) Oracle {
	if rounds <= 0 {
		rounds = DefaultRounds
	}
	if src == nil {
		src = SystemSource
	}
	return Oracle{Rounds: rounds, Source: src}
}

// ProbablyPrime reports whether n is prime. A composite is reported prime with
// probability at most 4^-Rounds. The only error is a failing randomness source.
func (o Oracle) ProbablyPrime(n *big.Int) (bool, error) {
	return o.probablyPrime(n, o.Rounds)
}

// quick runs a single round; it is used to discard candidates cheaply.
func (o Oracle) quick(n *big.Int) (bool, error) {
	return o.probablyPrime(n, 1)
}

func (o Oracle) probablyPrime(n *big.Int, rounds int) (bool, error) {
	if n == nil || n.Sign() <= 0 {
		return false, nil
	}
	if n.IsUint64() && n.Uint64() < 64 {
		return isSmallPrime(n.Uint64()), nil
	}
	if n.Bit(0) == 0 {
		return false, nil
	}
	m := new(big.Int).Mod(n, smallPrimesProduct).Uint64()
	for _, sp := range smallPrimes {
		if m%sp == 0 {
			return false, nil
		}
	}
	return millerRabin(n, rounds, o.Source)
}

// millerRabin assumes n is odd and n > 4.
func millerRabin(n *big.Int, rounds int, src io.Reader) (bool, error) {
	nm1 := new(big.Int).Sub(n, one)
	d := new(big.Int).Set(nm1)
	s := d.TrailingZeroBits()
	d.Rsh(d, s)

	hi := new(big.Int).Sub(n, two)
	x := new(big.Int)

NextWitness:
	for i := 0; i < rounds; i++ {
		a, err := RandomRange(src, two, hi)
		if err != nil {
			return false, err
		}
		x.Exp(a, d, n)
		if x.Cmp(one) == 0 || x.Cmp(nm1) == 0 {
			continue
		}
		for j := uint(1); j < s; j++ {
			x.Mul(x, x)
			x.Mod(x, n)
			if x.Cmp(nm1) == 0 {
				continue NextWitness
			}
			if x.Cmp(one) == 0 {
				return false, nil
			}
		}
		return false, nil
	}
	return true, nil
}

func isSmallPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	for f := uint64(2); f*f <= n; f++ {
		if n%f == 0 {
			return false
		}
	}
	return true
}
