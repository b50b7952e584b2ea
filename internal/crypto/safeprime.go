package crypto

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sync"
	"sync/atomic"

	"dhlib/internal/domain"
)

// maxDeltaSearch is the number of 2-increment steps examined from one random base.
const maxDeltaSearch = 1 << 16

// MinSafePrimeBits is the smallest modulus size with a safe prime (p = 7).
const MinSafePrimeBits = 3

// SafePrime is a pair of primes with P = 2Q + 1.
type SafePrime struct {
	P *big.Int
	Q *big.Int
}

// SafePrimeGenerator searches for safe primes.
//
// Each worker draws a random odd q of bits-1 bits and walks q, q+2, q+4, ...
// rejecting candidates where q or 2q+1 has a small factor. Survivors get one
// Miller-Rabin round on q, a base-2 Pocklington check on p, and then the full
// oracle on both q and p. The first worker to succeed wins.
//
// MaxAttempts bounds the total work across all workers: every random base and
// every candidate handed to the oracle costs one attempt.
type SafePrimeGenerator struct {
	Oracle      Oracle
	Source      io.Reader
	Workers     int
	MaxAttempts int
}

// DefaultAttempts returns an attempt budget that a healthy source exhausts
// with negligible probability. The expected number of sieve survivors grows
// with the square of the bit length.
func DefaultAttempts(bits int) int {
	return bits*bits/8 + 1024
}

// Generate returns a safe prime of exactly bits bits.
func (g SafePrimeGenerator) Generate(bits int) (SafePrime, error) {
	if bits < MinSafePrimeBits {
		return SafePrime{}, fmt.Errorf("%w: safe prime needs at least %d bits, got %d",
			domain.ErrInvalidInput, MinSafePrimeBits, bits)
	}
	workers := g.Workers
	if workers <= 0 {
		workers = 1
	}
	budget := int64(g.MaxAttempts)
	if budget <= 0 {
		budget = int64(DefaultAttempts(bits))
	}
	if g.Source == nil {
		g.Source = SystemSource
	}
	if g.Oracle.Source == nil || g.Oracle.Rounds <= 0 {
		g.Oracle = NewOracle(g.Oracle.Rounds, g.Source)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		attempts atomic.Int64
		wg       sync.WaitGroup
		found    = make(chan SafePrime, 1)
		errCh    = make(chan error, workers)
		done     = make(chan struct{})
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			g.search(ctx, bits, budget, &attempts, found, errCh)
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case sp := <-found:
		cancel()
		<-done
		return sp, nil
	case err := <-errCh:
		cancel()
		<-done
		return SafePrime{}, err
	case <-done:
	}

	// All workers returned; a result may still be buffered.
	select {
	case sp := <-found:
		return sp, nil
	default:
	}
	select {
	case err := <-errCh:
		return SafePrime{}, err
	default:
	}
	return SafePrime{}, fmt.Errorf("%w: no %d-bit safe prime within %d attempts",
		domain.ErrGenerationExhausted, bits, budget)
}

func (g SafePrimeGenerator) search(
	ctx context.Context,
	bits int,
	budget int64,
	attempts *atomic.Int64,
	found chan<- SafePrime,
	errCh chan<- error,
) {
	qBits := bits - 1
	buf := make([]byte, (qBits+7)/8)
	// Below 8 bits q can itself be one of the small primes.
	sieve := bits > 7
	residues := make([]uint64, len(smallPrimes))

	q := new(big.Int)
	p := new(big.Int)
	step := new(big.Int)

	fail := func(err error) {
		select {
		case errCh <- err:
		default:
		}
	}

	for {
		if ctx.Err() != nil || attempts.Add(1) > budget {
			return
		}
		base, err := randomOdd(g.Source, qBits, buf)
		if err != nil {
			fail(err)
			return
		}
		if sieve {
			m := new(big.Int).Mod(base, smallPrimesProduct).Uint64()
			for i, sp := range smallPrimes {
				residues[i] = m % sp
			}
		}

	NextDelta:
		for d := uint64(0); d < maxDeltaSearch; d += 2 {
			if sieve {
				for i, sp := range smallPrimes {
					r := (residues[i] + d) % sp
					// r == 0: sp divides q. 2r+1 == 0 mod sp: sp divides p.
					if r == 0 || (2*r+1)%sp == 0 {
						continue NextDelta
					}
				}
			}

			q.Add(base, step.SetUint64(d))
			if q.BitLen() != qBits {
				break
			}
			if ctx.Err() != nil || attempts.Add(1) > budget {
				return
			}
			p.Lsh(q, 1)
			p.Add(p, one)

			ok, err := g.check(p, q)
			if err != nil {
				fail(err)
				return
			}
			if ok {
				select {
				case found <- SafePrime{P: new(big.Int).Set(p), Q: new(big.Int).Set(q)}:
				default:
				}
				return
			}
		}
	}
}

func (g SafePrimeGenerator) check(p, q *big.Int) (bool, error) {
	if ok, err := g.Oracle.quick(q); err != nil || !ok {
		return false, err
	}
	if !pocklington(p) {
		return false, nil
	}
	if ok, err := g.Oracle.ProbablyPrime(q); err != nil || !ok {
		return false, err
	}
	return g.Oracle.ProbablyPrime(p)
}

// pocklington reports whether 2^(p-1) = 1 mod p. With q prime, p = 2q + 1 and
// p not divisible by 3, this proves p prime.
func pocklington(p *big.Int) bool {
	e := new(big.Int).Sub(p, one)
	return new(big.Int).Exp(two, e, p).Cmp(one) == 0
}

// IsSafePrime reports whether p and (p-1)/2 both pass the oracle.
func (o Oracle) IsSafePrime(p *big.Int) (bool, error) {
	if p == nil || p.Cmp(big.NewInt(5)) < 0 {
		return false, nil
	}
	ok, err := o.ProbablyPrime(p)
	if err != nil || !ok {
		return false, err
	}
	q := new(big.Int).Sub(p, one)
	q.Rsh(q, 1)
	return o.ProbablyPrime(q)
}
