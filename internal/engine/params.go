package engine

import (
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"

	"dhlib/internal/crypto"
	"dhlib/internal/domain"
)

// GenerateParameters returns a safe prime p of exactly bits bits and the
// smallest primitive root g mod p.
func (e *Engine) GenerateParameters(bits int) (domain.Parameters, error) {
	if bits <= 0 {
		return domain.Parameters{}, fmt.Errorf("%w: bit length must be positive, got %d", domain.ErrInvalidInput, bits)
	}
	if bits < e.opts.MinBits || bits > e.opts.MaxBits {
		return domain.Parameters{}, fmt.Errorf("%w: bit length %d outside [%d, %d]",
			domain.ErrInvalidInput, bits, e.opts.MinBits, e.opts.MaxBits)
	}
	if params, ok := e.cached(bits); ok {
		return params, nil
	}

	start := time.Now()
	sp, err := crypto.SafePrimeGenerator{
		Oracle:      e.oracle,
		Source:      e.opts.Source,
		Workers:     e.opts.Workers,
		MaxAttempts: e.opts.MaxAttempts,
	}.Generate(bits)
	if err != nil {
		e.log.WithFields(logrus.Fields{"bits": bits, "elapsed": time.Since(start)}).
			WithError(err).Debug("safe prime search failed")
		return domain.Parameters{}, err
	}
	g, err := crypto.FindGenerator(sp.P, sp.Q, 0)
	if err != nil {
		return domain.Parameters{}, err
	}
	params := domain.Parameters{P: sp.P, G: g}

	e.log.WithFields(logrus.Fields{
		"bits":    bits,
		"workers": e.opts.Workers,
		"g":       g.String(),
		"elapsed": time.Since(start),
	}).Debug("parameters generated")

	if c := e.opts.Cache; c != nil {
		if err := c.Put(params); err != nil {
			e.log.WithError(err).Warn("persist parameters")
		}
	}
	return cloneParams(params), nil
}

func (e *Engine) cached(bits int) (domain.Parameters, bool) {
	c := e.opts.Cache
	if c == nil {
		return domain.Parameters{}, false
	}
	if params, ok := c.Get(bits); ok {
		return params, true
	}
	params, ok, err := c.Load(bits)
	if err != nil {
		e.log.WithError(err).Warn("load cached parameters")
		return domain.Parameters{}, false
	}
	if !ok {
		return domain.Parameters{}, false
	}
	if err := e.ValidateParameters(params); err != nil {
		e.log.WithError(err).WithField("bits", bits).Warn("discarding stored parameters")
		return domain.Parameters{}, false
	}
	c.Remember(params)
	return cloneParams(params), true
}

// ValidateParameters checks that p is a safe prime and that g has order q or
// 2q, which holds for any g in [2, p-2] with g^2 != 1 mod p.
func (e *Engine) ValidateParameters(params domain.Parameters) error {
	if err := checkParams(params); err != nil {
		return err
	}
	ok, err := e.oracle.IsSafePrime(params.P)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: modulus is not a safe prime", domain.ErrInvalidInput)
	}
	if !crypto.HasLargeOrder(params.G, params.P) {
		return fmt.Errorf("%w: generator has small order", domain.ErrInvalidInput)
	}
	return nil
}

// WellKnown returns an RFC 2409 / RFC 3526 MODP group.
func (e *Engine) WellKnown(id int) (domain.Parameters, error) {
	return crypto.WellKnownGroup(id)
}

var five = big.NewInt(5)

// checkParams validates positivity and rejects moduli too small to hold a
// secret in [2, p-2]. Primality is not re-checked.
func checkParams(params domain.Parameters) error {
	if params.IsZero() {
		return fmt.Errorf("%w: parameters are unset", domain.ErrInvalidInput)
	}
	if !crypto.IsPositive(params.P) {
		return fmt.Errorf("%w: modulus must be positive", domain.ErrInvalidInput)
	}
	if !crypto.IsPositive(params.G) {
		return fmt.Errorf("%w: generator must be positive", domain.ErrInvalidInput)
	}
	if params.P.Cmp(five) < 0 {
		return fmt.Errorf("%w: modulus must be at least 5", domain.ErrInvalidInput)
	}
	return nil
}

func cloneParams(p domain.Parameters) domain.Parameters {
	out := domain.Parameters{}
	if p.P != nil {
		out.P = new(big.Int).Set(p.P)
	}
	if p.G != nil {
		out.G = new(big.Int).Set(p.G)
	}
	return out
}
