package engine

import (
	"fmt"
	"math/big"

	"dhlib/internal/crypto"
	"dhlib/internal/domain"
	"dhlib/internal/util/memzero"
)

var two = big.NewInt(2)

// GenerateSecret samples an exponent uniformly from [2, p-2].
func (e *Engine) GenerateSecret(params domain.Parameters) (domain.Secret, error) {
	if err := checkParams(params); err != nil {
		return domain.Secret{}, err
	}
	hi := new(big.Int).Sub(params.P, two)
	x, err := crypto.RandomRange(e.opts.Source, two, hi)
	if err != nil {
		return domain.Secret{}, err
	}
	defer memzero.ZeroInt(x)
	return domain.NewSecret(x), nil
}

// GeneratePublic returns g^secret mod p.
func (e *Engine) GeneratePublic(params domain.Parameters, secret domain.Secret) (domain.Public, error) {
	if err := checkParams(params); err != nil {
		return domain.Public{}, err
	}
	x, err := secretInt(secret)
	if err != nil {
		return domain.Public{}, err
	}
	defer memzero.ZeroInt(x)
	return domain.Public{Y: new(big.Int).Exp(params.G, x, params.P)}, nil
}

// GenerateKeyPair is GenerateSecret followed by GeneratePublic.
func (e *Engine) GenerateKeyPair(params domain.Parameters) (domain.Secret, domain.Public, error) {
	secret, err := e.GenerateSecret(params)
	if err != nil {
		return domain.Secret{}, domain.Public{}, err
	}
	pub, err := e.GeneratePublic(params, secret)
	if err != nil {
		secret.Wipe()
		return domain.Secret{}, domain.Public{}, err
	}
	return secret, pub, nil
}

func secretInt(s domain.Secret) (*big.Int, error) {
	if s.IsZero() {
		return nil, fmt.Errorf("%w: secret is unset", domain.ErrInvalidInput)
	}
	x := s.Int()
	if !crypto.IsPositive(x) {
		return nil, fmt.Errorf("%w: secret must be positive", domain.ErrInvalidInput)
	}
	return x, nil
}
