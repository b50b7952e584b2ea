package engine

import (
	"fmt"
	"math/big"

	"dhlib/internal/crypto"
	"dhlib/internal/domain"
	"dhlib/internal/util/memzero"
)

// ComputeShared returns peer^secret mod p, carrying the modulus width for
// canonical encoding.
func (e *Engine) ComputeShared(
	peer domain.Public,
	params domain.Parameters,
	secret domain.Secret,
) (domain.Shared, error) {
	if err := checkParams(params); err != nil {
		return domain.Shared{}, err
	}
	if !crypto.IsPositive(peer.Y) {
		return domain.Shared{}, fmt.Errorf("%w: peer public value must be positive", domain.ErrInvalidInput)
	}
	if e.opts.StrictPeer {
		if err := CheckPeer(peer, params); err != nil {
			return domain.Shared{}, err
		}
	}
	x, err := secretInt(secret)
	if err != nil {
		return domain.Shared{}, err
	}
	defer memzero.ZeroInt(x)

	z := new(big.Int).Exp(peer.Y, x, params.P)
	defer memzero.ZeroInt(z)
	return domain.NewShared(z, params.Width()), nil
}

// CheckPeer reports ErrInvalidPeer unless 1 < y < p-1. Values outside that
// range force the shared secret into {0, 1, p-1}.
func CheckPeer(peer domain.Public, params domain.Parameters) error {
	y := peer.Y
	if y == nil || params.P == nil {
		return fmt.Errorf("%w: missing value", domain.ErrInvalidPeer)
	}
	pm1 := new(big.Int).Sub(params.P, big.NewInt(1))
	if y.Cmp(big.NewInt(1)) <= 0 || y.Cmp(pm1) >= 0 {
		return fmt.Errorf("%w: outside (1, p-1)", domain.ErrInvalidPeer)
	}
	return nil
}
