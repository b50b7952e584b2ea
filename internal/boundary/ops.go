package boundary

import (
	"dhlib/internal/crypto"
	"dhlib/internal/domain"
	"dhlib/internal/util/memzero"
)

// GenerateParameters returns p and g as two buffers. Invalid bit lengths are
// rejected before any arithmetic.
func (a *Arena) GenerateParameters(bits int) (p, g *Buffer, err error) {
	if err := a.usable(); err != nil {
		return nil, nil, err
	}
	params, err := a.eng.GenerateParameters(bits)
	if err != nil {
		return nil, nil, err
	}
	if p, err = a.alloc(params.P.Text(10)); err != nil {
		return nil, nil, err
	}
	if g, err = a.alloc(params.G.Text(10)); err != nil {
		_ = p.Release()
		return nil, nil, err
	}
	return p, g, nil
}

// GenerateSecret returns a fresh secret in [2, p-2].
func (a *Arena) GenerateSecret(p, g string) (*Buffer, error) {
	if err := a.usable(); err != nil {
		return nil, err
	}
	params, err := parseParams(p, g)
	if err != nil {
		return nil, err
	}
	secret, err := a.eng.GenerateSecret(params)
	if err != nil {
		return nil, err
	}
	defer secret.Wipe()
	return a.alloc(secret.Decimal())
}

// GeneratePublic returns g^secret mod p.
func (a *Arena) GeneratePublic(p, g, secret string) (*Buffer, error) {
	if err := a.usable(); err != nil {
		return nil, err
	}
	params, err := parseParams(p, g)
	if err != nil {
		return nil, err
	}
	s, err := parseSecret(secret)
	if err != nil {
		return nil, err
	}
	defer s.Wipe()
	pub, err := a.eng.GeneratePublic(params, s)
	if err != nil {
		return nil, err
	}
	return a.alloc(pub.String())
}

// ComputeShared returns peer^secret mod p.
func (a *Arena) ComputeShared(peer, p, g, secret string) (*Buffer, error) {
	if err := a.usable(); err != nil {
		return nil, err
	}
	y, err := crypto.ParsePositive(peer)
	if err != nil {
		return nil, err
	}
	params, err := parseParams(p, g)
	if err != nil {
		return nil, err
	}
	s, err := parseSecret(secret)
	if err != nil {
		return nil, err
	}
	defer s.Wipe()
	shared, err := a.eng.ComputeShared(domain.Public{Y: y}, params, s)
	if err != nil {
		return nil, err
	}
	defer shared.Wipe()
	return a.alloc(shared.Decimal())
}

// HashShared digests shared encoded at its minimal big-endian width. When the
// shared value has leading zero bytes relative to its modulus, the result
// differs from Engine.HashShared for the same exchange; callers that know p
// should use HashSharedModulus.
func (a *Arena) HashShared(shared string) (*Buffer, error) {
	return a.hashShared(shared, 0)
}

// HashSharedModulus digests shared encoded at the byte width of p, matching
// the digest an engine computes for a Shared produced under p.
func (a *Arena) HashSharedModulus(shared, p string) (*Buffer, error) {
	m, err := crypto.ParsePositive(p)
	if err != nil {
		return nil, err
	}
	return a.hashShared(shared, domain.Parameters{P: m}.Width())
}

func (a *Arena) hashShared(shared string, width int) (*Buffer, error) {
	if err := a.usable(); err != nil {
		return nil, err
	}
	z, err := crypto.ParsePositive(shared)
	if err != nil {
		return nil, err
	}
	defer memzero.ZeroInt(z)
	s := domain.NewShared(z, width)
	defer s.Wipe()
	d, err := a.eng.HashShared(s)
	if err != nil {
		return nil, err
	}
	return a.alloc(d.String())
}

func parseParams(p, g string) (domain.Parameters, error) {
	pi, err := crypto.ParsePositive(p)
	if err != nil {
		return domain.Parameters{}, err
	}
	gi, err := crypto.ParsePositive(g)
	if err != nil {
		return domain.Parameters{}, err
	}
	return domain.Parameters{P: pi, G: gi}, nil
}

func parseSecret(s string) (domain.Secret, error) {
	x, err := crypto.ParsePositive(s)
	if err != nil {
		return domain.Secret{}, err
	}
	defer memzero.ZeroInt(x)
	return domain.NewSecret(x), nil
}
