package crypto

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/monnand/dhkx"

	"dhlib/internal/domain"
)

// RFC 3526 group 5 (1536-bit). dhkx ships groups 1, 2 and 14 only.
const modp1536 = "FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F14374FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7EDEE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF0598DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB9ED529077096966D670C354E4ABC9804F1746C08CA237327FFFFFFFFFFFFFFFF"

// wellKnown maps RFC group ids to their (p, g). All are safe primes with
// generator 2.
var wellKnown = map[int]func() (p, g *big.Int, err error){
	1:  fromDHKX(1),
	2:  fromDHKX(2),
	5:  fromHex(modp1536),
	14: fromDHKX(14),
}

func fromDHKX(id int) func() (*big.Int, *big.Int, error) {
	return func() (*big.Int, *big.Int, error) {
		grp, err := dhkx.GetGroup(id)
		if err != nil {
			return nil, nil, err
		}
		return grp.P(), grp.G(), nil
	}
}

func fromHex(h string) func() (*big.Int, *big.Int, error) {
	return func() (*big.Int, *big.Int, error) {
		p, ok := new(big.Int).SetString(h, 16)
		if !ok {
			return nil, nil, fmt.Errorf("bad group constant")
		}
		return p, big.NewInt(2), nil
	}
}

// WellKnownGroup returns the MODP group with the given RFC identifier:
// groups 1 and 2 from RFC 2409, groups 5 and 14 from RFC 3526.
// A fresh copy is returned on every call.
func WellKnownGroup(id int) (domain.Parameters, error) {
	load, ok := wellKnown[id]
	if !ok {
		return domain.Parameters{}, fmt.Errorf("%w: %d", domain.ErrUnknownGroup, id)
	}
	p, g, err := load()
	if err != nil {
		return domain.Parameters{}, fmt.Errorf("group %d: %w", id, err)
	}
	return domain.Parameters{P: p, G: g}, nil
}

// WellKnownGroups lists the supported group identifiers in ascending order.
func WellKnownGroups() []int {
	ids := make([]int, 0, len(wellKnown))
	for id := range wellKnown {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
