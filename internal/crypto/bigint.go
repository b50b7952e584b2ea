package crypto

import (
	"fmt"
	"math/big"

	"dhlib/internal/domain"
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// ParseDecimal parses s as an unsigned base-10 integer. Only the digits 0-9
// are accepted: no sign, no whitespace, no prefix. There is no length limit.
func ParseDecimal(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty integer text", domain.ErrInvalidInput)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, fmt.Errorf("%w: non-digit %q at offset %d", domain.ErrInvalidInput, s[i], i)
		}
	}
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: malformed integer text", domain.ErrInvalidInput)
	}
	return x, nil
}

// ParsePositive parses s like ParseDecimal and additionally rejects zero.
func ParsePositive(s string) (*big.Int, error) {
	x, err := ParseDecimal(s)
	if err != nil {
		return nil, err
	}
	if x.Sign() <= 0 {
		return nil, fmt.Errorf("%w: integer must be positive", domain.ErrInvalidInput)
	}
	return x, nil
}

// FixedBytes returns x as big-endian bytes left-padded to width. When width is
// smaller than the minimal encoding the minimal encoding is returned.
func FixedBytes(x *big.Int, width int) []byte {
	n := (x.BitLen() + 7) / 8
	if width < n {
		width = n
	}
	return x.FillBytes(make([]byte, width))
}

// IsPositive reports whether x is non-nil and greater than zero.
func IsPositive(x *big.Int) bool { return x != nil && x.Sign() > 0 }
