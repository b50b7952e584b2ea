package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"
	"sync"

	"golang.org/x/crypto/chacha20"

	"dhlib/internal/domain"
)

// maxSampleTries bounds rejection sampling. Each try succeeds with probability
// above 1/2, so hitting the bound means the source is broken.
const maxSampleTries = 256

// SystemSource is the operating system CSPRNG. It is safe for concurrent use.
var SystemSource io.Reader = rand.Reader

// deterministicSource is a ChaCha20 keystream keyed from a seed. The lock is
// held only while producing bytes.
type deterministicSource struct {
	mu     sync.Mutex
	stream *chacha20.Cipher
}

// NewDeterministicSource returns a reproducible byte stream derived from seed.
// It is meant for tests and reproducible benchmarks, never for live keys.
func NewDeterministicSource(seed []byte) io.Reader {
	key := sha256.Sum256(seed)
	nonce := make([]byte, chacha20.NonceSize)
	// Key and nonce sizes are fixed above, so construction cannot fail.
	stream, _ := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	return &deterministicSource{stream: stream}
}

func (s *deterministicSource) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	s.mu.Lock()
	s.stream.XORKeyStream(p, p)
	s.mu.Unlock()
	return len(p), nil
}

// RandomRange returns an integer drawn uniformly from [lo, hi] by rejection
// sampling from src.
func RandomRange(src io.Reader, lo, hi *big.Int) (*big.Int, error) {
	if lo == nil || hi == nil || hi.Cmp(lo) < 0 {
		return nil, fmt.Errorf("%w: empty sampling range", domain.ErrInvalidInput)
	}
	span := new(big.Int).Sub(hi, lo)
	span.Add(span, one)

	bits := span.BitLen()
	buf := make([]byte, (bits+7)/8)
	mask := byte(0xff)
	if r := bits % 8; r != 0 {
		mask = byte(1<<uint(r)) - 1
	}

	x := new(big.Int)
	for i := 0; i < maxSampleTries; i++ {
		if _, err := io.ReadFull(src, buf); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrEntropy, err)
		}
		buf[0] &= mask
		x.SetBytes(buf)
		if x.Cmp(span) < 0 {
			return x.Add(x, lo), nil
		}
	}
	return nil, fmt.Errorf("%w: range sampling did not converge", domain.ErrEntropy)
}

// randomOdd fills buf from src and returns an odd integer of exactly bits bits.
func randomOdd(src io.Reader, bits int, buf []byte) (*big.Int, error) {
	if _, err := io.ReadFull(src, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEntropy, err)
	}
	top := uint(bits % 8)
	if top == 0 {
		top = 8
	}
	buf[0] &= byte(int(1<<top) - 1)
	buf[0] |= byte(1 << (top - 1))
	buf[len(buf)-1] |= 1
	return new(big.Int).SetBytes(buf), nil
}
