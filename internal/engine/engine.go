package engine

import (
	"fmt"
	"hash"
	"io"
	"runtime"

	"github.com/sirupsen/logrus"

	"dhlib/internal/crypto"
	"dhlib/internal/domain"
	"dhlib/internal/logging"
)

// Accepted modulus sizes when no bounds are configured.
const (
	DefaultMinBits = 16
	DefaultMaxBits = 8192
)

// Options configures an Engine. The zero value of each field selects a default.
type Options struct {
	Source      io.Reader
	Rounds      int
	Workers     int
	MaxAttempts int
	MinBits     int
	MaxBits     int
	StrictPeer  bool
	Digest      string
	Cache       *ParamCache
	Logger      *logrus.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithSource sets the randomness source for secrets, witnesses and prime search.
func WithSource(src io.Reader) Option { return func(o *Options) { o.Source = src } }

// WithRounds sets the Miller-Rabin round count.
func WithRounds(n int) Option { return func(o *Options) { o.Rounds = n } }

// WithWorkers sets how many goroutines search for safe primes.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithMaxAttempts bounds the safe-prime search. Zero scales with the bit size.
func WithMaxAttempts(n int) Option { return func(o *Options) { o.MaxAttempts = n } }

// WithBitRange sets the accepted modulus sizes for GenerateParameters.
func WithBitRange(minBits, maxBits int) Option {
	return func(o *Options) {
		o.MinBits = minBits
		o.MaxBits = maxBits
	}
}

// WithStrictPeer makes ComputeShared reject peers outside 1 < y < p-1.
func WithStrictPeer(on bool) Option { return func(o *Options) { o.StrictPeer = on } }

// WithDigest selects the HashShared algorithm (sha256 or blake2b).
func WithDigest(name string) Option { return func(o *Options) { o.Digest = name } }

// WithCache reuses parameters per bit size.
func WithCache(c *ParamCache) Option { return func(o *Options) { o.Cache = c } }

// WithLogger sets the logger. Records go to the "engine" component.
func WithLogger(l *logrus.Logger) Option { return func(o *Options) { o.Logger = l } }

// Engine runs Diffie-Hellman operations. It holds no per-exchange state.
type Engine struct {
	opts    Options
	oracle  crypto.Oracle
	newHash func() hash.Hash
	log     *logrus.Entry
}

var _ domain.Engine = (*Engine)(nil)

// New builds an Engine from opts.
func New(opts ...Option) (*Engine, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Source == nil {
		o.Source = crypto.SystemSource
	}
	if o.Rounds <= 0 {
		o.Rounds = crypto.DefaultRounds
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.MinBits <= 0 {
		o.MinBits = DefaultMinBits
	}
	if o.MaxBits <= 0 {
		o.MaxBits = DefaultMaxBits
	}
	if o.MinBits < crypto.MinSafePrimeBits || o.MinBits > o.MaxBits {
		return nil, fmt.Errorf("%w: bit range [%d, %d]", domain.ErrInvalidInput, o.MinBits, o.MaxBits)
	}
	newHash, err := crypto.HashFunc(o.Digest)
	if err != nil {
		return nil, err
	}
	return &Engine{
		opts:    o,
		oracle:  crypto.NewOracle(o.Rounds, o.Source),
		newHash: newHash,
		log:     logging.Component(o.Logger, "engine"),
	}, nil
}

// Options returns the effective configuration.
func (e *Engine) Options() Options { return e.opts }
