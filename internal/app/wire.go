package app

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"dhlib/internal/crypto"
	"dhlib/internal/engine"
	"dhlib/internal/logging"
)

// newLogger builds the logger described by the [log] section. The closer is
// non-nil when a log file was opened.
func newLogger(c LogConfig) (*logrus.Logger, io.Closer, error) {
	logger, err := logging.New(c.Level, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	if c.NoStdout {
		logging.WithNoStdout(logger)
	}
	if c.File == "" {
		return logger, nil, nil
	}
	closer, err := logging.WithFile(logger, c.File)
	if err != nil {
		return nil, nil, err
	}
	return logger, closer, nil
}

// newEngine maps the [engine] section onto engine options.
func newEngine(c EngineConfig, cache *engine.ParamCache, logger *logrus.Logger) (*engine.Engine, error) {
	opts := []engine.Option{
		engine.WithRounds(c.Rounds),
		engine.WithWorkers(c.Workers),
		engine.WithMaxAttempts(c.MaxAttempts),
		engine.WithBitRange(c.MinBits, c.MaxBits),
		engine.WithStrictPeer(c.StrictPeer),
		engine.WithDigest(c.Digest),
		engine.WithLogger(logger),
	}
	if cache != nil {
		opts = append(opts, engine.WithCache(cache))
	}
	if c.Seed != "" {
		logger.Warn("engine uses a seeded deterministic source; keys are reproducible")
		opts = append(opts, engine.WithSource(crypto.NewDeterministicSource([]byte(c.Seed))))
	}
	return engine.New(opts...)
}
