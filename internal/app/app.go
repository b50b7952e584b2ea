package app

import (
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"dhlib/internal/domain"
	"dhlib/internal/engine"
	"dhlib/internal/exchange"
	"dhlib/internal/services/bench"
	"dhlib/internal/services/handshake"
	"dhlib/internal/store"
)

// App bundles the engine, stores, clients and services for the CLI.
type App struct {
	Config    Config
	Logger    *logrus.Logger
	Engine    *engine.Engine
	Cache     *engine.ParamCache
	Params    *store.ParamFileStore
	Keys      *store.KeyFileStore
	Client    *exchange.HTTPClient
	Handshake *handshake.Service
	Bench     *bench.Runner
	HTTP      *http.Client

	closers []io.Closer
}

// New constructs the dependency graph from cfg. Call Close when done.
func New(cfg Config) (*App, error) {
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}
	a := &App{Config: cfg}

	logger, closer, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	a.Logger = logger
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	a.Params = store.NewParamFileStore(cfg.Home)
	a.Keys = store.NewKeyFileStore(cfg.Home)
	if cfg.Engine.Cache {
		a.Cache = engine.NewParamCache(a.Params)
	}

	a.Engine, err = newEngine(cfg.Engine, a.Cache, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.HTTP = cfg.HTTP
	if a.HTTP == nil {
		a.HTTP = &http.Client{Timeout: cfg.Exchange.Timeout}
	}
	a.Client = exchange.NewHTTP(cfg.Exchange.Server)
	a.Client.HTTP = a.HTTP

	a.Handshake = handshake.New(a.Engine, a.Client, logger)
	a.Handshake.Trust = cfg.Exchange.Trust
	a.Bench = bench.New(a.Engine, logger)
	return a, nil
}

// Server builds a responder from the [exchange] section. The responder always
// validates peers strictly.
func (a *App) Server(onComplete func(domain.Result)) *exchange.Server {
	c := a.Config.Exchange
	return exchange.NewServer(a.Engine, exchange.ServerConfig{
		Bits:         c.Bits,
		Group:        c.Group,
		TTL:          c.TTL,
		MaxPending:   c.MaxPending,
		AllowedPeers: c.AllowedPeers,
		OnComplete:   onComplete,
	}, a.Logger)
}

// Close releases log files opened by New.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
