package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"dhlib/internal/domain"
)

const shutdownGrace = 5 * time.Second

// Serve runs the responder on addr until ctx is cancelled. An empty addr
// falls back to [exchange] listen.
func (a *App) Serve(ctx context.Context, addr string, onComplete func(domain.Result)) error {
	if addr == "" {
		addr = a.Config.Exchange.Listen
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return a.serve(ctx, ln, onComplete)
}

func (a *App) serve(ctx context.Context, ln net.Listener, onComplete func(domain.Result)) error {
	handler := a.Server(onComplete)
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go handler.RunJanitor(ctx)

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	a.Logger.WithFields(logrus.Fields{"addr": ln.Addr().String(), "bits": a.Config.Exchange.Bits, "group": a.Config.Exchange.Group}).
		Info("responder listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	sctx, scancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer scancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	a.Logger.Info("responder stopped")
	return nil
}
