package bench

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/monnand/dhkx"
	"github.com/sirupsen/logrus"

	"dhlib/internal/boundary"
	"dhlib/internal/crypto"
	"dhlib/internal/domain"
	"dhlib/internal/engine"
	"dhlib/internal/exchange"
	"dhlib/internal/logging"
	"dhlib/internal/services/handshake"
)

// DefaultStep is the bit-size increment for range checks.
const DefaultStep = 100

// Runner executes checks against one engine.
type Runner struct {
	eng    *engine.Engine
	logger *logrus.Logger
	log    *logrus.Entry
}

// New returns a Runner.
func New(eng *engine.Engine, logger *logrus.Logger) *Runner {
	return &Runner{eng: eng, logger: logger, log: logging.Component(logger, "bench")}
}

// Speed times one full text-level exchange for each size in [from, to].
func (r *Runner) Speed(from, to, step int) (rep Report) {
	rep = Report{Name: "speed"}
	start := time.Now()
	defer func() { rep.Elapsed = time.Since(start) }()

	for i, bits := range sizes(from, to, step) {
		t0 := time.Now()
		if err := r.textExchange(bits); err != nil {
			rep.bug(i, "%d bits: %v", bits, err)
			continue
		}
		el := time.Since(t0)
		rep.Timings = append(rep.Timings, Timing{Label: "exchange", Bits: bits, Elapsed: el})
		r.log.WithFields(logrus.Fields{"bits": bits, "elapsed": el}).Info("speed")
	}
	return rep
}

// Stress runs workers concurrent exchanges of bits-sized groups.
func (r *Runner) Stress(workers, bits int) (rep Report) {
	rep = Report{Name: "stress"}
	start := time.Now()
	defer func() { rep.Elapsed = time.Since(start) }()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			t0 := time.Now()
			err := r.textExchange(bits)
			el := time.Since(t0)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rep.bug(i, "worker %d: %v", i, err)
				return
			}
			rep.Timings = append(rep.Timings, Timing{Label: fmt.Sprintf("worker-%d", i), Bits: bits, Elapsed: el})
		}(i)
	}
	wg.Wait()
	return rep
}

// Leak repeats exchanges and flags any iteration whose retained heap grows by
// more than threshold bytes, or that leaves boundary buffers live.
func (r *Runner) Leak(iterations, bits int, threshold uint64) (rep Report) {
	rep = Report{Name: "leak"}
	start := time.Now()
	defer func() { rep.Elapsed = time.Since(start) }()

	arena := boundary.NewArena(r.eng)
	defer arena.Close()

	var prev uint64
	for i := 0; i < iterations; i++ {
		if err := r.arenaExchange(arena, bits); err != nil {
			rep.bug(i, "%v", err)
			continue
		}
		if n := arena.Live(); n != 0 {
			rep.bug(i, "%d buffers still live", n)
		}
		heap := heapInUse()
		if i > 0 && heap > prev && heap-prev > threshold {
			rep.bug(i, "heap grew by %.2f KiB", float64(heap-prev)/1024)
		}
		prev = heap
	}
	return rep
}

// Primality generates iterations moduli per size and re-checks p and
// (p-1)/2 with math/big, independently of the engine's oracle.
func (r *Runner) Primality(from, to, step, iterations int) (rep Report) {
	rep = Report{Name: "primality"}
	start := time.Now()
	defer func() { rep.Elapsed = time.Since(start) }()

	n := 0
	for _, bits := range sizes(from, to, step) {
		for j := 0; j < iterations; j++ {
			n++
			params, err := r.eng.GenerateParameters(bits)
			if err != nil {
				rep.bug(n, "%d bits: %v", bits, err)
				continue
			}
			if !params.P.ProbablyPrime(5) {
				rep.bug(n, "p=%s is not prime", params.P)
			}
			if !params.Order().ProbablyPrime(5) {
				rep.bug(n, "(p-1)/2 of %d-bit p is not prime", bits)
			}
			if params.Bits() != bits {
				rep.bug(n, "asked for %d bits, got %d", bits, params.Bits())
			}
		}
	}
	return rep
}

// Invalid feeds malformed inputs through the boundary; each must fail with
// ErrInvalidInput and leave nothing live.
func (r *Runner) Invalid() (rep Report) {
	rep = Report{Name: "invalid"}
	start := time.Now()
	defer func() { rep.Elapsed = time.Since(start) }()

	arena := boundary.NewArena(r.eng)
	defer arena.Close()

	checks := []struct {
		name string
		call func() error
	}{
		{"bits=0", func() error { _, _, err := arena.GenerateParameters(0); return err }},
		{"bits=-1", func() error { _, _, err := arena.GenerateParameters(-1); return err }},
		{"p=abc", func() error { _, err := arena.GenerateSecret("abc", "2"); return err }},
		{"p=-23", func() error { _, err := arena.GenerateSecret("-23", "5"); return err }},
		{"g=0", func() error { _, err := arena.GenerateSecret("23", "0"); return err }},
		{"secret=1.5", func() error { _, err := arena.GeneratePublic("23", "5", "1.5"); return err }},
		{"peer=' 4'", func() error { _, err := arena.ComputeShared(" 4", "23", "5", "6"); return err }},
		{"shared=''", func() error { _, err := arena.HashShared(""); return err }},
	}
	for i, c := range checks {
		err := c.call()
		if !errors.Is(err, domain.ErrInvalidInput) {
			rep.bug(i, "%s: expected invalid input, got %v", c.name, err)
		}
	}
	if n := arena.Live(); n != 0 {
		rep.bug(len(checks), "%d buffers live after rejected calls", n)
	}
	return rep
}

// Interop runs an exchange between the engine and dhkx over a well-known
// group and checks both sides derive the same bytes. For groups dhkx ships
// (1, 2 and 14) its own constants are used, so a typo on either side shows
// up as a mismatch.
func (r *Runner) Interop(group int) (rep Report) {
	rep = Report{Name: "interop"}
	start := time.Now()
	defer func() { rep.Elapsed = time.Since(start) }()

	params, err := r.eng.WellKnown(group)
	if err != nil {
		rep.bug(0, "%v", err)
		return rep
	}
	g, err := dhkx.GetGroup(group)
	if err != nil {
		g = dhkx.CreateGroup(params.P, params.G)
	}
	theirs, err := g.GeneratePrivateKey(nil)
	if err != nil {
		rep.bug(0, "dhkx key: %v", err)
		return rep
	}
	ours, ourPub, err := r.eng.GenerateKeyPair(params)
	if err != nil {
		rep.bug(0, "engine key: %v", err)
		return rep
	}
	defer ours.Wipe()

	theirShared, err := g.ComputeKey(dhkx.NewPublicKey(ourPub.Y.Bytes()), theirs)
	if err != nil {
		rep.bug(0, "dhkx shared: %v", err)
		return rep
	}
	ourShared, err := r.eng.ComputeShared(domain.Public{Y: new(big.Int).SetBytes(theirs.Bytes())}, params, ours)
	if err != nil {
		rep.bug(0, "engine shared: %v", err)
		return rep
	}
	defer ourShared.Wipe()

	if got, want := crypto.FixedBytes(ourShared.Int(), ourShared.Width()), theirShared.Bytes(); string(got) != string(want) {
		rep.bug(0, "group %d: shared secrets differ", group)
	}
	rep.Timings = append(rep.Timings, Timing{Label: "dhkx", Bits: params.Bits(), Elapsed: time.Since(start)})
	return rep
}

// Loopback starts a responder on 127.0.0.1 and completes one handshake with it.
func (r *Runner) Loopback(ctx context.Context, req domain.HandshakeRequest, bits int) (rep Report) {
	rep = Report{Name: "loopback"}
	start := time.Now()
	defer func() { rep.Elapsed = time.Since(start) }()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		rep.bug(0, "listen: %v", err)
		return rep
	}
	srv := &http.Server{
		Handler:           exchange.NewServer(r.eng, exchange.ServerConfig{Bits: bits}, r.logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	client := exchange.NewHTTP("http://" + ln.Addr().String())
	res, err := handshake.New(r.eng, client, r.logger).Handshake(ctx, req)
	if err != nil {
		rep.bug(0, "handshake: %v", err)
		return rep
	}
	rep.Timings = append(rep.Timings, Timing{Label: "handshake", Bits: res.Params.Bits(), Elapsed: time.Since(start)})
	return rep
}

// textExchange runs both parties through a scoped arena.
func (r *Runner) textExchange(bits int) error {
	return boundary.Scope(r.eng, func(a *boundary.Arena) error {
		return r.arenaExchange(a, bits)
	})
}

// arenaExchange runs a full exchange on a, releasing every buffer it creates.
func (r *Runner) arenaExchange(a *boundary.Arena, bits int) error {
	pb, gb, err := a.GenerateParameters(bits)
	if err != nil {
		return err
	}
	defer boundary.ReleaseAll(pb, gb)
	p, g := pb.MustString(), gb.MustString()

	side := func() (secret, public *boundary.Buffer, err error) {
		secret, err = a.GenerateSecret(p, g)
		if err != nil {
			return nil, nil, err
		}
		public, err = a.GeneratePublic(p, g, secret.MustString())
		if err != nil {
			_ = secret.Release()
			return nil, nil, err
		}
		return secret, public, nil
	}
	sa, pa, err := side()
	if err != nil {
		return err
	}
	defer boundary.ReleaseAll(sa, pa)
	sb, pbub, err := side()
	if err != nil {
		return err
	}
	defer boundary.ReleaseAll(sb, pbub)

	ka, err := a.ComputeShared(pbub.MustString(), p, g, sa.MustString())
	if err != nil {
		return err
	}
	defer ka.Release()
	kb, err := a.ComputeShared(pa.MustString(), p, g, sb.MustString())
	if err != nil {
		return err
	}
	defer kb.Release()
	if ka.MustString() != kb.MustString() {
		return errors.New("shared secrets differ")
	}

	da, err := a.HashSharedModulus(ka.MustString(), p)
	if err != nil {
		return err
	}
	defer da.Release()
	db, err := a.HashSharedModulus(kb.MustString(), p)
	if err != nil {
		return err
	}
	defer db.Release()
	if da.MustString() != db.MustString() {
		return errors.New("digests differ")
	}
	return nil
}

func sizes(from, to, step int) []int {
	if step <= 0 {
		step = DefaultStep
	}
	var out []int
	for b := from; b <= to; b += step {
		out = append(out, b)
	}
	return out
}

func heapInUse() uint64 {
	runtime.GC()
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}
