package bench_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"dhlib/internal/crypto"
	"dhlib/internal/domain"
	"dhlib/internal/engine"
	"dhlib/internal/services/bench"
)

func newRunner(t *testing.T) *bench.Runner {
	t.Helper()
	e, err := engine.New(
		engine.WithSource(crypto.NewDeterministicSource([]byte(t.Name()))),
		engine.WithRounds(20),
		engine.WithWorkers(2),
	)
	require.NoError(t, err)
	return bench.New(e, nil)
}

func requireOK(t *testing.T, rep bench.Report) {
	t.Helper()
	var buf bytes.Buffer
	rep.Print(&buf)
	require.True(t, rep.OK(), buf.String())
}

func TestSpeed(t *testing.T) {
	rep := newRunner(t).Speed(64, 256, 64)
	requireOK(t, rep)
	require.Len(t, rep.Timings, 4)
	require.Equal(t, 256, rep.Timings[3].Bits)
	require.Positive(t, rep.Elapsed)
	for _, tm := range rep.Timings {
		require.LessOrEqual(t, tm.Elapsed, rep.Elapsed)
	}
}

func TestStress(t *testing.T) {
	rep := newRunner(t).Stress(8, 96)
	requireOK(t, rep)
	require.Len(t, rep.Timings, 8)
	require.Positive(t, rep.Elapsed)
}

func TestLeak(t *testing.T) {
	rep := newRunner(t).Leak(20, 64, 1<<20)
	requireOK(t, rep)
	require.Positive(t, rep.Elapsed)
}

func TestPrimality(t *testing.T) {
	rep := newRunner(t).Primality(32, 132, 50, 2)
	requireOK(t, rep)
}

func TestInvalid(t *testing.T) {
	requireOK(t, newRunner(t).Invalid())
}

func TestInterop(t *testing.T) {
	r := newRunner(t)
	for _, id := range crypto.WellKnownGroups() {
		rep := r.Interop(id)
		requireOK(t, rep)
		require.Positive(t, rep.Elapsed)
	}
	unknown := r.Interop(4)
	require.False(t, unknown.OK())
}

func TestLoopback(t *testing.T) {
	rep := newRunner(t).Loopback(context.Background(), domain.HandshakeRequest{Group: 1}, 0)
	requireOK(t, rep)
	require.Equal(t, 768, rep.Timings[0].Bits)
	require.Positive(t, rep.Elapsed)
}

func TestReport_Print(t *testing.T) {
	rep := newRunner(t).Speed(10, 10, 0)
	require.False(t, rep.OK())

	var buf bytes.Buffer
	rep.Print(&buf)
	require.Contains(t, buf.String(), "speed")
	require.Contains(t, buf.String(), "bug #0")
}
