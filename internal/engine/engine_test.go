package engine_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"runtime"
	"sync"
	"testing"

	"github.com/monnand/dhkx"
	"github.com/stretchr/testify/require"

	"dhlib/internal/crypto"
	"dhlib/internal/domain"
	"dhlib/internal/engine"
	"dhlib/internal/logging"
)

func newEngine(t *testing.T, seed string, opts ...engine.Option) *engine.Engine {
	t.Helper()
	base := []engine.Option{
		engine.WithSource(crypto.NewDeterministicSource([]byte(seed))),
		engine.WithRounds(20),
		engine.WithWorkers(2),
	}
	e, err := engine.New(append(base, opts...)...)
	require.NoError(t, err)
	return e
}

// exchange runs both sides and returns the two shared values.
func exchange(t *testing.T, e *engine.Engine, params domain.Parameters) (domain.Shared, domain.Shared) {
	t.Helper()
	a, pubA, err := e.GenerateKeyPair(params)
	require.NoError(t, err)
	b, pubB, err := e.GenerateKeyPair(params)
	require.NoError(t, err)

	sa, err := e.ComputeShared(pubB, params, a)
	require.NoError(t, err)
	sb, err := e.ComputeShared(pubA, params, b)
	require.NoError(t, err)
	return sa, sb
}

func TestGenerateParameters_SafePrimeAndGenerator(t *testing.T) {
	e := newEngine(t, "params")
	for _, bits := range []int{16, 64, 128, 256} {
		params, err := e.GenerateParameters(bits)
		require.NoError(t, err)
		require.Equal(t, bits, params.Bits())

		q := params.Order()
		require.True(t, params.P.ProbablyPrime(5), "p composite at %d bits", bits)
		require.True(t, q.ProbablyPrime(5), "q composite at %d bits", bits)

		one := big.NewInt(1)
		require.NotZero(t, new(big.Int).Exp(params.G, big.NewInt(2), params.P).Cmp(one))
		require.NotZero(t, new(big.Int).Exp(params.G, q, params.P).Cmp(one))
		require.NoError(t, e.ValidateParameters(params))
	}
}

func TestGenerateParameters_RejectsBadBits(t *testing.T) {
	e := newEngine(t, "bits")
	for _, bits := range []int{0, -1, -2048, 8, engine.DefaultMaxBits + 1} {
		_, err := e.GenerateParameters(bits)
		require.ErrorIs(t, err, domain.ErrInvalidInput, "bits=%d", bits)
	}
}

func TestGenerateParameters_Exhausted(t *testing.T) {
	// The first candidate already exceeds a budget of one.
	e := newEngine(t, "exhaust", engine.WithMaxAttempts(1))
	_, err := e.GenerateParameters(64)
	require.ErrorIs(t, err, domain.ErrGenerationExhausted)
}

func TestNew_RejectsBadOptions(t *testing.T) {
	_, err := engine.New(engine.WithDigest("md5"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = engine.New(engine.WithBitRange(512, 256))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	e, err := engine.New()
	require.NoError(t, err)
	require.Equal(t, runtime.NumCPU(), e.Options().Workers)
	require.Equal(t, crypto.DefaultRounds, e.Options().Rounds)
}

func TestExchange_BothPartiesAgree(t *testing.T) {
	e := newEngine(t, "agree")
	for _, bits := range []int{32, 64, 128} {
		params, err := e.GenerateParameters(bits)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			sa, sb := exchange(t, e, params)
			require.True(t, sa.Equal(sb), "bits=%d round=%d", bits, i)

			da, err := e.HashShared(sa)
			require.NoError(t, err)
			db, err := e.HashShared(sb)
			require.NoError(t, err)
			require.Equal(t, da, db)
			require.Len(t, da.String(), 64)
		}
	}
}

func TestGenerateSecret_Range(t *testing.T) {
	e := newEngine(t, "range")
	params := domain.Parameters{P: big.NewInt(23), G: big.NewInt(5)}

	seen := map[int64]bool{}
	for i := 0; i < 1000; i++ {
		s, err := e.GenerateSecret(params)
		require.NoError(t, err)
		x := s.Int().Int64()
		require.GreaterOrEqual(t, x, int64(2))
		require.LessOrEqual(t, x, int64(21))
		seen[x] = true
	}
	require.Len(t, seen, 20)
}

func TestGenerateSecret_NotReproducible(t *testing.T) {
	e, err := engine.New()
	require.NoError(t, err)
	params, err := e.WellKnown(14)
	require.NoError(t, err)

	a, err := e.GenerateSecret(params)
	require.NoError(t, err)
	b, err := e.GenerateSecret(params)
	require.NoError(t, err)
	require.NotZero(t, a.Int().Cmp(b.Int()))
}

func TestKeyOperations_RejectInvalidInput(t *testing.T) {
	e := newEngine(t, "invalid")
	good := domain.Parameters{P: big.NewInt(23), G: big.NewInt(5)}
	secret := domain.NewSecret(big.NewInt(6))

	for _, params := range []domain.Parameters{
		{},
		{P: big.NewInt(23)},
		{P: big.NewInt(0), G: big.NewInt(5)},
		{P: big.NewInt(-23), G: big.NewInt(5)},
		{P: big.NewInt(23), G: big.NewInt(-5)},
		{P: big.NewInt(3), G: big.NewInt(2)},
	} {
		_, err := e.GenerateSecret(params)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = e.GeneratePublic(params, secret)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = e.ComputeShared(domain.Public{Y: big.NewInt(4)}, params, secret)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	_, err := e.GeneratePublic(good, domain.Secret{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	require.ErrorContains(t, err, "secret is unset")
	_, err = e.GenerateSecret(domain.Parameters{})
	require.ErrorContains(t, err, "parameters are unset")
	_, err = e.GeneratePublic(good, domain.NewSecret(big.NewInt(0)))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.ComputeShared(domain.Public{}, good, secret)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.ComputeShared(domain.Public{Y: big.NewInt(0)}, good, secret)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGeneratePublic_KnownValue(t *testing.T) {
	e := newEngine(t, "known")
	params := domain.Parameters{P: big.NewInt(23), G: big.NewInt(5)}

	pub, err := e.GeneratePublic(params, domain.NewSecret(big.NewInt(6)))
	require.NoError(t, err)
	require.Equal(t, "8", pub.String()) // 5^6 = 15625 = 8 mod 23

	shared, err := e.ComputeShared(domain.Public{Y: big.NewInt(19)}, params, domain.NewSecret(big.NewInt(6)))
	require.NoError(t, err)
	require.Equal(t, "2", shared.Decimal()) // 19^6 mod 23
	require.Equal(t, 1, shared.Width())
}

func TestComputeShared_StrictPeer(t *testing.T) {
	params := domain.Parameters{P: big.NewInt(23), G: big.NewInt(5)}
	secret := domain.NewSecret(big.NewInt(6))

	strict := newEngine(t, "strict", engine.WithStrictPeer(true))
	for _, y := range []int64{1, 22, 23, 100} {
		_, err := strict.ComputeShared(domain.Public{Y: big.NewInt(y)}, params, secret)
		require.ErrorIs(t, err, domain.ErrInvalidPeer, "y=%d", y)
	}
	_, err := strict.ComputeShared(domain.Public{Y: big.NewInt(19)}, params, secret)
	require.NoError(t, err)

	lax := newEngine(t, "lax")
	shared, err := lax.ComputeShared(domain.Public{Y: big.NewInt(1)}, params, secret)
	require.NoError(t, err)
	require.Equal(t, "1", shared.Decimal())
}

func TestHashShared(t *testing.T) {
	e := newEngine(t, "digest")

	d, err := e.HashShared(domain.NewShared(big.NewInt(255), 4))
	require.NoError(t, err)
	sum := sha256.Sum256([]byte{0, 0, 0, 0xff})
	require.Equal(t, hex.EncodeToString(sum[:]), d.String())

	again, err := e.HashShared(domain.NewShared(big.NewInt(255), 4))
	require.NoError(t, err)
	require.Equal(t, d, again)

	other, err := e.HashShared(domain.NewShared(big.NewInt(256), 4))
	require.NoError(t, err)
	require.NotEqual(t, d, other)

	_, err = e.HashShared(domain.Shared{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.HashShared(domain.NewShared(big.NewInt(0), 4))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	b2 := newEngine(t, "digest", engine.WithDigest(crypto.AlgBLAKE2b))
	bd, err := b2.HashShared(domain.NewShared(big.NewInt(255), 4))
	require.NoError(t, err)
	require.Len(t, bd.String(), 64)
	require.NotEqual(t, d, bd)
}

func TestDeriveKey_Agrees(t *testing.T) {
	e := newEngine(t, "derive")
	params, err := e.WellKnown(2)
	require.NoError(t, err)
	sa, sb := exchange(t, e, params)

	ka, err := e.DeriveKey(sa, nil, nil, 32)
	require.NoError(t, err)
	kb, err := e.DeriveKey(sb, nil, nil, 32)
	require.NoError(t, err)
	require.Equal(t, ka, kb)
}

func TestGroup14_Exchange(t *testing.T) {
	e := newEngine(t, "group14")
	params, err := e.WellKnown(14)
	require.NoError(t, err)
	require.NoError(t, e.ValidateParameters(params))

	sa, sb := exchange(t, e, params)
	require.True(t, sa.Equal(sb))
	require.Equal(t, 256, sa.Width())

	da, err := e.HashShared(sa)
	require.NoError(t, err)
	db, err := e.HashShared(sb)
	require.NoError(t, err)
	require.Equal(t, da, db)
}

func TestGenerate2048_Exchange(t *testing.T) {
	if testing.Short() {
		t.Skip("2048-bit safe prime search is slow")
	}
	e, err := engine.New(engine.WithRounds(20))
	require.NoError(t, err)

	params, err := e.GenerateParameters(2048)
	require.NoError(t, err)
	require.Equal(t, 2048, params.Bits())
	require.True(t, params.P.ProbablyPrime(5))
	require.True(t, params.Order().ProbablyPrime(5))

	sa, sb := exchange(t, e, params)
	require.True(t, sa.Equal(sb))
}

func TestValidateParameters(t *testing.T) {
	e := newEngine(t, "validate")
	p23 := big.NewInt(23)

	require.NoError(t, e.ValidateParameters(domain.Parameters{P: p23, G: big.NewInt(5)}))
	// 2 has order q = 11, which is accepted.
	require.NoError(t, e.ValidateParameters(domain.Parameters{P: p23, G: big.NewInt(2)}))

	for _, params := range []domain.Parameters{
		{P: big.NewInt(15), G: big.NewInt(2)},
		{P: big.NewInt(29), G: big.NewInt(2)}, // prime, (29-1)/2 = 14 is not
		{P: p23, G: big.NewInt(1)},
		{P: p23, G: big.NewInt(22)},
		{P: p23, G: big.NewInt(40)},
		{},
	} {
		require.ErrorIs(t, e.ValidateParameters(params), domain.ErrInvalidInput)
	}

	_, err := e.WellKnown(7)
	require.ErrorIs(t, err, domain.ErrUnknownGroup)
}

func TestEngine_ConcurrentExchanges(t *testing.T) {
	e := newEngine(t, "concurrent")
	params, err := e.GenerateParameters(128)
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				a, pubA, err := e.GenerateKeyPair(params)
				if err != nil {
					errs <- err
					return
				}
				b, pubB, err := e.GenerateKeyPair(params)
				if err != nil {
					errs <- err
					return
				}
				sa, err := e.ComputeShared(pubB, params, a)
				if err != nil {
					errs <- err
					return
				}
				sb, err := e.ComputeShared(pubA, params, b)
				if err != nil {
					errs <- err
					return
				}
				if !sa.Equal(sb) {
					errs <- fmt.Errorf("shared mismatch")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestEngine_InteroperatesWithDhkx(t *testing.T) {
	e := newEngine(t, "dhkx")
	params, err := e.WellKnown(14)
	require.NoError(t, err)

	group := dhkx.CreateGroup(params.P, params.G)
	theirPriv, err := group.GeneratePrivateKey(nil)
	require.NoError(t, err)

	ours, ourPub, err := e.GenerateKeyPair(params)
	require.NoError(t, err)

	theirShared, err := group.ComputeKey(dhkx.NewPublicKey(ourPub.Y.Bytes()), theirPriv)
	require.NoError(t, err)

	ourShared, err := e.ComputeShared(domain.Public{Y: new(big.Int).SetBytes(theirPriv.Bytes())}, params, ours)
	require.NoError(t, err)

	require.Equal(t, theirShared.Bytes(), crypto.FixedBytes(ourShared.Int(), ourShared.Width()))
}

func TestEngine_SecretsStayOutOfLogs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New("debug", &buf)
	require.NoError(t, err)

	e := newEngine(t, "logs", engine.WithLogger(logger))
	params, err := e.GenerateParameters(64)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "parameters generated")

	secret, err := e.GenerateSecret(params)
	require.NoError(t, err)
	logger.WithField("secret", secret).Info("formatted")
	require.NotContains(t, buf.String(), secret.Decimal())
	require.Equal(t, "[redacted]", fmt.Sprintf("%v", secret))
	require.Equal(t, "[redacted]", fmt.Sprintf("%d", secret))
}
