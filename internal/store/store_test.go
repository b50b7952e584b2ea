package store_test

import (
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"dhlib/internal/crypto"
	"dhlib/internal/domain"
	"dhlib/internal/store"
)

func TestParams_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	var ps domain.ParamStore = store.NewParamFileStore(home)

	_, ok, err := ps.LoadParameters(2048)
	require.NoError(t, err)
	require.False(t, ok)

	g14, err := crypto.WellKnownGroup(14)
	require.NoError(t, err)
	g2, err := crypto.WellKnownGroup(2)
	require.NoError(t, err)
	require.NoError(t, ps.SaveParameters(g14))
	require.NoError(t, ps.SaveParameters(g2))

	got, ok, err := ps.LoadParameters(2048)
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, got.P.Cmp(g14.P))
	require.Zero(t, got.G.Cmp(g14.G))

	sizes, err := store.NewParamFileStore(home).Sizes()
	require.NoError(t, err)
	require.Equal(t, []int{1024, 2048}, sizes)

	info, err := os.Stat(filepath.Join(home, "params.json"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestParams_RejectsMalformedEntries(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "params.json"),
		[]byte(`{"64": {"p": "12x", "g": "2"}, "32": {"p": "23", "g": "5"}}`), 0o600))

	ps := store.NewParamFileStore(home)
	_, _, err := ps.LoadParameters(64)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	// The stored modulus is not 32 bits long.
	_, _, err = ps.LoadParameters(32)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	require.ErrorIs(t, ps.SaveParameters(domain.Parameters{P: big.NewInt(23)}), domain.ErrInvalidInput)
}

func TestParams_ConcurrentSaves(t *testing.T) {
	ps := store.NewParamFileStore(t.TempDir())
	ids := crypto.WellKnownGroups()
	errs := make(chan error, len(ids))
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			params, err := crypto.WellKnownGroup(id)
			if err == nil {
				err = ps.SaveParameters(params)
			}
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	sizes, err := ps.Sizes()
	require.NoError(t, err)
	require.Equal(t, []int{768, 1024, 1536, 2048}, sizes)
}

func TestKeys_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	var ks domain.KeyStore = store.NewKeyFileStore(home)

	key := []byte("0123456789abcdef0123456789abcdef")
	require.NoError(t, ks.SaveKey("peer-1", "pass", key))
	require.NoError(t, ks.SaveKey("alpha", "pass", []byte{1}))

	got, err := ks.LoadKey("peer-1", "pass")
	require.NoError(t, err)
	require.Equal(t, key, got)

	names, err := ks.ListKeys()
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "peer-1"}, names)

	raw, err := os.ReadFile(filepath.Join(home, "keys", "peer-1.enc"))
	require.NoError(t, err)
	require.NotContains(t, string(raw), string(key))
}

func TestKeys_WrongPassphrase_Fails(t *testing.T) {
	ks := store.NewKeyFileStore(t.TempDir())
	require.NoError(t, ks.SaveKey("k", "correct", []byte("secret")))

	_, err := ks.LoadKey("k", "wrong")
	require.ErrorIs(t, err, store.ErrWrongPassphrase)
}

func TestKeys_RenamedFileDoesNotOpen(t *testing.T) {
	home := t.TempDir()
	ks := store.NewKeyFileStore(home)
	require.NoError(t, ks.SaveKey("a", "pass", []byte("secret")))
	require.NoError(t, os.Rename(filepath.Join(home, "keys", "a.enc"), filepath.Join(home, "keys", "b.enc")))

	_, err := ks.LoadKey("b", "pass")
	require.ErrorIs(t, err, store.ErrWrongPassphrase)
}

func TestKeys_InvalidNames(t *testing.T) {
	ks := store.NewKeyFileStore(t.TempDir())
	for _, name := range []string{"", "../x", ".hidden", "a/b", "a b"} {
		require.ErrorIs(t, ks.SaveKey(name, "pass", []byte{1}), domain.ErrInvalidInput, "name=%q", name)
	}
	require.ErrorIs(t, ks.SaveKey("ok", "", []byte{1}), domain.ErrInvalidInput)

	names, err := ks.ListKeys()
	require.NoError(t, err)
	require.Empty(t, names)
}
