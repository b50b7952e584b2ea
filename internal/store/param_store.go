package store

import (
	"fmt"
	"math/big"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"dhlib/internal/domain"
)

const paramsFile = "params.json"

// storedParams is one params.json entry. Integers are base-10 text.
type storedParams struct {
	P       string `json:"p"`
	G       string `json:"g"`
	Created int64  `json:"created"`
}

// ParamFileStore persists one parameter set per modulus size in params.json.
type ParamFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewParamFileStore returns a ParamFileStore rooted at dir.
func NewParamFileStore(dir string) *ParamFileStore {
	return &ParamFileStore{dir: dir}
}

// SaveParameters stores params under their bit length, replacing any entry.
func (s *ParamFileStore) SaveParameters(params domain.Parameters) error {
	if params.P == nil || params.G == nil {
		return fmt.Errorf("%w: incomplete parameters", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, paramsFile)
	entries := make(map[string]storedParams)
	if err := readJSON(path, &entries); err != nil {
		return fmt.Errorf("read %s: %w", paramsFile, err)
	}
	entries[strconv.Itoa(params.Bits())] = storedParams{
		P:       params.P.Text(10),
		G:       params.G.Text(10),
		Created: time.Now().Unix(),
	}
	return writeJSON(path, entries, 0o600)
}

// LoadParameters returns the entry for bits and whether one exists.
func (s *ParamFileStore) LoadParameters(bits int) (domain.Parameters, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make(map[string]storedParams)
	if err := readJSON(filepath.Join(s.dir, paramsFile), &entries); err != nil {
		return domain.Parameters{}, false, fmt.Errorf("read %s: %w", paramsFile, err)
	}
	e, ok := entries[strconv.Itoa(bits)]
	if !ok {
		return domain.Parameters{}, false, nil
	}
	p, okP := new(big.Int).SetString(e.P, 10)
	g, okG := new(big.Int).SetString(e.G, 10)
	if !okP || !okG || p.BitLen() != bits {
		return domain.Parameters{}, false, fmt.Errorf("%w: malformed %d-bit entry in %s",
			domain.ErrInvalidInput, bits, paramsFile)
	}
	return domain.Parameters{P: p, G: g}, true, nil
}

// Sizes lists the stored modulus sizes in ascending order.
func (s *ParamFileStore) Sizes() ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make(map[string]storedParams)
	if err := readJSON(filepath.Join(s.dir, paramsFile), &entries); err != nil {
		return nil, err
	}
	out := make([]int, 0, len(entries))
	for k := range entries {
		if n, err := strconv.Atoi(k); err == nil {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out, nil
}

// Compile-time assertion that ParamFileStore implements domain.ParamStore.
var _ domain.ParamStore = (*ParamFileStore)(nil)
