package store

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"dhlib/internal/domain"
)

const (
	keysDir   = "keys"
	keySuffix = ".enc"
)

var keyName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// KeyFileStore seals key material under a passphrase, one file per name in
// <dir>/keys/<name>.enc.
type KeyFileStore struct {
	dir    string
	mu     sync.Mutex
	scrypt scryptParams
}

// NewKeyFileStore returns a KeyFileStore rooted at dir.
func NewKeyFileStore(dir string) *KeyFileStore {
	return &KeyFileStore{dir: dir, scrypt: defaultScrypt}
}

// SaveKey seals key and writes it under name, replacing any existing file.
func (s *KeyFileStore) SaveKey(name, passphrase string, key []byte) error {
	if err := checkKeyName(name); err != nil {
		return err
	}
	if passphrase == "" {
		return fmt.Errorf("%w: empty passphrase", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, err := seal(name, passphrase, key, s.scrypt)
	if err != nil {
		return err
	}
	return writeFile(s.path(name), sealed, 0o600)
}

// LoadKey reads and opens the file for name.
func (s *KeyFileStore) LoadKey(name, passphrase string) ([]byte, error) {
	if err := checkKeyName(name); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, err
	}
	stored, key, err := open(passphrase, b)
	if err != nil {
		return nil, err
	}
	if stored != name {
		return nil, fmt.Errorf("key file %q holds %q: %w", name, stored, ErrWrongPassphrase)
	}
	return key, nil
}

// ListKeys returns the stored key names, sorted.
func (s *KeyFileStore) ListKeys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(filepath.Join(s.dir, keysDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), keySuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), keySuffix))
	}
	sort.Strings(names)
	return names, nil
}

func (s *KeyFileStore) path(name string) string {
	return filepath.Join(s.dir, keysDir, name+keySuffix)
}

func checkKeyName(name string) error {
	if !keyName.MatchString(name) {
		return fmt.Errorf("%w: key name %q", domain.ErrInvalidInput, name)
	}
	return nil
}

// Compile-time assertion that KeyFileStore implements domain.KeyStore.
var _ domain.KeyStore = (*KeyFileStore)(nil)
