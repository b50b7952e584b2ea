package engine

import (
	"sync"

	"dhlib/internal/domain"
)

// ParamCache keeps one parameter set per modulus size, optionally backed by a
// ParamStore so parameters survive restarts.
type ParamCache struct {
	mu     sync.RWMutex
	byBits map[int]domain.Parameters
	store  domain.ParamStore
}

// NewParamCache returns an empty cache. store may be nil.
func NewParamCache(store domain.ParamStore) *ParamCache {
	return &ParamCache{byBits: make(map[int]domain.Parameters), store: store}
}

// Get returns a copy of the in-memory entry for bits.
func (c *ParamCache) Get(bits int) (domain.Parameters, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byBits[bits]
	if !ok {
		return domain.Parameters{}, false
	}
	return cloneParams(p), true
}

// Load reads the entry for bits from the backing store without caching it.
func (c *ParamCache) Load(bits int) (domain.Parameters, bool, error) {
	if c.store == nil {
		return domain.Parameters{}, false, nil
	}
	return c.store.LoadParameters(bits)
}

// Remember caches params in memory only.
func (c *ParamCache) Remember(params domain.Parameters) {
	c.mu.Lock()
	c.byBits[params.Bits()] = cloneParams(params)
	c.mu.Unlock()
}

// Put caches params and writes them to the backing store.
func (c *ParamCache) Put(params domain.Parameters) error {
	c.Remember(params)
	if c.store == nil {
		return nil
	}
	return c.store.SaveParameters(params)
}

// Len returns the number of cached sizes.
func (c *ParamCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byBits)
}
