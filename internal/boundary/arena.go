package boundary

import (
	"fmt"
	"sync"

	"dhlib/internal/domain"
)

// Arena owns the buffers it hands out. It is safe for concurrent use.
type Arena struct {
	eng domain.Engine

	mu     sync.Mutex
	live   map[uint64]*Buffer
	nextID uint64
	total  uint64
	closed bool
}

// NewArena returns an arena that runs operations on eng.
func NewArena(eng domain.Engine) *Arena {
	return &Arena{eng: eng, live: make(map[uint64]*Buffer)}
}

// Scope runs fn with a fresh arena and closes it afterwards, releasing every
// buffer fn did not release itself.
func Scope(eng domain.Engine, fn func(a *Arena) error) error {
	a := NewArena(eng)
	defer a.Close()
	return fn(a)
}

// Live returns the number of buffers not yet released.
func (a *Arena) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// Allocated returns the number of buffers ever handed out.
func (a *Arena) Allocated() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}

// Close releases every live buffer. Later operations fail with ErrReleased.
// Close is idempotent.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, b := range a.live {
		_ = a.releaseLocked(b)
	}
	a.closed = true
	return nil
}

func (a *Arena) alloc(text string) (*Buffer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, fmt.Errorf("%w: arena closed", domain.ErrReleased)
	}
	a.nextID++
	a.total++
	b := &Buffer{arena: a, id: a.nextID, data: []byte(text)}
	a.live[b.id] = b
	return b, nil
}

func (a *Arena) releaseLocked(b *Buffer) error {
	if b.released {
		return fmt.Errorf("%w: buffer %d", domain.ErrDoubleRelease, b.id)
	}
	b.released = true
	b.wipe()
	delete(a.live, b.id)
	return nil
}

func (a *Arena) usable() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return fmt.Errorf("%w: arena closed", domain.ErrReleased)
	}
	return nil
}
