package boundary

import (
	"fmt"

	"dhlib/internal/domain"
	"dhlib/internal/util/memzero"
)

// Buffer holds one result as base-10 text. It belongs to the Arena that
// returned it.
type Buffer struct {
	arena    *Arena
	id       uint64
	data     []byte
	released bool
}

// String returns the text, or ErrReleased once the buffer has been released.
func (b *Buffer) String() (string, error) {
	b.arena.mu.Lock()
	defer b.arena.mu.Unlock()
	if b.released {
		return "", fmt.Errorf("%w: buffer %d", domain.ErrReleased, b.id)
	}
	return string(b.data), nil
}

// MustString is String for call sites that hold the buffer's lifetime
// themselves; it returns "" for a released buffer.
func (b *Buffer) MustString() string {
	s, _ := b.String()
	return s
}

// Len returns the text length in bytes, or zero once released.
func (b *Buffer) Len() int {
	b.arena.mu.Lock()
	defer b.arena.mu.Unlock()
	return len(b.data)
}

// Released reports whether the buffer has been released.
func (b *Buffer) Released() bool {
	b.arena.mu.Lock()
	defer b.arena.mu.Unlock()
	return b.released
}

// Release zeroes the text and returns the buffer to its arena. Only the first
// call succeeds.
func (b *Buffer) Release() error {
	b.arena.mu.Lock()
	defer b.arena.mu.Unlock()
	return b.arena.releaseLocked(b)
}

// ReleaseAll releases each non-nil buffer and returns the first error.
func ReleaseAll(bufs ...*Buffer) error {
	var first error
	for _, b := range bufs {
		if b == nil {
			continue
		}
		if err := b.Release(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (b *Buffer) wipe() {
	memzero.Zero(b.data)
	b.data = nil
}
