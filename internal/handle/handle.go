// Package handle implements generation-counted handle tables.
//
// A handle is an index into a table plus the generation of the slot at the
// time the value was stored. Removing a value bumps the slot generation, so a
// stale handle never resolves to a value stored later in the same slot.
package handle

import (
	"fmt"
	"sync"
)

// ID identifies a value stored in a Table. The zero ID is never valid.
type ID struct {
	index uint32
	gen   uint32
}

// IsZero reports whether id is the zero ID.
func (id ID) IsZero() bool {
	return id.gen == 0
}

func (id ID) String() string {
	return fmt.Sprintf("%d.%d", id.index, id.gen)
}

type slot[T any] struct {
	gen   uint32
	live  bool
	value T
}

// Table stores values of type T by ID.
//
// Table is safe for concurrent use.
type Table[T any] struct {
	mu    sync.RWMutex
	slots []slot[T]
	free  []uint32
	count int
}

// Insert stores v and returns its ID.
func (t *Table[T]) Insert(v T) ID {
	t.mu.Lock()
	defer t.mu.Unlock()

	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		index = uint32(len(t.slots))
		t.slots = append(t.slots, slot[T]{})
	}

	s := &t.slots[index]
	s.gen++
	if s.gen == 0 {
		// Generation 0 is reserved for the zero ID.
		s.gen = 1
	}
	s.live = true
	s.value = v
	t.count++
	return ID{index: index, gen: s.gen}
}

// Lookup returns the value stored under id.
func (t *Table[T]) Lookup(id ID) (v T, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if s := t.get(id); s != nil {
		return s.value, true
	}
	return v, false
}

// Remove deletes the value stored under id and returns it. Removing a stale
// or unknown ID returns ok == false and leaves the table unchanged.
func (t *Table[T]) Remove(id ID) (v T, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.get(id)
	if s == nil {
		return v, false
	}
	v = s.value
	var zero T
	s.value = zero
	s.live = false
	t.free = append(t.free, id.index)
	t.count--
	return v, true
}

// Len returns the number of live values.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

func (t *Table[T]) get(id ID) *slot[T] {
	if id.gen == 0 || int(id.index) >= len(t.slots) {
		return nil
	}
	s := &t.slots[id.index]
	if !s.live || s.gen != id.gen {
		return nil
	}
	return s
}
