package slotmap

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrOutOfRange is returned for an index outside [0, SlotCount()).
	ErrOutOfRange = errors.New("slotmap: index out of range")
	// ErrEmptySlot is returned for an index whose slot holds no value.
	ErrEmptySlot = errors.New("slotmap: slot is empty")
)

type slot[T any] struct {
	value T
	live  bool
}

// SlotMap is a growable container that hands out stable integer indices.
// An index returned by Insert keeps referring to the same value until that
// value is removed. Freed slots are reused lowest index first, and empty
// slots at the high end are truncated as soon as they appear.
//
// The zero value is an empty map ready to use. A SlotMap is not safe for
// concurrent use, and inserting or removing during a traversal has
// undefined results.
type SlotMap[T any] struct {
	slots []slot[T]
	free  []int // strictly ascending
}

// New returns a SlotMap with room for capacity values.
func New[T any](capacity int) *SlotMap[T] {
	m := &SlotMap[T]{}
	m.Reserve(capacity)
	return m
}

// Insert stores v and returns its index.
func (m *SlotMap[T]) Insert(v T) int {
	if len(m.free) > 0 {
		idx := m.free[0]
		m.free = m.free[1:]
		m.slots[idx] = slot[T]{value: v, live: true}
		return idx
	}
	m.slots = append(m.slots, slot[T]{value: v, live: true})
	return len(m.slots) - 1
}

// Remove drops the value at i. Removing the highest live index also
// truncates every empty slot left at the tail.
func (m *SlotMap[T]) Remove(i int) error {
	if err := m.check(i); err != nil {
		return fmt.Errorf("remove %d: %w", i, err)
	}
	m.slots[i] = slot[T]{}
	pos, _ := slices.BinarySearch(m.free, i)
	m.free = slices.Insert(m.free, pos, i)

	if i == len(m.slots)-1 {
		m.reclaimTail()
	}
	return nil
}

// reclaimTail truncates trailing empty slots. The largest free index is
// always the last entry of the free list, so each step pops one from both.
func (m *SlotMap[T]) reclaimTail() {
	for n := len(m.slots); n > 0 && !m.slots[n-1].live; n-- {
		m.slots = m.slots[:n-1]
		m.free = m.free[:len(m.free)-1]
	}
}

// Len returns the number of live values.
func (m *SlotMap[T]) Len() int { return len(m.slots) - len(m.free) }

// IsEmpty reports whether the map holds no live values.
func (m *SlotMap[T]) IsEmpty() bool { return m.Len() == 0 }

// SlotCount returns the number of addressable slots, live or empty.
func (m *SlotMap[T]) SlotCount() int { return len(m.slots) }

// Clear removes every value. Previously issued indices become invalid and
// the next Insert returns 0.
func (m *SlotMap[T]) Clear() {
	clear(m.slots)
	m.slots = m.slots[:0]
	m.free = m.free[:0]
}

// Reserve makes room for at least n slots without changing the contents.
func (m *SlotMap[T]) Reserve(n int) {
	if n > len(m.slots) {
		m.slots = slices.Grow(m.slots, n-len(m.slots))
	}
}

// Contains reports whether i refers to a live value.
func (m *SlotMap[T]) Contains(i int) bool {
	return i >= 0 && i < len(m.slots) && m.slots[i].live
}

// At returns a pointer to the value at i. The pointer is valid until the
// next Insert, Remove or Clear.
func (m *SlotMap[T]) At(i int) (*T, error) {
	if err := m.check(i); err != nil {
		return nil, fmt.Errorf("at %d: %w", i, err)
	}
	return &m.slots[i].value, nil
}

// Get is the comma-ok form of At.
func (m *SlotMap[T]) Get(i int) (*T, bool) {
	if !m.Contains(i) {
		return nil, false
	}
	return &m.slots[i].value, true
}

func (m *SlotMap[T]) check(i int) error {
	if i < 0 || i >= len(m.slots) {
		return ErrOutOfRange
	}
	if !m.slots[i].live {
		return ErrEmptySlot
	}
	return nil
}

// firstIndex skips the leading run of free indices 0, 1, 2, ... using the
// sorted free list. The result is the first live index, or SlotCount()
// when the map is empty.
func (m *SlotMap[T]) firstIndex() int {
	k := 0
	for k < len(m.free) && m.free[k] == k {
		k++
	}
	return k
}
