package slotmap

import "iter"

// All yields every live index and value in ascending index order.
func (m *SlotMap[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for c := m.First(); c.Valid(); c.Next() {
			if !yield(c.Index(), c.Value()) {
				return
			}
		}
	}
}

// Backward yields every live index and value in descending index order.
func (m *SlotMap[T]) Backward() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for c := m.Last(); c.Valid(); c.Prev() {
			if !yield(c.Index(), c.Value()) {
				return
			}
		}
	}
}

// Each calls fn for every live value in ascending index order.
func (m *SlotMap[T]) Each(fn func(int, *T)) {
	for c := m.First(); c.Valid(); c.Next() {
		fn(c.Index(), c.Value())
	}
}

// AppendIndices appends the live indices in ascending order to dst.
func (m *SlotMap[T]) AppendIndices(dst []int) []int {
	for c := m.First(); c.Valid(); c.Next() {
		dst = append(dst, c.Index())
	}
	return dst
}

// Cursor is a bidirectional position over the live slots of a SlotMap.
// A cursor past either end is invalid; Prev from End and Next from before
// the first slot step back onto live values.
type Cursor[T any] struct {
	m *SlotMap[T]
	i int
}

// First returns a cursor at the lowest live index.
func (m *SlotMap[T]) First() Cursor[T] {
	return Cursor[T]{m: m, i: m.firstIndex()}
}

// Last returns a cursor at the highest live index. The last slot is always
// live when the map is non-empty.
func (m *SlotMap[T]) Last() Cursor[T] {
	return Cursor[T]{m: m, i: len(m.slots) - 1}
}

// End returns the cursor one past the highest slot.
func (m *SlotMap[T]) End() Cursor[T] {
	return Cursor[T]{m: m, i: len(m.slots)}
}

// Valid reports whether the cursor is positioned on a live value.
func (c Cursor[T]) Valid() bool { return c.m != nil && c.m.Contains(c.i) }

// Index returns the absolute slot index, the value accepted by Remove.
func (c Cursor[T]) Index() int { return c.i }

// Value returns the value under the cursor, or nil if the cursor is invalid.
func (c Cursor[T]) Value() *T {
	if !c.Valid() {
		return nil
	}
	return &c.m.slots[c.i].value
}

// Next advances to the next live slot and reports whether one was found.
func (c *Cursor[T]) Next() bool {
	n := len(c.m.slots)
	if c.i >= n {
		return false
	}
	for c.i++; c.i < n; c.i++ {
		if c.m.slots[c.i].live {
			return true
		}
	}
	return false
}

// Prev steps back to the previous live slot and reports whether one was found.
func (c *Cursor[T]) Prev() bool {
	if c.i > len(c.m.slots) {
		c.i = len(c.m.slots)
	}
	if c.i < 0 {
		return false
	}
	for c.i--; c.i >= 0; c.i-- {
		if c.m.slots[c.i].live {
			return true
		}
	}
	return false
}
