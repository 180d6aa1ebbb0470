package event

import "github.com/MartinDew/FeatherEngine/internal/core/slotmap"

// ID identifies a subscription. It is the slot index the listener occupies
// and may be handed out again once the subscription is removed.
type ID int

// InvalidID is never issued. Unsubscribing it is a no-op.
const InvalidID ID = -1

type listener[A any] struct {
	fn     func(A)
	serial uint64
}

type fireTarget struct {
	index  int
	serial uint64
}

// Delegate is a multicast callback list. Listeners run in ascending ID
// order. The zero value is ready to use; a Delegate is not safe for
// concurrent use.
//
// Fire takes a snapshot of the listeners before calling any of them. A
// listener unsubscribed during a Fire is skipped if it has not run yet, and
// a listener subscribed during a Fire is first called on the next Fire.
type Delegate[A any] struct {
	listeners slotmap.SlotMap[listener[A]]
	serial    uint64
}

// Subscribe adds fn and returns its ID. A nil fn is ignored and yields
// InvalidID.
func (d *Delegate[A]) Subscribe(fn func(A)) ID {
	if fn == nil {
		return InvalidID
	}
	d.serial++
	return ID(d.listeners.Insert(listener[A]{fn: fn, serial: d.serial}))
}

// Unsubscribe removes the listener with the given ID. Unknown, stale and
// negative IDs are ignored.
func (d *Delegate[A]) Unsubscribe(id ID) {
	if id < 0 || !d.listeners.Contains(int(id)) {
		return
	}
	_ = d.listeners.Remove(int(id))
}

// Has reports whether id names a live subscription.
func (d *Delegate[A]) Has(id ID) bool {
	return id >= 0 && d.listeners.Contains(int(id))
}

// Len returns the number of live listeners.
func (d *Delegate[A]) Len() int { return d.listeners.Len() }

// Clear removes every listener.
func (d *Delegate[A]) Clear() { d.listeners.Clear() }

// Fire calls every live listener with a.
func (d *Delegate[A]) Fire(a A) {
	if d.listeners.IsEmpty() {
		return
	}
	targets := make([]fireTarget, 0, d.listeners.Len())
	for i, l := range d.listeners.All() {
		targets = append(targets, fireTarget{index: i, serial: l.serial})
	}
	for _, t := range targets {
		l, ok := d.listeners.Get(t.index)
		if !ok || l.serial != t.serial {
			continue
		}
		l.fn(a)
	}
}
