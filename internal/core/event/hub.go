package event

import "fmt"

// Hub holds one Signal per Notification. Fire delivers immediately on the
// caller's goroutine. Post queues into a back buffer that becomes readable
// after SwapBuffers, which lets a listener raise a notification without
// re-entering whatever is firing it.
//
// A Hub is owned by the game loop and is not safe for concurrent use.
type Hub struct {
	signals  [NotificationCount]Signal
	front    []Notification
	back     []Notification
	observer func(Notification, int)
}

func NewHub() *Hub {
	return &Hub{
		front: make([]Notification, 0, 16),
		back:  make([]Notification, 0, 16),
	}
}

// SetObserver registers fn to be called after every Fire with the tag and
// the number of listeners it reached.
func (h *Hub) SetObserver(fn func(n Notification, listeners int)) {
	h.observer = fn
}

// Subscribe registers fn for n.
func (h *Hub) Subscribe(n Notification, fn func()) (ID, error) {
	if !n.Valid() {
		return InvalidID, fmt.Errorf("subscribe: %w: %s", ErrUnknownNotification, n)
	}
	return h.signals[n].Subscribe(fn), nil
}

// Unsubscribe removes a listener. Bad tags and stale ids are ignored.
func (h *Hub) Unsubscribe(n Notification, id ID) {
	if !n.Valid() {
		return
	}
	h.signals[n].Unsubscribe(id)
}

// Listeners returns the number of live listeners for n.
func (h *Hub) Listeners(n Notification) int {
	if !n.Valid() {
		return 0
	}
	return h.signals[n].Len()
}

// Fire calls every listener of n in ascending ID order.
func (h *Hub) Fire(n Notification) {
	if !n.Valid() {
		return
	}
	s := &h.signals[n]
	count := s.Len()
	s.Fire()
	if h.observer != nil {
		h.observer(n, count)
	}
}

// Post queues n into the back buffer (fired after the next SwapBuffers).
func (h *Hub) Post(n Notification) error {
	if !n.Valid() {
		return fmt.Errorf("post: %w: %s", ErrUnknownNotification, n)
	}
	h.back = append(h.back, n)
	return nil
}

// Pending returns the number of notifications waiting in the back buffer.
func (h *Hub) Pending() int { return len(h.back) }

// SwapBuffers rotates back→front and clears the new back buffer.
// Called once per frame before DispatchAll.
func (h *Hub) SwapBuffers() {
	h.front, h.back = h.back, h.front[:0]
}

// DispatchAll fires the front buffer in post order. Notifications posted
// while dispatching land in the back buffer for the next frame.
func (h *Hub) DispatchAll() {
	for _, n := range h.front {
		h.Fire(n)
	}
	h.front = h.front[:0]
}

// Clear drops every listener and every queued notification.
func (h *Hub) Clear() {
	for i := range h.signals {
		h.signals[i].Clear()
	}
	h.front = h.front[:0]
	h.back = h.back[:0]
}
