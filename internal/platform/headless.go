package platform

// Default display for a headless platform without a replay display size.
const (
	defaultDisplayWidth  = 1920
	defaultDisplayHeight = 1080
)

// Headless is an in-memory platform. Each PumpEvents call advances one
// frame and releases the replay events scheduled for it; window changes
// made through the setters queue the events a real window system would
// report.
type Headless struct {
	display    DisplayMode
	title      string
	bounds     Rect
	fullscreen bool
	bordered   bool
	resizable  bool

	frame   int
	replay  []ReplayEvent
	next    int
	pending []Event
	queue   []Event
}

func NewHeadless(replay *Replay) *Headless {
	h := &Headless{
		display:  DisplayMode{Width: defaultDisplayWidth, Height: defaultDisplayHeight},
		bordered: true,
		frame:    -1,
	}
	if replay != nil {
		if replay.Display.Width > 0 && replay.Display.Height > 0 {
			h.display = DisplayMode{Width: replay.Display.Width, Height: replay.Display.Height}
		}
		h.replay = replay.Events
	}
	return h
}

func (h *Headless) DisplayMode() (DisplayMode, error) { return h.display, nil }

// Frame returns the number of the last pumped frame, -1 before the first.
func (h *Headless) Frame() int { return h.frame }

// Done reports whether every replay event has been delivered.
func (h *Headless) Done() bool { return h.next >= len(h.replay) && len(h.queue) == 0 }

// Push queues an event for the next PumpEvents.
func (h *Headless) Push(e Event) { h.pending = append(h.pending, e) }

func (h *Headless) PumpEvents() {
	h.frame++
	h.queue = append(h.queue, h.pending...)
	h.pending = h.pending[:0]
	for h.next < len(h.replay) && h.replay[h.next].Frame <= h.frame {
		h.queue = append(h.queue, h.apply(h.replay[h.next]))
		h.next++
	}
}

// apply turns a replay entry into an event, updating the simulated window
// the way the OS would before reporting it.
func (h *Headless) apply(re ReplayEvent) Event {
	t, _ := ParseEventType(re.Type)
	e := Event{Type: t, Rect: h.bounds}
	switch t {
	case EventWindowResized:
		h.bounds.Width, h.bounds.Height = re.Width, re.Height
		e.Rect = h.bounds
	case EventWindowMoved:
		h.bounds.X, h.bounds.Y = re.X, re.Y
		e.Rect = h.bounds
	}
	return e
}

func (h *Headless) PollEvent() (Event, bool) {
	if len(h.queue) == 0 {
		return Event{}, false
	}
	e := h.queue[0]
	h.queue = h.queue[1:]
	return e, true
}

func (h *Headless) CreateWindow(title string, r Rect, resizable bool) error {
	h.title = title
	h.bounds = r
	h.resizable = resizable
	h.Push(Event{Type: EventWindowShown, Rect: r})
	return nil
}

// Title returns the title passed to CreateWindow.
func (h *Headless) Title() string { return h.title }

func (h *Headless) WindowBounds() Rect { return h.bounds }

func (h *Headless) SetBounds(r Rect) {
	old := h.bounds
	h.bounds = r
	if r.Width != old.Width || r.Height != old.Height {
		h.Push(Event{Type: EventWindowResized, Rect: r})
	}
	if r.X != old.X || r.Y != old.Y {
		h.Push(Event{Type: EventWindowMoved, Rect: r})
	}
}

func (h *Headless) SetFullscreen(on bool) { h.fullscreen = on }
func (h *Headless) SetBordered(on bool)   { h.bordered = on }
func (h *Headless) SetResizable(on bool)  { h.resizable = on }

func (h *Headless) Fullscreen() bool { return h.fullscreen }
func (h *Headless) Bordered() bool   { return h.bordered }
func (h *Headless) Resizable() bool  { return h.resizable }

func (h *Headless) Close() error {
	h.queue = nil
	h.pending = nil
	return nil
}
