// Package platform abstracts the windowing system the engine runs on.
package platform

import (
	"errors"
	"fmt"
)

// ErrUnsupportedMode is returned by Open for a window mode this build
// cannot provide.
var ErrUnsupportedMode = errors.New("unsupported window mode")

// EventType classifies a raw platform event.
type EventType int

const (
	EventOther EventType = iota // anything the window does not map
	EventWindowShown
	EventWindowHidden
	EventWindowResized
	EventWindowMoved
	EventWindowCloseRequested
)

var eventTypeNames = map[EventType]string{
	EventOther:                "other",
	EventWindowShown:          "window_shown",
	EventWindowHidden:         "window_hidden",
	EventWindowResized:        "window_resized",
	EventWindowMoved:          "window_moved",
	EventWindowCloseRequested: "close_requested",
}

func (t EventType) String() string {
	if s, ok := eventTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// ParseEventType maps a replay name such as "window_resized" to its type.
func ParseEventType(name string) (EventType, error) {
	for t, s := range eventTypeNames {
		if s == name {
			return t, nil
		}
	}
	return EventOther, fmt.Errorf("unknown event type %q", name)
}

// Rect is a window position and size in screen pixels.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Event is one platform notification. Rect carries the new bounds for
// resize and move events.
type Event struct {
	Type EventType
	Rect Rect
}

// DisplayMode describes the primary display.
type DisplayMode struct {
	Width, Height int
}

// Platform is the capability set the window needs from a windowing system.
// Implementations are driven from the game-loop goroutine only.
type Platform interface {
	DisplayMode() (DisplayMode, error)
	// PumpEvents gathers pending OS events into the queue read by PollEvent.
	PumpEvents()
	PollEvent() (Event, bool)

	// CreateWindow opens the window at r. The platform reports it as
	// shown on the next pump.
	CreateWindow(title string, r Rect, resizable bool) error
	WindowBounds() Rect
	SetBounds(r Rect)
	SetFullscreen(on bool)
	SetBordered(on bool)
	SetResizable(on bool)

	Close() error
}

// Open returns the platform for mode. replay may be nil.
func Open(mode string, replay *Replay) (Platform, error) {
	switch mode {
	case "headless":
		return NewHeadless(replay), nil
	case "windowed":
		return nil, fmt.Errorf("open %s: %w: no native windowing backend in this build", mode, ErrUnsupportedMode)
	default:
		return nil, fmt.Errorf("open %s: %w", mode, ErrUnsupportedMode)
	}
}
