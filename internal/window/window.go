// Package window turns platform events into engine notifications.
package window

import (
	"fmt"

	"github.com/MartinDew/FeatherEngine/internal/core/event"
	"github.com/MartinDew/FeatherEngine/internal/platform"
	"go.uber.org/zap"
)

// Properties is the last known window geometry.
type Properties struct {
	Width  int
	Height int
	X      int
	Y      int
}

type FullscreenMode int

const (
	Windowed FullscreenMode = iota
	Fullscreen
	Borderless
)

func (m FullscreenMode) String() string {
	switch m {
	case Windowed:
		return "windowed"
	case Fullscreen:
		return "fullscreen"
	case Borderless:
		return "borderless"
	default:
		return fmt.Sprintf("FullscreenMode(%d)", int(m))
	}
}

// ParseFullscreenMode maps a config value to a FullscreenMode.
func ParseFullscreenMode(s string) (FullscreenMode, error) {
	switch s {
	case "windowed":
		return Windowed, nil
	case "fullscreen":
		return Fullscreen, nil
	case "borderless":
		return Borderless, nil
	default:
		return Windowed, fmt.Errorf("unknown fullscreen mode %q", s)
	}
}

// Options configures a new Window.
type Options struct {
	Title     string
	Width     int // 0 = half the display width
	Height    int // 0 = half the display height
	Resizable bool
}

// Window owns the platform window and fires one hub Signal per
// notification tag. It is driven from the game loop only.
type Window struct {
	platform platform.Platform
	hub      *event.Hub
	log      *zap.Logger

	props Properties
	mode  FullscreenMode
}

// New creates the platform window. hub receives the notifications.
func New(p platform.Platform, hub *event.Hub, opts Options, log *zap.Logger) (*Window, error) {
	dm, err := p.DisplayMode()
	if err != nil {
		return nil, fmt.Errorf("display mode: %w", err)
	}
	w := &Window{platform: p, hub: hub, log: log}
	w.props.Width = opts.Width
	if w.props.Width == 0 {
		w.props.Width = dm.Width / 2
	}
	w.props.Height = opts.Height
	if w.props.Height == 0 {
		w.props.Height = dm.Height / 2
	}

	r := platform.Rect{Width: w.props.Width, Height: w.props.Height}
	if err := p.CreateWindow(opts.Title, r, opts.Resizable); err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	b := p.WindowBounds()
	w.props.X, w.props.Y = b.X, b.Y
	return w, nil
}

// Properties returns the current geometry.
func (w *Window) Properties() Properties { return w.props }

func (w *Window) FullscreenMode() FullscreenMode { return w.mode }

// Hub returns the notification hub the window fires into.
func (w *Window) Hub() *event.Hub { return w.hub }

// RegisterNotification subscribes fn to n and returns its subscription id.
func (w *Window) RegisterNotification(n event.Notification, fn func()) (event.ID, error) {
	return w.hub.Subscribe(n, fn)
}

// UnregisterNotification removes a subscription. Stale ids are ignored.
func (w *Window) UnregisterNotification(n event.Notification, id event.ID) {
	w.hub.Unsubscribe(n, id)
}

// Update drains pending platform events and fires their notifications.
// It returns false once the user asks to close the window; events queued
// behind the close request stay queued.
func (w *Window) Update() bool {
	w.platform.PumpEvents()
	for {
		ev, ok := w.platform.PollEvent()
		if !ok {
			return true
		}
		switch ev.Type {
		case platform.EventWindowCloseRequested:
			w.log.Debug("close window requested")
			w.hub.Fire(event.WindowCloseRequested)
			return false
		case platform.EventWindowResized:
			w.onResize(ev.Rect)
		case platform.EventWindowMoved:
			w.onMove(ev.Rect)
		}
		w.hub.Fire(toNotification(ev.Type))
	}
}

func (w *Window) onResize(r platform.Rect) {
	w.props.Width, w.props.Height = r.Width, r.Height
	w.log.Debug("window resized", zap.Int("width", r.Width), zap.Int("height", r.Height))
}

func (w *Window) onMove(r platform.Rect) {
	w.props.X, w.props.Y = r.X, r.Y
	w.log.Debug("window moved", zap.Int("x", r.X), zap.Int("y", r.Y))
}

// SetFullscreenMode switches presentation. Borderless covers the primary
// display from the origin and locks the size.
func (w *Window) SetFullscreenMode(mode FullscreenMode) error {
	switch mode {
	case Windowed:
		w.platform.SetFullscreen(false)
		w.platform.SetBordered(true)
	case Fullscreen:
		w.platform.SetFullscreen(true)
	case Borderless:
		dm, err := w.platform.DisplayMode()
		if err != nil {
			return fmt.Errorf("borderless: display mode: %w", err)
		}
		w.platform.SetFullscreen(false)
		w.platform.SetBordered(false)
		w.platform.SetBounds(platform.Rect{Width: dm.Width, Height: dm.Height})
		w.platform.SetResizable(false)
	default:
		return fmt.Errorf("set fullscreen mode: unknown mode %d", int(mode))
	}
	w.mode = mode
	w.log.Debug("fullscreen mode changed", zap.Stringer("mode", mode))
	return nil
}

// Close releases the platform window and drops every listener.
func (w *Window) Close() error {
	w.hub.Clear()
	return w.platform.Close()
}

func toNotification(t platform.EventType) event.Notification {
	switch t {
	case platform.EventWindowShown:
		return event.WindowShown
	case platform.EventWindowHidden:
		return event.WindowHidden
	case platform.EventWindowResized:
		return event.WindowResized
	case platform.EventWindowMoved:
		return event.WindowMoved
	case platform.EventWindowCloseRequested:
		return event.WindowCloseRequested
	default:
		return event.NotificationNone
	}
}
