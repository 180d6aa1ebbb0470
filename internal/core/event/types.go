package event

import (
	"errors"
	"fmt"
)

// ErrUnknownNotification is returned for a tag outside the closed set.
var ErrUnknownNotification = errors.New("unknown notification")

// Notification tags a platform notification. Tags are zero-based and
// contiguous so they can index a fixed array.
type Notification uint32

const (
	NotificationNone     Notification = iota // unmapped platform events
	WindowShown                              // window became visible
	WindowHidden                             // window was hidden or minimised
	WindowResized                            // client area changed size
	WindowMoved                              // window position changed
	WindowCloseRequested                     // user asked to close the window
	NotificationCount
)

var notificationNames = [NotificationCount]string{
	NotificationNone:     "none",
	WindowShown:          "window_shown",
	WindowHidden:         "window_hidden",
	WindowResized:        "window_resized",
	WindowMoved:          "window_moved",
	WindowCloseRequested: "window_close_requested",
}

func (n Notification) Valid() bool { return n < NotificationCount }

func (n Notification) String() string {
	if !n.Valid() {
		return fmt.Sprintf("notification(%d)", uint32(n))
	}
	return notificationNames[n]
}

// ParseNotification maps a name such as "window_resized" to its tag.
func ParseNotification(name string) (Notification, error) {
	for i, s := range notificationNames {
		if s == name {
			return Notification(i), nil
		}
	}
	return NotificationNone, fmt.Errorf("%w: %q", ErrUnknownNotification, name)
}

// Notifications returns every tag in ascending order.
func Notifications() []Notification {
	out := make([]Notification, NotificationCount)
	for i := range out {
		out[i] = Notification(i)
	}
	return out
}
