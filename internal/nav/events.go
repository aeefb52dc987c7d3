package nav

import "github.com/mj1618/focusnav/internal/geometry"

// EventType names a focus notification.
type EventType string

const (
	EventLosingFocus  EventType = "losing-focus"
	EventFocusLost    EventType = "focus-lost"
	EventGainingFocus EventType = "gaining-focus"
	EventFocusGained  EventType = "focus-gained"
	EventFocusMoved   EventType = "focus-moved"
)

// Event is delivered to listeners after the engine has released its lock.
// Target is the element the notification is about. From, To and Direction
// are set on focus-moved only; From is nil on the first focus.
type Event struct {
	Type      EventType          `yaml:"type"                json:"type"`
	Target    Element            `yaml:"-"                   json:"-"`
	Direction geometry.Direction `yaml:"direction,omitempty" json:"direction,omitempty"`
	From      Element            `yaml:"-"                   json:"-"`
	To        Element            `yaml:"-"                   json:"-"`
}

// Listener receives focus notifications.
type Listener func(Event)

type listenerEntry struct {
	id int
	fn Listener
}
