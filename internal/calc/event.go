package calc

import (
	"fmt"
	"strings"
)

// EventKind enumerates the user events the controller handles.
type EventKind int

const (
	EventClear EventKind = iota
	EventSwap
	EventEnter
	EventAppendDigit
	EventAdd
	EventSubtract
	EventMultiply
	EventDivide
	EventPower
	EventRoot
)

var eventNames = [...]string{
	EventClear:       "clear",
	EventSwap:        "swap",
	EventEnter:       "enter",
	EventAppendDigit: "digit",
	EventAdd:         "add",
	EventSubtract:    "subtract",
	EventMultiply:    "multiply",
	EventDivide:      "divide",
	EventPower:       "power",
	EventRoot:        "root",
}

// EventKinds lists every kind in declaration order.
func EventKinds() []EventKind {
	out := make([]EventKind, len(eventNames))
	for i := range eventNames {
		out[i] = EventKind(i)
	}
	return out
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
	return eventNames[k]
}

// ParseEventKind is the inverse of EventKind.String; it is case-insensitive.
func ParseEventKind(s string) (EventKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range eventNames {
		if n == name {
			return EventKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event %q", s)
}

// Event is one user action. Digit is only meaningful for EventAppendDigit.
type Event struct {
	Kind  EventKind
	Digit int
}

// Digit returns an append-digit event for d.
func Digit(d int) Event { return Event{Kind: EventAppendDigit, Digit: d} }

// Op returns an event of kind k with no payload.
func Op(k EventKind) Event { return Event{Kind: k} }

func (e Event) String() string {
	if e.Kind == EventAppendDigit {
		return fmt.Sprintf("digit(%d)", e.Digit)
	}
	return e.Kind.String()
}
