package events

import (
	"strings"
	"time"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the dotted code for this event (e.g. "note_app.insert").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// TableEventType is the event code for a row change: "<table>.<operation>".
func TableEventType(table, operation string) string {
	return table + "." + strings.ToLower(operation)
}

// SplitTableEventType reverses TableEventType.
func SplitTableEventType(eventType string) (table, operation string, ok bool) {
	i := strings.LastIndex(eventType, ".")
	if i <= 0 || i == len(eventType)-1 {
		return "", "", false
	}
	return eventType[:i], eventType[i+1:], true
}
