package realtime

import (
	"context"
	"errors"
	"strings"
	"time"
)

type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// ParseEventType accepts the spellings used by the different transports
// ("INSERT", "insert", ...).
func ParseEventType(s string) (EventType, bool) {
	switch EventType(strings.ToLower(s)) {
	case EventInsert:
		return EventInsert, true
	case EventUpdate:
		return EventUpdate, true
	case EventDelete:
		return EventDelete, true
	}
	return "", false
}

// ChangeEvent reports that a row of Table changed. Consumers only rely on
// its occurrence; no row data is carried.
type ChangeEvent struct {
	Type       EventType `json:"type"`
	Table      string    `json:"table"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewChangeEvent(t EventType, table string) ChangeEvent {
	return ChangeEvent{Type: t, Table: table, OccurredAt: time.Now()}
}

// Topic names what to listen to: a named channel scoped to one table.
type Topic struct {
	Channel string
	Schema  string
	Table   string
}

func (t Topic) matches(table string) bool {
	return table == "" || t.Table == "" || table == t.Table
}

type Handler func(ctx context.Context, evt ChangeEvent)

// ChangeFeed is a subscribable stream of table changes.
type ChangeFeed interface {
	Subscribe(ctx context.Context, topic Topic, handler Handler) (Subscription, error)
}

// Subscription is a live feed registration. Unsubscribe releases the
// underlying stream and is safe to call more than once.
type Subscription interface {
	Unsubscribe() error
}

// Publisher emits change events for transports where the store itself does
// not (NATS, Redis, in-process).
type Publisher interface {
	Publish(ctx context.Context, evt ChangeEvent) error
}

var ErrFeedClosed = errors.New("change feed is closed")
