package realtime

import (
	"context"
	"sync"

	"notesync/internal/pkg/logger"
	"notesync/pkg/events"
	pktNats "notesync/pkg/nats"

	"github.com/nats-io/nats.go/jetstream"
)

// NatsFeed publishes and consumes change events on the JetStream EVENTS
// stream, subject "events.<table>.<operation>".
type NatsFeed struct {
	publisher  *pktNats.Publisher
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewNatsFeed(pub *pktNats.Publisher, sub *pktNats.Subscriber, log logger.ILogger) *NatsFeed {
	return &NatsFeed{publisher: pub, subscriber: sub, logger: log}
}

func (f *NatsFeed) Publish(ctx context.Context, evt ChangeEvent) error {
	if f.publisher == nil {
		return ErrFeedClosed
	}
	return f.publisher.Publish(ctx, events.BaseEvent{
		Type: events.TableEventType(evt.Table, string(evt.Type)),
		Data: map[string]interface{}{
			"table": evt.Table,
			"type":  string(evt.Type),
		},
		OccurredAt: evt.OccurredAt,
	})
}

func (f *NatsFeed) Subscribe(ctx context.Context, topic Topic, handler Handler) (Subscription, error) {
	if f.subscriber == nil {
		return nil, ErrFeedClosed
	}

	subCtx, cancel := context.WithCancel(context.Background())
	subject := pktNats.Subject(events.TableEventType(topic.Table, "*"))
	cc, err := f.subscriber.Consume(ctx, subject, func(_ context.Context, e events.Event) error {
		table, op, ok := events.SplitTableEventType(e.EventType())
		if !ok {
			return nil
		}
		evtType, ok := ParseEventType(op)
		if !ok || !topic.matches(table) {
			return nil
		}
		handler(subCtx, ChangeEvent{Type: evtType, Table: table, OccurredAt: e.Timestamp()})
		return nil
	})
	if err != nil {
		cancel()
		return nil, err
	}
	return &natsSubscription{cc: cc, cancel: cancel}, nil
}

type natsSubscription struct {
	once   sync.Once
	cc     jetstream.ConsumeContext
	cancel context.CancelFunc
}

func (s *natsSubscription) Unsubscribe() error {
	s.once.Do(func() {
		s.cc.Stop()
		s.cancel()
	})
	return nil
}
