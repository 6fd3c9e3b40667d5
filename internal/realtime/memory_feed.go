package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"notesync/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// MemoryFeed is an in-process feed over a watermill go channel. The memory
// repository publishes to it, so a single process behaves like a hosted store
// with realtime enabled.
type MemoryFeed struct {
	pubSub *gochannel.GoChannel
	logger logger.ILogger
}

func NewMemoryFeed(log logger.ILogger) *MemoryFeed {
	return &MemoryFeed{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NopLogger{},
		),
		logger: log,
	}
}

func (f *MemoryFeed) Publish(ctx context.Context, evt ChangeEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return f.pubSub.Publish(evt.Table, msg)
}

func (f *MemoryFeed) Subscribe(ctx context.Context, topic Topic, handler Handler) (Subscription, error) {
	subCtx, cancel := context.WithCancel(context.Background())
	messages, err := f.pubSub.Subscribe(subCtx, topic.Table)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &memorySubscription{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(sub.done)
		for msg := range messages {
			var evt ChangeEvent
			if err := json.Unmarshal(msg.Payload, &evt); err != nil {
				f.logger.Warn("MemoryFeed", "Dropping malformed change event", map[string]interface{}{"error": err.Error()})
				msg.Ack()
				continue
			}
			handler(subCtx, evt)
			msg.Ack()
		}
	}()
	return sub, nil
}

func (f *MemoryFeed) Close() error {
	return f.pubSub.Close()
}

type memorySubscription struct {
	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *memorySubscription) Unsubscribe() error {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
	return nil
}
