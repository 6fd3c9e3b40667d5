package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"notesync/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisFeed carries change events over Redis pub/sub. The note service
// publishes after each successful mutation; every subscriber of the channel
// receives the event.
type RedisFeed struct {
	rdb     *redis.Client
	channel string
	logger  logger.ILogger
}

func NewRedisFeed(rdb *redis.Client, channel string, log logger.ILogger) *RedisFeed {
	return &RedisFeed{rdb: rdb, channel: channel, logger: log}
}

func (f *RedisFeed) Publish(ctx context.Context, evt ChangeEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return f.rdb.Publish(ctx, f.channel, payload).Err()
}

func (f *RedisFeed) Subscribe(ctx context.Context, topic Topic, handler Handler) (Subscription, error) {
	channel := topic.Channel
	if channel == "" {
		channel = f.channel
	}

	pubsub := f.rdb.Subscribe(ctx, channel)
	// Wait for the subscription confirmation so events published right after
	// Subscribe returns are not missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to redis channel %s: %w", channel, err)
	}

	subCtx, cancel := context.WithCancel(context.Background())
	sub := &redisSubscription{pubsub: pubsub, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		for msg := range pubsub.Channel() {
			var evt ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				f.logger.Warn("RedisFeed", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if !topic.matches(evt.Table) {
				continue
			}
			handler(subCtx, evt)
		}
	}()

	return sub, nil
}

type redisSubscription struct {
	once   sync.Once
	pubsub *redis.PubSub
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func (s *redisSubscription) Unsubscribe() error {
	s.once.Do(func() {
		s.cancel()
		s.err = s.pubsub.Close()
		<-s.done
	})
	return s.err
}
