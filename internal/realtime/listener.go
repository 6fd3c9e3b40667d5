package realtime

import (
	"context"
	"errors"
	"sync"

	"notesync/internal/pkg/logger"
)

var ErrAlreadySubscribed = errors.New("listener is already subscribed")

// Listener keeps a view fresh: every change event on the topic triggers one
// full reload. Bursts are not coalesced, N events cause N reloads.
type Listener struct {
	feed   ChangeFeed
	topic  Topic
	reload func(ctx context.Context)
	logger logger.ILogger

	mu  sync.Mutex
	sub Subscription
}

func NewListener(feed ChangeFeed, topic Topic, reload func(ctx context.Context), log logger.ILogger) *Listener {
	return &Listener{
		feed:   feed,
		topic:  topic,
		reload: reload,
		logger: log,
	}
}

// Start subscribes to the feed. It must be paired with Close.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sub != nil {
		return ErrAlreadySubscribed
	}

	sub, err := l.feed.Subscribe(ctx, l.topic, l.handle)
	if err != nil {
		return err
	}
	l.sub = sub
	l.logger.Info("Listener", "Subscribed to change feed", map[string]interface{}{
		"channel": l.topic.Channel,
		"table":   l.topic.Table,
	})
	return nil
}

func (l *Listener) handle(ctx context.Context, evt ChangeEvent) {
	l.logger.Debug("Listener", "Change event received, reloading", map[string]interface{}{
		"type":  evt.Type,
		"table": evt.Table,
	})
	l.reload(ctx)
}

// Close releases the subscription. Calling it on a listener that never
// started, or twice, is a no-op.
func (l *Listener) Close() error {
	l.mu.Lock()
	sub := l.sub
	l.sub = nil
	l.mu.Unlock()

	if sub == nil {
		return nil
	}
	err := sub.Unsubscribe()
	l.logger.Info("Listener", "Unsubscribed from change feed", map[string]interface{}{"channel": l.topic.Channel})
	return err
}

// Subscribed reports whether the listener currently holds a subscription.
func (l *Listener) Subscribed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sub != nil
}
