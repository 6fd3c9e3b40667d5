package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"notesync/internal/pkg/logger"

	"github.com/jackc/pgx/v5"
)

// PostgresFeed listens for NOTIFY payloads emitted by the trigger that
// database.InstallChangeTrigger puts on the note table. Each subscription
// holds its own connection because LISTEN is connection scoped.
type PostgresFeed struct {
	dsn    string
	logger logger.ILogger
}

func NewPostgresFeed(dsn string, log logger.ILogger) *PostgresFeed {
	return &PostgresFeed{dsn: dsn, logger: log}
}

// notifyPayload is the JSON built by the trigger function.
type notifyPayload struct {
	Type   string `json:"type"`
	Schema string `json:"schema"`
	Table  string `json:"table"`
}

func (f *PostgresFeed) Subscribe(ctx context.Context, topic Topic, handler Handler) (Subscription, error) {
	conn, err := pgx.Connect(ctx, f.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect for LISTEN: %w", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{topic.Channel}.Sanitize()); err != nil {
		conn.Close(context.Background())
		return nil, fmt.Errorf("failed to LISTEN on %s: %w", topic.Channel, err)
	}

	subCtx, cancel := context.WithCancel(context.Background())
	sub := &postgresSubscription{conn: conn, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		for {
			n, err := conn.WaitForNotification(subCtx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					f.logger.Error("PostgresFeed", "Notification wait failed, feed stopped", map[string]interface{}{
						"channel": topic.Channel,
						"error":   err.Error(),
					})
				}
				return
			}

			var p notifyPayload
			if err := json.Unmarshal([]byte(n.Payload), &p); err != nil {
				f.logger.Warn("PostgresFeed", "Ignoring malformed notification", map[string]interface{}{"payload": n.Payload})
				continue
			}
			evtType, ok := ParseEventType(p.Type)
			if !ok || !topic.matches(p.Table) {
				continue
			}
			handler(subCtx, NewChangeEvent(evtType, p.Table))
		}
	}()

	return sub, nil
}

type postgresSubscription struct {
	once   sync.Once
	conn   *pgx.Conn
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func (s *postgresSubscription) Unsubscribe() error {
	s.once.Do(func() {
		s.cancel()
		<-s.done
		s.err = s.conn.Close(context.Background())
	})
	return s.err
}
