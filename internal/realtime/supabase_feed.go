package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"notesync/internal/pkg/logger"
	"notesync/pkg/supabase"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	supabaseHeartbeat = 25 * time.Second
	supabaseJoinWait  = 10 * time.Second
	supabaseWriteWait = 10 * time.Second
)

var ErrJoinRejected = errors.New("realtime channel join rejected")

// SupabaseFeed subscribes to postgres_changes through the Supabase Realtime
// websocket (Phoenix channel protocol, vsn 1.0.0).
type SupabaseFeed struct {
	client    *supabase.Client
	dialer    *websocket.Dialer
	heartbeat time.Duration
	logger    logger.ILogger
}

func NewSupabaseFeed(client *supabase.Client, log logger.ILogger) *SupabaseFeed {
	return &SupabaseFeed{
		client:    client,
		dialer:    websocket.DefaultDialer,
		heartbeat: supabaseHeartbeat,
		logger:    log,
	}
}

type phoenixMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     *string         `json:"ref"`
	JoinRef *string         `json:"join_ref,omitempty"`
}

type joinReply struct {
	Status   string `json:"status"`
	Response struct {
		Reason string `json:"reason"`
	} `json:"response"`
}

type postgresChange struct {
	Data struct {
		Type   string `json:"type"`
		Schema string `json:"schema"`
		Table  string `json:"table"`
	} `json:"data"`
}

func joinPayload(topic Topic, accessToken string) map[string]interface{} {
	schema := topic.Schema
	if schema == "" {
		schema = "public"
	}
	return map[string]interface{}{
		"config": map[string]interface{}{
			"broadcast": map[string]interface{}{"self": false},
			"presence":  map[string]interface{}{"key": ""},
			"postgres_changes": []map[string]interface{}{
				{"event": "*", "schema": schema, "table": topic.Table},
			},
		},
		"access_token": accessToken,
	}
}

func (f *SupabaseFeed) Subscribe(ctx context.Context, topic Topic, handler Handler) (Subscription, error) {
	conn, _, err := f.dialer.DialContext(ctx, f.client.RealtimeURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial realtime: %w", err)
	}

	sub := &supabaseSubscription{
		conn:    conn,
		topic:   "realtime:" + topic.Channel,
		joinRef: uuid.NewString(),
		done:    make(chan struct{}),
	}

	if err := sub.join(topic, f.client.Key()); err != nil {
		conn.Close()
		return nil, err
	}

	subCtx, cancel := context.WithCancel(context.Background())
	sub.cancel = cancel

	go sub.heartbeatLoop(subCtx, f.heartbeat, f.logger)
	go func() {
		defer close(sub.done)
		f.readLoop(subCtx, sub, topic, handler)
	}()

	return sub, nil
}

func (f *SupabaseFeed) readLoop(ctx context.Context, sub *supabaseSubscription, topic Topic, handler Handler) {
	for {
		var msg phoenixMessage
		if err := sub.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() == nil {
				f.logger.Error("SupabaseFeed", "Realtime connection lost", map[string]interface{}{
					"channel": topic.Channel,
					"error":   err.Error(),
				})
			}
			return
		}
		if msg.Topic != sub.topic {
			continue
		}

		switch msg.Event {
		case "postgres_changes":
			var change postgresChange
			if err := json.Unmarshal(msg.Payload, &change); err != nil {
				f.logger.Warn("SupabaseFeed", "Ignoring malformed change payload", map[string]interface{}{"error": err.Error()})
				continue
			}
			evtType, ok := ParseEventType(change.Data.Type)
			if !ok || !topic.matches(change.Data.Table) {
				continue
			}
			handler(ctx, NewChangeEvent(evtType, change.Data.Table))
		case "phx_error", "phx_close":
			f.logger.Warn("SupabaseFeed", "Realtime channel closed by server", map[string]interface{}{"event": msg.Event})
			return
		}
	}
}

type supabaseSubscription struct {
	conn    *websocket.Conn
	topic   string
	joinRef string
	ref     atomic.Int64
	writeMu sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
}

func (s *supabaseSubscription) nextRef() string {
	return strconv.FormatInt(s.ref.Add(1), 10)
}

func (s *supabaseSubscription) send(topic, event string, payload interface{}, ref string, joinRef *string) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(supabaseWriteWait))
	return s.conn.WriteJSON(phoenixMessage{
		Topic:   topic,
		Event:   event,
		Payload: raw,
		Ref:     &ref,
		JoinRef: joinRef,
	})
}

// join sends phx_join and blocks until the matching reply arrives.
func (s *supabaseSubscription) join(topic Topic, accessToken string) error {
	if err := s.send(s.topic, "phx_join", joinPayload(topic, accessToken), s.joinRef, &s.joinRef); err != nil {
		return fmt.Errorf("failed to send join: %w", err)
	}

	s.conn.SetReadDeadline(time.Now().Add(supabaseJoinWait))
	defer s.conn.SetReadDeadline(time.Time{})

	for {
		var msg phoenixMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("failed to read join reply: %w", err)
		}
		if msg.Event != "phx_reply" || msg.Ref == nil || *msg.Ref != s.joinRef {
			continue
		}
		var reply joinReply
		if err := json.Unmarshal(msg.Payload, &reply); err != nil {
			return fmt.Errorf("failed to decode join reply: %w", err)
		}
		if reply.Status != "ok" {
			return fmt.Errorf("%w: %s", ErrJoinRejected, reply.Response.Reason)
		}
		return nil
	}
}

func (s *supabaseSubscription) heartbeatLoop(ctx context.Context, every time.Duration, log logger.ILogger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.send("phoenix", "heartbeat", map[string]interface{}{}, s.nextRef(), nil); err != nil {
				log.Warn("SupabaseFeed", "Heartbeat failed", map[string]interface{}{"error": err.Error()})
				return
			}
		}
	}
}

func (s *supabaseSubscription) Unsubscribe() error {
	var err error
	s.once.Do(func() {
		// Best effort: the server drops the channel with the socket anyway.
		_ = s.send(s.topic, "phx_leave", map[string]interface{}{}, s.nextRef(), &s.joinRef)
		s.cancel()
		err = s.conn.Close()
		<-s.done
	})
	return err
}
