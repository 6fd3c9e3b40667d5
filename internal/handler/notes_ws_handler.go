package handler

import (
	"context"
	"sync"

	"notesync/internal/dto"
	"notesync/internal/pkg/logger"
	"notesync/internal/realtime"
	internalWS "notesync/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// NotesWsHandler relays change feed events to websocket clients so browser
// views can run their own reload.
type NotesWsHandler struct {
	feed   realtime.ChangeFeed
	topic  realtime.Topic
	hub    *internalWS.Hub
	logger logger.ILogger

	mu  sync.Mutex
	sub realtime.Subscription
}

func NewNotesWsHandler(feed realtime.ChangeFeed, topic realtime.Topic, hub *internalWS.Hub, log logger.ILogger) *NotesWsHandler {
	return &NotesWsHandler{
		feed:   feed,
		topic:  topic,
		hub:    hub,
		logger: log,
	}
}

// Start subscribes the hub to the feed. Without a feed the endpoint still
// accepts connections but never pushes anything.
func (h *NotesWsHandler) Start(ctx context.Context) error {
	if h.feed == nil {
		h.logger.Warn("NotesWsHandler", "No change feed configured, websocket clients will not be notified", nil)
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sub != nil {
		return realtime.ErrAlreadySubscribed
	}

	sub, err := h.feed.Subscribe(ctx, h.topic, h.relay)
	if err != nil {
		return err
	}
	h.sub = sub
	return nil
}

func (h *NotesWsHandler) relay(_ context.Context, evt realtime.ChangeEvent) {
	h.hub.Broadcast(dto.NoteChangedMessage{
		Event:      string(evt.Type),
		Table:      evt.Table,
		OccurredAt: evt.OccurredAt,
	})
}

func (h *NotesWsHandler) Stop() error {
	h.mu.Lock()
	sub := h.sub
	h.sub = nil
	h.mu.Unlock()

	if sub == nil {
		return nil
	}
	return sub.Unsubscribe()
}

// ServeWs upgrades the request and streams change messages until the peer
// disconnects.
func (h *NotesWsHandler) ServeWs(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("NotesWsHandler", "Starting WebSocket session", map[string]interface{}{"remote": conn.RemoteAddr().String()})
			internalWS.ServeWs(h.hub, conn)
			h.logger.Info("NotesWsHandler", "WebSocket session ended", nil)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *NotesWsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
