package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"

	"notesync/internal/config"
	"notesync/internal/controller"
	"notesync/internal/handler"
	"notesync/internal/model"
	"notesync/internal/pkg/logger"
	"notesync/internal/realtime"
	"notesync/internal/repository/contract"
	"notesync/internal/repository/implementation"
	"notesync/internal/repository/memory"
	"notesync/internal/service"
	"notesync/internal/websocket"
	"notesync/pkg/database"
	pktNats "notesync/pkg/nats"
	"notesync/pkg/supabase"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container holds everything the hosts need. Feed is nil when the sync
// transport is "none".
type Container struct {
	Logger      logger.ILogger
	NoteService service.INoteService
	Feed        realtime.ChangeFeed
	Topic       realtime.Topic

	// REST only
	NoteController controller.INoteController
	NotesWsHandler *handler.NotesWsHandler
	WebSocketHub   *websocket.Hub

	closers []func() error
}

// NewContainer connects the store and change transport selected by cfg.
// Everything opened here is released by Close.
func NewContainer(cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model.SetNoteTableName(cfg.Notes.Table)

	c := &Container{
		Logger: sysLogger,
		Topic: realtime.Topic{
			Channel: cfg.Notes.Channel,
			Schema:  "public",
			Table:   cfg.Notes.Table,
		},
	}

	// 1. Supabase client, shared by store and feed
	var sbClient *supabase.Client
	if cfg.Notes.StoreDriver == config.StoreSupabase || cfg.Notes.SyncTransport == config.TransportSupabase {
		client, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
		if err != nil {
			return nil, fmt.Errorf("supabase client: %w", err)
		}
		sbClient = client
	}

	// 2. Change transport
	var publisher realtime.Publisher
	var memoryFeed *realtime.MemoryFeed

	switch cfg.Notes.SyncTransport {
	case config.TransportPostgres:
		c.Feed = realtime.NewPostgresFeed(cfg.Database.Connection, sysLogger)

	case config.TransportSupabase:
		c.Feed = realtime.NewSupabaseFeed(sbClient, sysLogger)

	case config.TransportNats:
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("nats publisher: %w", err)
		}
		c.closers = append(c.closers, func() error { natsPub.Close(); return nil })

		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("nats subscriber: %w", err)
		}
		c.closers = append(c.closers, func() error { natsSub.Close(); return nil })

		feed := realtime.NewNatsFeed(natsPub, natsSub, sysLogger)
		c.Feed, publisher = feed, feed

	case config.TransportRedis:
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			rdb.Close()
			c.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		c.closers = append(c.closers, rdb.Close)

		feed := realtime.NewRedisFeed(rdb, cfg.Notes.Channel, sysLogger)
		c.Feed, publisher = feed, feed

	case config.TransportMemory:
		memoryFeed = realtime.NewMemoryFeed(sysLogger)
		c.closers = append(c.closers, memoryFeed.Close)
		c.Feed = memoryFeed
	}

	// 3. Store
	var repo contract.NoteRepository
	switch cfg.Notes.StoreDriver {
	case config.StorePostgres:
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.PoolConfig{
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
		})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("database: %w", err)
		}
		c.closers = append(c.closers, func() error { return database.Close(db) })
		repo = implementation.NewNoteRepository(db)

	case config.StoreSupabase:
		repo = implementation.NewSupabaseNoteRepository(sbClient, cfg.Notes.Table)

	case config.StoreMemory:
		var storePublisher realtime.Publisher
		if memoryFeed != nil {
			storePublisher = memoryFeed
		}
		repo = memory.NewNoteRepository(cfg.Notes.Table, storePublisher, sysLogger)
	}

	// 4. Services and transports
	c.NoteService = service.NewNoteService(repo, publisher, cfg.Notes.Table, sysLogger)

	c.WebSocketHub = websocket.NewHub(sysLogger)
	c.NotesWsHandler = handler.NewNotesWsHandler(c.Feed, c.Topic, c.WebSocketHub, sysLogger)
	c.NoteController = controller.NewNoteController(c.NoteService)

	return c, nil
}

// NewGormDB opens the configured Postgres database for tooling that needs raw
// access (migrations).
func NewGormDB(cfg *config.Config) (*gorm.DB, error) {
	return database.NewGormDBFromDSN(cfg.Database.Connection, database.PoolConfig{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
