package realtime

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"notesync/internal/pkg/logger"
	"notesync/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresFeedIntegration(t *testing.T) {
	_ = godotenv.Load("../../.env")

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, database.PoolConfig{})
	require.NoError(t, err)
	defer database.Close(db)

	table := fmt.Sprintf("note_feed_test_%d", time.Now().UnixNano())
	channel := table + "_updates"

	require.NoError(t, db.Exec(fmt.Sprintf(`CREATE TABLE %s (
		id bigserial PRIMARY KEY,
		title_text text,
		note_text text,
		is_favorite boolean NOT NULL DEFAULT false,
		created_at timestamptz NOT NULL DEFAULT now()
	)`, table)).Error)
	defer db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
	defer db.Exec(fmt.Sprintf("DROP FUNCTION IF EXISTS %s_notify_change()", table))

	require.NoError(t, database.InstallChangeTrigger(db, table, channel))

	received := make(chan ChangeEvent, 8)
	feed := NewPostgresFeed(dsn, logger.NewNopLogger())
	sub, err := feed.Subscribe(context.Background(), Topic{Channel: channel, Table: table}, func(_ context.Context, evt ChangeEvent) {
		received <- evt
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.NoError(t, db.Exec(fmt.Sprintf("INSERT INTO %s (title_text) VALUES ('a')", table)).Error)
	require.NoError(t, db.Exec(fmt.Sprintf("UPDATE %s SET is_favorite = true", table)).Error)
	require.NoError(t, db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error)

	for _, want := range []EventType{EventInsert, EventUpdate, EventDelete} {
		select {
		case evt := <-received:
			assert.Equal(t, want, evt.Type)
			assert.Equal(t, table, evt.Table)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}

	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, sub.Unsubscribe())
}
