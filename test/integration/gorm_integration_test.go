package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"notesync/internal/dto"
	"notesync/internal/entity"
	"notesync/internal/model"
	"notesync/internal/pkg/logger"
	"notesync/internal/realtime"
	"notesync/internal/repository/implementation"
	"notesync/internal/service"
	"notesync/internal/view"
	"notesync/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormNoteStoreWithPostgresFeed(t *testing.T) {
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	table := fmt.Sprintf("note_app_it_%d", time.Now().UnixNano())
	channel := table + "_updates"
	model.SetNoteTableName(table)

	gormDB, err := database.NewGormDBFromDSN(dsn, database.PoolConfig{})
	require.NoError(t, err)
	defer database.Close(gormDB)

	require.NoError(t, gormDB.AutoMigrate(&model.Note{}))
	defer gormDB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
	defer gormDB.Exec(fmt.Sprintf("DROP FUNCTION IF EXISTS %s_notify_change()", table))
	require.NoError(t, database.InstallChangeTrigger(gormDB, table, channel))

	log := logger.NewNopLogger()
	repo := implementation.NewNoteRepository(gormDB)
	svc := service.NewNoteService(repo, nil, table, log)
	ctx := context.Background()

	t.Run("Create assigns id and creation time", func(t *testing.T) {
		res, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: "Old plain"})
		require.NoError(t, err)
		assert.Positive(t, res.Id)

		notes := svc.List(ctx)
		require.Len(t, notes, 1)
		assert.False(t, notes[0].CreatedAt.IsZero())
	})

	t.Run("Creation time comes from the database clock", func(t *testing.T) {
		// Inside one transaction now() is frozen at the transaction start, so
		// a row inserted there must carry exactly that value.
		tx := gormDB.Begin()
		require.NoError(t, tx.Error)
		defer tx.Rollback()

		var dbNow time.Time
		require.NoError(t, tx.Raw("SELECT now()").Scan(&dbNow).Error)

		time.Sleep(20 * time.Millisecond)

		note := &entity.Note{Title: "clocked"}
		require.NoError(t, implementation.NewNoteRepository(tx).Create(ctx, note))
		assert.True(t, note.CreatedAt.Equal(dbNow), "created_at %v, transaction now() %v", note.CreatedAt, dbNow)
	})

	t.Run("List orders favorites first then newest", func(t *testing.T) {
		star, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: "Old star", IsFavorite: true})
		require.NoError(t, err)
		_, err = svc.Create(ctx, &dto.CreateNoteRequest{Title: "Groceries"})
		require.NoError(t, err)

		notes := svc.List(ctx)
		require.Len(t, notes, 3)
		assert.Equal(t, star.Id, notes[0].Id)
		assert.Equal(t, "Groceries", notes[1].Title)
		assert.Equal(t, "Old plain", notes[2].Title)
	})

	t.Run("Listening view reloads after a write", func(t *testing.T) {
		feed := realtime.NewPostgresFeed(dsn, log)
		topic := realtime.Topic{Channel: channel, Schema: "public", Table: table}

		lv := view.NewListView(svc, feed, topic, log)
		require.NoError(t, lv.Mount(ctx))
		defer lv.Unmount()

		before := len(lv.All())
		_, err := svc.Create(ctx, &dto.CreateNoteRequest{Body: "synced"})
		require.NoError(t, err)

		assert.Eventually(t, func() bool {
			return len(lv.All()) == before+1
		}, 5*time.Second, 50*time.Millisecond)
	})

	t.Run("Update and delete", func(t *testing.T) {
		notes := svc.List(ctx)
		require.NotEmpty(t, notes)
		target := notes[len(notes)-1]

		require.NoError(t, svc.Update(ctx, &dto.UpdateNoteRequest{Id: target.Id, Title: "renamed", IsFavorite: true}))
		var found *dto.NoteResponse
		for _, n := range svc.List(ctx) {
			if n.Id == target.Id {
				found = n
			}
		}
		require.NotNil(t, found)
		assert.Equal(t, "renamed", found.Title)
		assert.True(t, found.IsFavorite)
		assert.Equal(t, target.CreatedAt.Unix(), found.CreatedAt.Unix())

		require.NoError(t, svc.Delete(ctx, target.Id))
		require.NoError(t, svc.Delete(ctx, target.Id))
		assert.Len(t, svc.List(ctx), len(notes)-1)
	})
}
