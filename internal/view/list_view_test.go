package view

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"notesync/internal/dto"
	"notesync/internal/pkg/logger"
	"notesync/internal/realtime"
	"notesync/internal/repository/memory"
	"notesync/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTable = "note_app"

var testTopic = realtime.Topic{Channel: "note_updates", Schema: "public", Table: testTable}

// newSyncedStack returns a service backed by a memory repository that
// publishes every change to the returned feed.
func newSyncedStack(t *testing.T) (service.INoteService, *realtime.MemoryFeed, *memory.NoteRepository) {
	t.Helper()
	feed := realtime.NewMemoryFeed(logger.NewNopLogger())
	t.Cleanup(func() { feed.Close() })

	repo := memory.NewNoteRepository(testTable, feed, logger.NewNopLogger())
	svc := service.NewNoteService(repo, nil, testTable, logger.NewNopLogger())
	return svc, feed, repo
}

func TestListView_MountLoadsNotes(t *testing.T) {
	svc, feed, _ := newSyncedStack(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: "first"})
	require.NoError(t, err)

	v := NewListView(svc, feed, testTopic, logger.NewNopLogger())
	require.NoError(t, v.Mount(ctx))
	defer v.Unmount()

	assert.Len(t, v.All(), 1)
	assert.False(t, v.Loading())
}

func TestListView_ReloadsOnRemoteChange(t *testing.T) {
	svc, feed, _ := newSyncedStack(t)
	ctx := context.Background()

	v := NewListView(svc, feed, testTopic, logger.NewNopLogger())
	require.NoError(t, v.Mount(ctx))
	defer v.Unmount()
	assert.Empty(t, v.All())

	// Another client writing to the same store.
	_, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: "from elsewhere"})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(v.All()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestListView_UnmountStopsReloads(t *testing.T) {
	svc, feed, _ := newSyncedStack(t)
	ctx := context.Background()

	v := NewListView(svc, feed, testTopic, logger.NewNopLogger())
	require.NoError(t, v.Mount(ctx))
	require.NoError(t, v.Unmount())
	require.NoError(t, v.Unmount())

	var changes atomic.Int32
	v.OnChange(func() { changes.Add(1) })

	_, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: "late"})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, changes.Load())
	assert.Empty(t, v.All())
}

func TestListView_WithoutFeed(t *testing.T) {
	svc, _, _ := newSyncedStack(t)
	ctx := context.Background()

	v := NewListView(svc, nil, testTopic, logger.NewNopLogger())
	require.NoError(t, v.Mount(ctx))
	assert.NoError(t, v.Unmount())

	_, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: "manual"})
	require.NoError(t, err)
	assert.Empty(t, v.All())

	v.Refresh(ctx)
	assert.Len(t, v.All(), 1)
}

func TestListView_FailedFetchShowsEmptyList(t *testing.T) {
	svc, _, repo := newSyncedStack(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: "kept"})
	require.NoError(t, err)

	v := NewListView(svc, nil, testTopic, logger.NewNopLogger())
	v.Refresh(ctx)
	require.Len(t, v.All(), 1)

	repo.FailWith(assert.AnError)
	v.Refresh(ctx)
	assert.Empty(t, v.All())
	assert.NotNil(t, v.Displayed())
}

func TestListView_FilteringAndLabels(t *testing.T) {
	svc, _, _ := newSyncedStack(t)
	ctx := context.Background()

	v := NewListView(svc, nil, testTopic, logger.NewNopLogger())
	v.Refresh(ctx)
	assert.Equal(t, "Notes", v.Title())
	assert.Equal(t, `No notes yet. Tap "+" to start.`, v.EmptyMessage())

	_, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: "Work Plan", IsFavorite: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &dto.CreateNoteRequest{Title: "Gym Routine"})
	require.NoError(t, err)
	v.Refresh(ctx)

	v.SetSearchQuery("work")
	require.Len(t, v.Displayed(), 1)
	assert.Equal(t, "Work Plan", v.Displayed()[0].Title)

	v.SetSearchQuery("nothing here")
	assert.Empty(t, v.Displayed())
	assert.Equal(t, "No matching notes found.", v.EmptyMessage())

	v.ClearSearch()
	assert.Len(t, v.Displayed(), 2)

	v.ToggleFavoritesOnly()
	assert.Equal(t, "Favorites", v.Title())
	assert.Len(t, v.Displayed(), 1)

	require.NoError(t, svc.Update(ctx, &dto.UpdateNoteRequest{Id: v.Displayed()[0].Id, Title: "Work Plan"}))
	v.Refresh(ctx)
	assert.Empty(t, v.Displayed())
	assert.Equal(t, "No starred notes yet.", v.EmptyMessage())

	v.ToggleFavoritesOnly()
	assert.Equal(t, "Notes", v.Title())
	assert.Len(t, v.All(), 2)
}

func TestListView_OnChangeFiresAroundRefresh(t *testing.T) {
	svc, _, _ := newSyncedStack(t)

	v := NewListView(svc, nil, testTopic, logger.NewNopLogger())

	var loadingSeen []bool
	v.OnChange(func() { loadingSeen = append(loadingSeen, v.Loading()) })
	v.Refresh(context.Background())

	assert.Equal(t, []bool{true, false}, loadingSeen)
}
