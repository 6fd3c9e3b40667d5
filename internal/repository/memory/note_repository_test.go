package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"notesync/internal/entity"
	"notesync/internal/pkg/logger"
	"notesync/internal/realtime"
	"notesync/internal/repository/specification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.ChangeEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evt realtime.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []realtime.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]realtime.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func TestCreateAssignsIdAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository("note_app", nil, logger.NewNopLogger())
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo.SetClock(func() time.Time { return fixed })

	first := &entity.Note{Id: 99, Title: "a"}
	second := &entity.Note{Title: "b"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.Equal(t, int64(1), first.Id, "caller-supplied id is ignored")
	assert.Equal(t, int64(2), second.Id)
	assert.Equal(t, fixed, first.CreatedAt)
}

func TestIdsAreNeverReused(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository("note_app", nil, logger.NewNopLogger())

	n := &entity.Note{Title: "gone"}
	require.NoError(t, repo.Create(ctx, n))
	require.NoError(t, repo.Delete(ctx, n.Id))

	next := &entity.Note{Title: "new"}
	require.NoError(t, repo.Create(ctx, next))
	assert.Greater(t, next.Id, n.Id)
}

func TestUpdateAndDeleteOfMissingIdSucceed(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	repo := NewNoteRepository("note_app", pub, logger.NewNopLogger())

	assert.NoError(t, repo.Update(ctx, &entity.Note{Id: 42, Title: "x"}))
	assert.NoError(t, repo.Delete(ctx, 42))
	assert.Empty(t, pub.types(), "no row changed, no event")
}

func TestUpdateKeepsIdAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository("note_app", nil, logger.NewNopLogger())

	n := &entity.Note{Title: "before", Body: "b"}
	require.NoError(t, repo.Create(ctx, n))
	created := n.CreatedAt

	require.NoError(t, repo.Update(ctx, &entity.Note{Id: n.Id, Title: "after", IsFavorite: true, CreatedAt: created.Add(time.Hour)}))

	notes, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "after", notes[0].Title)
	assert.Equal(t, "", notes[0].Body)
	assert.True(t, notes[0].IsFavorite)
	assert.Equal(t, created, notes[0].CreatedAt)
}

func TestFindAllOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository("note_app", nil, logger.NewNopLogger())

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})

	for _, n := range []*entity.Note{
		{Title: "old plain"},
		{Title: "old star", IsFavorite: true},
		{Title: "new plain"},
		{Title: "new star", IsFavorite: true},
	} {
		require.NoError(t, repo.Create(ctx, n))
	}

	notes, err := repo.FindAll(ctx, specification.NoteListOrder()...)
	require.NoError(t, err)

	titles := make([]string, len(notes))
	for i, n := range notes {
		titles[i] = n.Title
	}
	assert.Equal(t, []string{"new star", "old star", "new plain", "old plain"}, titles)
}

func TestFindAllByID(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository("note_app", nil, logger.NewNopLogger())
	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, &entity.Note{Title: title}))
	}

	notes, err := repo.FindAll(ctx, specification.ByID{ID: 2})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "b", notes[0].Title)
}

func TestFindAllReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository("note_app", nil, logger.NewNopLogger())
	require.NoError(t, repo.Create(ctx, &entity.Note{Title: "original"}))

	notes, err := repo.FindAll(ctx)
	require.NoError(t, err)
	notes[0].Title = "mutated"

	again, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Title)
}

func TestMutationsPublishEvents(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	repo := NewNoteRepository("note_app", pub, logger.NewNopLogger())

	n := &entity.Note{Title: "x"}
	require.NoError(t, repo.Create(ctx, n))
	require.NoError(t, repo.Update(ctx, &entity.Note{Id: n.Id, Title: "y"}))
	require.NoError(t, repo.Delete(ctx, n.Id))

	assert.Equal(t, []realtime.EventType{realtime.EventInsert, realtime.EventUpdate, realtime.EventDelete}, pub.types())
	assert.Equal(t, "note_app", pub.events[0].Table)
}

func TestFailWith(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository("note_app", nil, logger.NewNopLogger())
	boom := errors.New("boom")
	repo.FailWith(boom)

	_, err := repo.FindAll(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, repo.Create(ctx, &entity.Note{Title: "x"}), boom)
	assert.ErrorIs(t, repo.Update(ctx, &entity.Note{Id: 1}), boom)
	assert.ErrorIs(t, repo.Delete(ctx, 1), boom)

	repo.FailWith(nil)
	_, err = repo.FindAll(ctx)
	assert.NoError(t, err)
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, realtime.ChangeEvent) error {
	return errors.New("bus unavailable")
}

type logEntry struct {
	level   string
	module  string
	message string
	details map[string]interface{}
}

// recordingLogger keeps every log call for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level, module, message, details})
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {
	l.record("debug", module, message, details)
}

func (l *recordingLogger) Info(module, message string, details map[string]interface{}) {
	l.record("info", module, message, details)
}

func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.record("warn", module, message, details)
}

func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {
	l.record("error", module, message, details)
}

func (l *recordingLogger) Sync() error { return nil }

var _ logger.ILogger = (*recordingLogger)(nil)

func TestPublishFailureIsLoggedNotReturned(t *testing.T) {
	ctx := context.Background()
	log := &recordingLogger{}
	repo := NewNoteRepository("note_app", failingPublisher{}, log)

	n := &entity.Note{Title: "still saved"}
	require.NoError(t, repo.Create(ctx, n))
	require.NoError(t, repo.Delete(ctx, n.Id))

	require.Len(t, log.entries, 2)
	for i, want := range []string{"insert", "delete"} {
		e := log.entries[i]
		assert.Equal(t, "warn", e.level)
		assert.Equal(t, "MemoryNoteRepository", e.module)
		assert.Equal(t, want, e.details["event"])
		assert.Equal(t, "bus unavailable", e.details["error"])
	}

	notes, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
}
