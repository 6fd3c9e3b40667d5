package view

import (
	"context"
	"sync"

	"notesync/internal/dto"
	"notesync/internal/pkg/logger"
	"notesync/internal/realtime"
	"notesync/internal/service"
)

const (
	titleAll       = "Notes"
	titleFavorites = "Favorites"

	emptyNoMatch     = "No matching notes found."
	emptyNoFavorites = "No starred notes yet."
	emptyNoNotes     = `No notes yet. Tap "+" to start.`
)

// ListView holds the client-side copy of all notes plus the filter state.
// Reloads may arrive from feed goroutines, so all state is mutex guarded.
type ListView struct {
	svc      service.INoteService
	feed     realtime.ChangeFeed
	topic    realtime.Topic
	logger   logger.ILogger
	listener *realtime.Listener

	mu       sync.RWMutex
	notes    []*dto.NoteResponse
	criteria Criteria
	inFlight int
	onChange func()
}

// NewListView builds a list over svc. feed may be nil, in which case the view
// only refreshes when asked to.
func NewListView(svc service.INoteService, feed realtime.ChangeFeed, topic realtime.Topic, log logger.ILogger) *ListView {
	return &ListView{
		svc:    svc,
		feed:   feed,
		topic:  topic,
		logger: log,
		notes:  []*dto.NoteResponse{},
	}
}

// OnChange registers fn to be called after every state change. It runs
// outside the view's lock.
func (v *ListView) OnChange(fn func()) {
	v.mu.Lock()
	v.onChange = fn
	v.mu.Unlock()
}

// Mount loads the list and starts listening for remote changes.
func (v *ListView) Mount(ctx context.Context) error {
	v.Refresh(ctx)

	if v.feed == nil {
		return nil
	}

	v.mu.Lock()
	if v.listener == nil {
		v.listener = realtime.NewListener(v.feed, v.topic, v.Refresh, v.logger)
	}
	listener := v.listener
	v.mu.Unlock()

	return listener.Start(ctx)
}

// Unmount releases the change subscription. Safe to call more than once.
func (v *ListView) Unmount() error {
	v.mu.Lock()
	listener := v.listener
	v.mu.Unlock()

	if listener == nil {
		return nil
	}
	return listener.Close()
}

// Refresh replaces the local copy with a fresh fetch. The last reload to
// complete wins.
func (v *ListView) Refresh(ctx context.Context) {
	v.mu.Lock()
	v.inFlight++
	v.mu.Unlock()
	v.notify()

	notes := v.svc.List(ctx)

	v.mu.Lock()
	v.notes = notes
	v.inFlight--
	v.mu.Unlock()
	v.notify()
}

func (v *ListView) SetSearchQuery(q string) {
	v.mu.Lock()
	v.criteria.Query = q
	v.mu.Unlock()
	v.notify()
}

func (v *ListView) ClearSearch() {
	v.SetSearchQuery("")
}

func (v *ListView) ToggleFavoritesOnly() {
	v.mu.Lock()
	v.criteria.FavoritesOnly = !v.criteria.FavoritesOnly
	v.mu.Unlock()
	v.notify()
}

func (v *ListView) Criteria() Criteria {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.criteria
}

// Displayed is the filtered list in store order.
func (v *ListView) Displayed() []*dto.NoteResponse {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Filter(v.notes, v.criteria)
}

// All returns the unfiltered local copy.
func (v *ListView) All() []*dto.NoteResponse {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]*dto.NoteResponse, len(v.notes))
	copy(out, v.notes)
	return out
}

func (v *ListView) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.inFlight > 0
}

func (v *ListView) Title() string {
	if v.Criteria().FavoritesOnly {
		return titleFavorites
	}
	return titleAll
}

// EmptyMessage is what to show when Displayed is empty.
func (v *ListView) EmptyMessage() string {
	c := v.Criteria()
	switch {
	case c.Query != "":
		return emptyNoMatch
	case c.FavoritesOnly:
		return emptyNoFavorites
	default:
		return emptyNoNotes
	}
}

func (v *ListView) notify() {
	v.mu.RLock()
	fn := v.onChange
	v.mu.RUnlock()
	if fn != nil {
		fn()
	}
}
