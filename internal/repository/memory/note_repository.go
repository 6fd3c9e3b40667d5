package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"notesync/internal/entity"
	"notesync/internal/pkg/logger"
	"notesync/internal/realtime"
	"notesync/internal/repository/contract"
	"notesync/internal/repository/specification"
)

// NoteRepository is an in-process note table. It assigns ids and creation
// times like the hosted store and, when a publisher is attached, emits a
// change event after every mutation.
type NoteRepository struct {
	mu     sync.RWMutex
	table  string
	nextId int64
	rows   map[int64]*entity.Note
	now    func() time.Time
	err    error

	publisher realtime.Publisher
	logger    logger.ILogger
}

var _ contract.NoteRepository = (*NoteRepository)(nil)

func NewNoteRepository(table string, publisher realtime.Publisher, log logger.ILogger) *NoteRepository {
	return &NoteRepository{
		table:     table,
		nextId:    1,
		rows:      make(map[int64]*entity.Note),
		now:       time.Now,
		publisher: publisher,
		logger:    log,
	}
}

// SetClock replaces the creation-time source.
func (r *NoteRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// FailWith makes every operation return err until called again with nil.
func (r *NoteRepository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *NoteRepository) notify(ctx context.Context, t realtime.EventType) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, realtime.NewChangeEvent(t, r.table)); err != nil {
		r.logger.Warn("MemoryNoteRepository", "Failed to publish change event", map[string]interface{}{
			"event": string(t),
			"error": err.Error(),
		})
	}
}

func (r *NoteRepository) Create(ctx context.Context, note *entity.Note) error {
	r.mu.Lock()
	if r.err != nil {
		r.mu.Unlock()
		return r.err
	}
	row := *note
	row.Id = r.nextId
	row.CreatedAt = r.now()
	r.nextId++
	r.rows[row.Id] = &row
	*note = row
	r.mu.Unlock()

	r.notify(ctx, realtime.EventInsert)
	return nil
}

func (r *NoteRepository) Update(ctx context.Context, note *entity.Note) error {
	r.mu.Lock()
	if r.err != nil {
		r.mu.Unlock()
		return r.err
	}
	row, ok := r.rows[note.Id]
	if ok {
		row.Title = note.Title
		row.Body = note.Body
		row.IsFavorite = note.IsFavorite
	}
	r.mu.Unlock()

	if ok {
		r.notify(ctx, realtime.EventUpdate)
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	if r.err != nil {
		r.mu.Unlock()
		return r.err
	}
	_, ok := r.rows[id]
	delete(r.rows, id)
	r.mu.Unlock()

	if ok {
		r.notify(ctx, realtime.EventDelete)
	}
	return nil
}

func (r *NoteRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}

	var orders []specification.OrderBy
	var ids []int64
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.OrderBy:
			orders = append(orders, s)
		case specification.ByID:
			ids = append(ids, s.ID)
		}
	}

	result := make([]*entity.Note, 0, len(r.rows))
	for _, row := range r.rows {
		if !matchesIDs(row.Id, ids) {
			continue
		}
		n := *row
		result = append(result, &n)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if len(orders) == 0 {
			return result[i].Id < result[j].Id
		}
		return less(result[i], result[j], orders)
	})
	return result, nil
}

func matchesIDs(id int64, ids []int64) bool {
	for _, want := range ids {
		if id != want {
			return false
		}
	}
	return true
}

// less compares two notes by the given orderings, falling back to id so the
// result is deterministic.
func less(a, b *entity.Note, orders []specification.OrderBy) bool {
	for _, o := range orders {
		c := compareField(a, b, o.Field)
		if c == 0 {
			continue
		}
		if o.Desc {
			return c > 0
		}
		return c < 0
	}
	return a.Id < b.Id
}

func compareField(a, b *entity.Note, field string) int {
	switch field {
	case "id":
		return compareInt(a.Id, b.Id)
	case "is_favorite":
		return compareBool(a.IsFavorite, b.IsFavorite)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "title_text":
		return compareString(a.Title, b.Title)
	case "note_text":
		return compareString(a.Body, b.Body)
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b:
		return -1
	}
	return 1
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
