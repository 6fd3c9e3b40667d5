package contract

import (
	"context"

	"notesync/internal/entity"
	"notesync/internal/repository/specification"
)

// NoteRepository is the remote note table. Implementations translate between
// entity.Note and the store's column names.
type NoteRepository interface {
	// Create inserts the note and fills in the store-assigned Id and CreatedAt.
	Create(ctx context.Context, note *entity.Note) error
	// Update overwrites title, body and favorite of the row matching note.Id.
	// A missing row is not an error.
	Update(ctx context.Context, note *entity.Note) error
	// Delete removes the row. A missing row is not an error.
	Delete(ctx context.Context, id int64) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
}
