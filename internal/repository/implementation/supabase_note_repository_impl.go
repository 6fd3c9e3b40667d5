package implementation

import (
	"context"
	"errors"
	"fmt"

	"notesync/internal/entity"
	"notesync/internal/mapper"
	"notesync/internal/model"
	"notesync/internal/repository/contract"
	"notesync/internal/repository/specification"
	"notesync/pkg/supabase"

	"github.com/supabase-community/postgrest-go"
)

// SupabaseNoteRepository reaches the note table through the hosted
// PostgREST API instead of a direct database connection.
type SupabaseNoteRepository struct {
	rest   *postgrest.Client
	table  string
	mapper *mapper.NoteMapper
}

func NewSupabaseNoteRepository(client *supabase.Client, table string) contract.NoteRepository {
	return &SupabaseNoteRepository{
		rest:   client.Rest(),
		table:  table,
		mapper: mapper.NewNoteMapper(),
	}
}

func (r *SupabaseNoteRepository) applySpecifications(fb *postgrest.FilterBuilder, specs ...specification.Specification) *postgrest.FilterBuilder {
	for _, spec := range specs {
		if rs, ok := spec.(specification.RestSpecification); ok {
			fb = rs.ApplyRest(fb)
		}
	}
	return fb
}

// The PostgREST client does not take a context, so a cancelled caller is
// only honoured before the request goes out.

func (r *SupabaseNoteRepository) Create(ctx context.Context, note *entity.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var rows []*model.Note
	_, err := r.rest.From(r.table).
		Insert(r.mapper.ToFields(note), false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	if len(rows) == 0 {
		return errors.New("no data returned from insert note")
	}

	*note = *r.mapper.ToEntity(rows[0])
	return nil
}

func (r *SupabaseNoteRepository) Update(ctx context.Context, note *entity.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fb := r.rest.From(r.table).Update(r.mapper.ToFields(note), "minimal", "")
	fb = r.applySpecifications(fb, specification.ByID{ID: note.Id})
	if _, _, err := fb.Execute(); err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

func (r *SupabaseNoteRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fb := r.rest.From(r.table).Delete("minimal", "")
	fb = r.applySpecifications(fb, specification.ByID{ID: id})
	if _, _, err := fb.Execute(); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func (r *SupabaseNoteRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fb := r.applySpecifications(r.rest.From(r.table).Select("*", "", false), specs...)

	var rows []*model.Note
	if _, err := fb.ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return r.mapper.ToEntities(rows), nil
}
