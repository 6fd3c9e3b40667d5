package service

import (
	"context"
	"fmt"

	"notesync/internal/dto"
	"notesync/internal/entity"
	"notesync/internal/mapper"
	"notesync/internal/pkg/logger"
	"notesync/internal/realtime"
	"notesync/internal/repository/contract"
	"notesync/internal/repository/specification"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("notesync/service")

// INoteService is the data access boundary used by views and controllers.
// Only plain dto values cross it.
type INoteService interface {
	// List never fails: on a store error it logs and returns an empty list.
	List(ctx context.Context) []*dto.NoteResponse
	Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error)
	Update(ctx context.Context, req *dto.UpdateNoteRequest) error
	Delete(ctx context.Context, id int64) error
}

type noteService struct {
	repo      contract.NoteRepository
	publisher realtime.Publisher
	table     string
	mapper    *mapper.NoteMapper
	logger    logger.ILogger
}

// NewNoteService wires the repository. publisher may be nil when the store
// emits its own change notifications.
func NewNoteService(
	repo contract.NoteRepository,
	publisher realtime.Publisher,
	table string,
	log logger.ILogger,
) INoteService {
	return &noteService{
		repo:      repo,
		publisher: publisher,
		table:     table,
		mapper:    mapper.NewNoteMapper(),
		logger:    log,
	}
}

func (s *noteService) List(ctx context.Context) []*dto.NoteResponse {
	ctx, span := tracer.Start(ctx, "NoteService.List")
	defer span.End()

	notes, err := s.repo.FindAll(ctx, specification.NoteListOrder()...)
	if err != nil {
		recordError(span, err)
		s.logger.Error("NoteService", "Error fetching notes", map[string]interface{}{"error": err.Error()})
		return []*dto.NoteResponse{}
	}
	span.SetAttributes(attribute.Int("notes.count", len(notes)))
	return s.mapper.ToResponses(notes)
}

func (s *noteService) Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error) {
	ctx, span := tracer.Start(ctx, "NoteService.Create")
	defer span.End()

	note := entity.Note{
		Title:      req.Title,
		Body:       req.Body,
		IsFavorite: req.IsFavorite,
	}

	if err := s.repo.Create(ctx, &note); err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to add note: %w", err)
	}

	s.publish(ctx, realtime.EventInsert)

	return &dto.CreateNoteResponse{
		Id: note.Id,
	}, nil
}

func (s *noteService) Update(ctx context.Context, req *dto.UpdateNoteRequest) error {
	ctx, span := tracer.Start(ctx, "NoteService.Update", trace.WithAttributes(attribute.Int64("note.id", req.Id)))
	defer span.End()

	note := entity.Note{
		Id:         req.Id,
		Title:      req.Title,
		Body:       req.Body,
		IsFavorite: req.IsFavorite,
	}

	if err := s.repo.Update(ctx, &note); err != nil {
		recordError(span, err)
		return fmt.Errorf("failed to update note %d: %w", req.Id, err)
	}

	s.publish(ctx, realtime.EventUpdate)
	return nil
}

func (s *noteService) Delete(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "NoteService.Delete", trace.WithAttributes(attribute.Int64("note.id", id)))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		recordError(span, err)
		return fmt.Errorf("failed to delete note %d: %w", id, err)
	}

	s.publish(ctx, realtime.EventDelete)
	return nil
}

// publish is auxiliary: a failed notification never fails the mutation.
func (s *noteService) publish(ctx context.Context, t realtime.EventType) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, realtime.NewChangeEvent(t, s.table)); err != nil {
		s.logger.Warn("NoteService", "Failed to publish change event", map[string]interface{}{
			"type":  t,
			"error": err.Error(),
		})
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
