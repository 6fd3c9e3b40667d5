package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"notesync/internal/dto"
	"notesync/internal/service"

	"github.com/go-playground/validator/v10"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

var (
	ErrEmptyNote          = errors.New("note needs a title or a body")
	ErrSaveInProgress     = errors.New("save already in progress")
	ErrSaveFailed         = errors.New("failed to save note")
	ErrDeleteUnavailable  = errors.New("delete is only available for existing notes")
	ErrDeleteNotConfirmed = errors.New("delete was not confirmed")
	ErrDeleteFailed       = errors.New("failed to delete note")
)

var validate = validator.New()

// EditParams carries an existing note into the editor. A nil value or a zero
// Id opens the editor in create mode.
type EditParams struct {
	Id         int64
	Title      string
	Body       string
	IsFavorite bool
}

func ParamsFromNote(n *dto.NoteResponse) *EditParams {
	if n == nil {
		return nil
	}
	return &EditParams{
		Id:         n.Id,
		Title:      n.Title,
		Body:       n.Body,
		IsFavorite: n.IsFavorite,
	}
}

// Editor is the state of one create or edit session. The mode is fixed at
// construction.
type Editor struct {
	svc  service.INoteService
	mode Mode
	id   int64

	mu            sync.Mutex
	title         string
	body          string
	isFavorite    bool
	saving        bool
	deletePending bool
}

func NewEditor(svc service.INoteService, params *EditParams) *Editor {
	e := &Editor{svc: svc, mode: ModeCreate}
	if params != nil && params.Id != 0 {
		e.mode = ModeEdit
		e.id = params.Id
		e.title = params.Title
		e.body = params.Body
		e.isFavorite = params.IsFavorite
	}
	return e
}

func (e *Editor) Mode() Mode { return e.mode }

// Id is the note being edited, zero in create mode.
func (e *Editor) Id() int64 { return e.id }

func (e *Editor) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title
}

func (e *Editor) Body() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.body
}

func (e *Editor) IsFavorite() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isFavorite
}

func (e *Editor) SetTitle(title string) {
	e.mu.Lock()
	e.title = title
	e.mu.Unlock()
}

func (e *Editor) SetBody(body string) {
	e.mu.Lock()
	e.body = body
	e.mu.Unlock()
}

func (e *Editor) ToggleFavorite() {
	e.mu.Lock()
	e.isFavorite = !e.isFavorite
	e.mu.Unlock()
}

func (e *Editor) Saving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saving
}

func (e *Editor) CanDelete() bool {
	return e.mode == ModeEdit
}

// SaveLabel is the caption of the save action.
func (e *Editor) SaveLabel() string {
	if e.Saving() {
		return "Saving..."
	}
	return "Done"
}

// Save validates and persists the note. Only one save runs at a time; the
// in-flight flag is cleared whatever the outcome.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.saving {
		e.mu.Unlock()
		return ErrSaveInProgress
	}
	title, body, fav := e.title, e.body, e.isFavorite
	if err := checkContent(title, body); err != nil {
		e.mu.Unlock()
		return err
	}
	e.saving = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.saving = false
		e.mu.Unlock()
	}()

	var err error
	if e.mode == ModeEdit {
		err = e.svc.Update(ctx, &dto.UpdateNoteRequest{
			Id:         e.id,
			Title:      title,
			Body:       body,
			IsFavorite: fav,
		})
	} else {
		_, err = e.svc.Create(ctx, &dto.CreateNoteRequest{
			Title:      title,
			Body:       body,
			IsFavorite: fav,
		})
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return nil
}

// checkContent applies the title-or-body rule to trimmed copies. The
// untrimmed values are what gets stored.
func checkContent(title, body string) error {
	req := dto.CreateNoteRequest{
		Title: strings.TrimSpace(title),
		Body:  strings.TrimSpace(body),
	}
	if err := validate.Struct(req); err != nil {
		return ErrEmptyNote
	}
	return nil
}

// RequestDelete arms the delete confirmation.
func (e *Editor) RequestDelete() error {
	if !e.CanDelete() {
		return ErrDeleteUnavailable
	}
	e.mu.Lock()
	e.deletePending = true
	e.mu.Unlock()
	return nil
}

func (e *Editor) CancelDelete() {
	e.mu.Lock()
	e.deletePending = false
	e.mu.Unlock()
}

func (e *Editor) DeletePending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deletePending
}

// ConfirmDelete removes the note, but only after RequestDelete.
func (e *Editor) ConfirmDelete(ctx context.Context) error {
	if !e.CanDelete() {
		return ErrDeleteUnavailable
	}

	e.mu.Lock()
	armed := e.deletePending
	e.deletePending = false
	e.mu.Unlock()

	if !armed {
		return ErrDeleteNotConfirmed
	}

	if err := e.svc.Delete(ctx, e.id); err != nil {
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	return nil
}
