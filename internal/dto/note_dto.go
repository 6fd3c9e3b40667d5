package dto

import "time"

type NoteResponse struct {
	Id         int64     `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	IsFavorite bool      `json:"is_favorite"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateNoteRequest requires a title or a body; whitespace-only values are
// trimmed by the caller before validation.
type CreateNoteRequest struct {
	Title      string `json:"title" validate:"required_without=Body"`
	Body       string `json:"body" validate:"required_without=Title"`
	IsFavorite bool   `json:"is_favorite"`
}

type CreateNoteResponse struct {
	Id int64 `json:"id"`
}

type UpdateNoteRequest struct {
	Id         int64  `json:"-" validate:"required,gt=0"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	IsFavorite bool   `json:"is_favorite"`
}

// NoteChangedMessage is pushed to websocket clients on every table change.
type NoteChangedMessage struct {
	Event      string    `json:"event"`
	Table      string    `json:"table"`
	OccurredAt time.Time `json:"occurred_at"`
}
