package model

import "time"

// Note is a row of the remote note table. Column names are fixed by the
// hosted schema, so every field carries an explicit column tag.
type Note struct {
	Id         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TitleText  string    `gorm:"column:title_text;type:text" json:"title_text"`
	NoteText   string    `gorm:"column:note_text;type:text" json:"note_text"`
	IsFavorite bool      `gorm:"column:is_favorite;not null;default:false;index" json:"is_favorite"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;default:now();autoCreateTime:false;index" json:"created_at"`
}

var noteTableName = "note_app"

func (Note) TableName() string {
	return noteTableName
}

// SetNoteTableName overrides the table used by the gorm model. It must be
// called before any query runs.
func SetNoteTableName(name string) {
	if name != "" {
		noteTableName = name
	}
}

// NoteFields is the mutable subset of a row, used for partial updates.
type NoteFields struct {
	TitleText  string `json:"title_text"`
	NoteText   string `json:"note_text"`
	IsFavorite bool   `json:"is_favorite"`
}

func (f NoteFields) Columns() map[string]interface{} {
	return map[string]interface{}{
		"title_text":  f.TitleText,
		"note_text":   f.NoteText,
		"is_favorite": f.IsFavorite,
	}
}
