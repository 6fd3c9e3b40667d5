package mapper

import (
	"notesync/internal/dto"
	"notesync/internal/entity"
	"notesync/internal/model"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	return &entity.Note{
		Id:         n.Id,
		Title:      n.TitleText,
		Body:       n.NoteText,
		IsFavorite: n.IsFavorite,
		CreatedAt:  n.CreatedAt,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	return &model.Note{
		Id:         n.Id,
		TitleText:  n.Title,
		NoteText:   n.Body,
		IsFavorite: n.IsFavorite,
		CreatedAt:  n.CreatedAt,
	}
}

// ToFields extracts the columns an update is allowed to touch.
func (m *NoteMapper) ToFields(n *entity.Note) model.NoteFields {
	return model.NoteFields{
		TitleText:  n.Title,
		NoteText:   n.Body,
		IsFavorite: n.IsFavorite,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

func (m *NoteMapper) ToResponse(n *entity.Note) *dto.NoteResponse {
	if n == nil {
		return nil
	}

	return &dto.NoteResponse{
		Id:         n.Id,
		Title:      n.Title,
		Body:       n.Body,
		IsFavorite: n.IsFavorite,
		CreatedAt:  n.CreatedAt,
	}
}

func (m *NoteMapper) ToResponses(notes []*entity.Note) []*dto.NoteResponse {
	responses := make([]*dto.NoteResponse, len(notes))
	for i, n := range notes {
		responses[i] = m.ToResponse(n)
	}
	return responses
}
