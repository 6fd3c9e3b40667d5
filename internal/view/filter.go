package view

import (
	"strings"

	"notesync/internal/dto"
)

type Criteria struct {
	FavoritesOnly bool
	Query         string
}

// Filter keeps notes matching both the favorites toggle and the search query.
// The query is a case-insensitive substring match on title or body; an empty
// query matches everything. Input order is preserved.
func Filter(notes []*dto.NoteResponse, c Criteria) []*dto.NoteResponse {
	query := strings.ToLower(c.Query)

	result := make([]*dto.NoteResponse, 0, len(notes))
	for _, n := range notes {
		if c.FavoritesOnly && !n.IsFavorite {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(n.Title), query) &&
			!strings.Contains(strings.ToLower(n.Body), query) {
			continue
		}
		result = append(result, n)
	}
	return result
}
