package specification

// NoteListOrder is the canonical list ordering: favorites first, newest first
// within each group.
func NoteListOrder() []Specification {
	return []Specification{
		OrderBy{Field: "is_favorite", Desc: true},
		OrderBy{Field: "created_at", Desc: true},
	}
}
