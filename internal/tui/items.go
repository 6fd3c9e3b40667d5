package tui

import (
	"fmt"
	"io"
	"strings"

	"notesync/internal/dto"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// noteItem adapts a note to bubbles/list.Item.
type noteItem struct {
	note *dto.NoteResponse
}

func (i noteItem) Title() string {
	if strings.TrimSpace(i.note.Title) == "" {
		return "Untitled"
	}
	return i.note.Title
}

func (i noteItem) Description() string {
	return firstLine(i.note.Body)
}

// Filtering is done by view.Filter, not by the list widget.
func (i noteItem) FilterValue() string { return "" }

func toItems(notes []*dto.NoteResponse) []list.Item {
	items := make([]list.Item, 0, len(notes))
	for _, n := range notes {
		items = append(items, noteItem{note: n})
	}
	return items
}

type noteDelegate struct{}

func (d noteDelegate) Height() int                               { return 2 }
func (d noteDelegate) Spacing() int                              { return 1 }
func (d noteDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d noteDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(noteItem)
	if !ok {
		return
	}

	title := it.Title()
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render(">") + " "
		title = titleStyle.Render(title)
	}

	fmt.Fprintf(w, "%s%s %s\n", prefix, star(it.note.IsFavorite), title)
	fmt.Fprintf(w, "    %s %s", mutedStyle.Render(it.note.CreatedAt.Format("Jan 2, 15:04")), mutedStyle.Render(it.Description()))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	const max = 60
	if r := []rune(s); len(r) > max {
		return string(r[:max]) + "…"
	}
	return s
}
