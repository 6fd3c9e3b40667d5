package tui

import (
	"strings"

	"notesync/internal/view"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) syncList() tea.Cmd {
	title := titleStyle.Render(m.lv.Title())
	if m.lv.Loading() {
		title += " " + mutedStyle.Render("loading...")
	}
	m.list.Title = title
	return m.list.SetItems(toItems(m.lv.Displayed()))
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.searching {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "esc":
				m.searching = false
				m.search.SetValue("")
				m.search.Blur()
				m.lv.ClearSearch()
				return m, m.syncList()
			case "enter":
				m.searching = false
				m.search.Blur()
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.lv.SetSearchQuery(m.search.Value())
		return m, tea.Batch(cmd, m.syncList())
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "q":
			return m, tea.Quit
		case "esc":
			if m.lv.Criteria().Query != "" {
				m.search.SetValue("")
				m.lv.ClearSearch()
				return m, m.syncList()
			}
			return m, tea.Quit
		case "/":
			m.searching = true
			return m, m.search.Focus()
		case "f":
			m.lv.ToggleFavoritesOnly()
			return m, m.syncList()
		case "r":
			return m, m.refreshCmd()
		case "n", "+":
			return m, m.openEditor(nil)
		case "enter":
			if it, ok := m.list.SelectedItem().(noteItem); ok {
				return m, m.openEditor(view.ParamsFromNote(it.note))
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) listView() string {
	var b strings.Builder

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	if len(m.list.Items()) == 0 {
		b.WriteString(titleStyle.Render(m.lv.Title()))
		b.WriteString("\n\n")
		if m.lv.Loading() {
			b.WriteString(mutedStyle.Render("Loading..."))
		} else {
			b.WriteString(mutedStyle.Render(m.lv.EmptyMessage()))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("n new • / search • f favorites • r refresh • q quit"))
	} else {
		b.WriteString(m.list.View())
	}

	if m.mountErr != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("live updates unavailable: " + m.mountErr.Error()))
	}
	return b.String()
}
