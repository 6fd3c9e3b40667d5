package tui

import (
	"strings"

	"notesync/internal/view"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) openEditor(params *view.EditParams) tea.Cmd {
	m.editor = view.NewEditor(m.svc, params)
	m.pendingSave = false
	m.confirmDelete = false

	m.titleInput = textinput.New()
	m.titleInput.Prompt = ""
	m.titleInput.Placeholder = "Title"
	m.titleInput.CharLimit = 200
	m.titleInput.SetValue(m.editor.Title())

	m.bodyArea = textarea.New()
	m.bodyArea.Placeholder = "Start typing..."
	m.bodyArea.ShowLineNumbers = false
	m.bodyArea.CharLimit = 0
	m.bodyArea.SetValue(m.editor.Body())

	m.screen = screenEditor
	m.bodyFocused = false
	m.resize()
	return m.titleInput.Focus()
}

// closeEditor returns to the list, which reloads as if it regained focus.
func (m *Model) closeEditor() tea.Cmd {
	m.editor = nil
	m.screen = screenList
	m.titleInput.Blur()
	m.bodyArea.Blur()
	return m.refreshCmd()
}

func (m *Model) saveCmd() tea.Cmd {
	ed := m.editor
	ed.SetTitle(m.titleInput.Value())
	ed.SetBody(m.bodyArea.Value())
	m.pendingSave = true
	return func() tea.Msg {
		return saveDoneMsg{err: ed.Save(m.ctx)}
	}
}

func (m *Model) deleteCmd() tea.Cmd {
	ed := m.editor
	return func() tea.Msg {
		return deleteDoneMsg{err: ed.ConfirmDelete(m.ctx)}
	}
}

func (m *Model) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirmDelete {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "y", "enter":
				m.confirmDelete = false
				return m, m.deleteCmd()
			case "n", "esc":
				m.confirmDelete = false
				m.editor.CancelDelete()
			}
		}
		return m, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			// Cancel: leave without saving.
			return m, m.closeEditor()
		case "ctrl+s":
			if m.pendingSave {
				return m, nil
			}
			return m, m.saveCmd()
		case "ctrl+f":
			m.editor.ToggleFavorite()
			return m, nil
		case "ctrl+d":
			if err := m.editor.RequestDelete(); err == nil {
				m.confirmDelete = true
			}
			return m, nil
		case "tab", "shift+tab":
			m.bodyFocused = !m.bodyFocused
			if m.bodyFocused {
				m.titleInput.Blur()
				return m, m.bodyArea.Focus()
			}
			m.bodyArea.Blur()
			return m, m.titleInput.Focus()
		}
	}

	var cmd tea.Cmd
	if m.bodyFocused {
		m.bodyArea, cmd = m.bodyArea.Update(msg)
	} else {
		m.titleInput, cmd = m.titleInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) editorView() string {
	ed := m.editor
	var b strings.Builder

	heading := "New Note"
	if ed.Mode() == view.ModeEdit {
		heading = "Edit Note"
	}
	label := ed.SaveLabel()
	if m.pendingSave {
		label = "Saving..."
	}
	b.WriteString(titleStyle.Render(heading) + "  " + star(ed.IsFavorite()) + "  " + accentStyle.Render("["+label+"]"))
	b.WriteString("\n\n")
	b.WriteString(m.titleInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.bodyArea.View())
	b.WriteString("\n\n")

	help := "ctrl+s save • ctrl+f favorite • tab switch field • esc cancel"
	if ed.CanDelete() {
		help += " • " + dangerStyle.Render("ctrl+d delete")
	}
	b.WriteString(helpStyle.Render(help))

	if m.confirmDelete {
		confirm := view.DeleteConfirmation()
		b.WriteString("\n" + dialogString(confirm.Title, confirm.Message, "y delete • n cancel"))
	}
	return b.String()
}
