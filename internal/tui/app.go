package tui

import (
	"context"
	"errors"

	"notesync/internal/pkg/logger"
	"notesync/internal/realtime"
	"notesync/internal/service"
	"notesync/internal/view"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenList screen = iota
	screenEditor
)

type (
	listChangedMsg struct{}
	mountedMsg     struct{ err error }
	saveDoneMsg    struct{ err error }
	deleteDoneMsg  struct{ err error }
)

// Model is the whole interactive app: a note list and an editor screen.
type Model struct {
	ctx    context.Context
	svc    service.INoteService
	lv     *view.ListView
	logger logger.ILogger

	screen        screen
	width, height int

	// list screen
	list      list.Model
	search    textinput.Model
	searching bool
	mountErr  error

	// editor screen
	editor        *view.Editor
	titleInput    textinput.Model
	bodyArea      textarea.Model
	bodyFocused   bool
	pendingSave   bool
	confirmDelete bool

	alert *view.Alert
}

func newModel(ctx context.Context, svc service.INoteService, lv *view.ListView, log logger.ILogger) *Model {
	l := list.New(nil, noteDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.SetStatusBarItemName("note", "notes")

	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorites")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return bindings }
	l.AdditionalFullHelpKeys = func() []key.Binding { return bindings }

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search notes..."
	search.CharLimit = 200

	return &Model{
		ctx:        ctx,
		svc:        svc,
		lv:         lv,
		logger:     log,
		list:       l,
		search:     search,
		titleInput: textinput.New(),
		bodyArea:   textarea.New(),
	}
}

// Run starts the TUI and blocks until the user quits. The list follows remote
// changes when feed is non-nil.
func Run(ctx context.Context, svc service.INoteService, feed realtime.ChangeFeed, topic realtime.Topic, log logger.ILogger) error {
	lv := view.NewListView(svc, feed, topic, log)
	m := newModel(ctx, svc, lv, log)

	p := newProgram(ctx, m, tea.WithAltScreen())

	_, err := p.Run()
	if uerr := lv.Unmount(); uerr != nil {
		log.Warn("TUI", "Failed to release change subscription", map[string]interface{}{"error": uerr.Error()})
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// newProgram binds m to a program. Send blocks until the event loop reads the
// message, and list changes made from Update happen on that loop, so change
// notifications are delivered from their own goroutine.
func newProgram(ctx context.Context, m *Model, opts ...tea.ProgramOption) *tea.Program {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(m, opts...)
	m.lv.OnChange(func() { go p.Send(listChangedMsg{}) })
	return p
}

func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		return mountedMsg{err: m.lv.Mount(m.ctx)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.alert != nil {
			m.alert = nil
			return m, nil
		}

	case mountedMsg:
		if msg.err != nil {
			m.mountErr = msg.err
			m.logger.Error("TUI", "Live updates unavailable", map[string]interface{}{"error": msg.err.Error()})
		}
		return m, m.syncList()

	case listChangedMsg:
		return m, m.syncList()

	case saveDoneMsg:
		m.pendingSave = false
		if msg.err != nil {
			if errors.Is(msg.err, view.ErrSaveInProgress) {
				return m, nil
			}
			alert := view.AlertFor(msg.err)
			m.alert = &alert
			return m, nil
		}
		return m, m.closeEditor()

	case deleteDoneMsg:
		if msg.err != nil {
			alert := view.AlertFor(msg.err)
			m.alert = &alert
			return m, nil
		}
		return m, m.closeEditor()
	}

	if m.screen == screenEditor {
		return m.updateEditor(msg)
	}
	return m.updateList(msg)
}

func (m *Model) View() string {
	var content string
	if m.screen == screenEditor {
		content = m.editorView()
	} else {
		content = m.listView()
	}

	if m.alert != nil {
		content += "\n" + dialogString(m.alert.Title, m.alert.Message, "press any key")
	}
	return panelString(content)
}

func (m *Model) resize() {
	w, h := m.width-4, m.height-6
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.list.SetSize(w, h)
	m.titleInput.Width = w - 4
	m.bodyArea.SetWidth(w)
	m.bodyArea.SetHeight(h - 6)
}

// refreshCmd reloads in the background; the resulting OnChange delivers a
// listChangedMsg.
func (m *Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		m.lv.Refresh(m.ctx)
		return nil
	}
}
