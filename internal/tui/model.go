// Package tui is the terminal front end: a login and registration form, the
// note list and a note editor. All state lives in app.App; the model only
// mirrors it and turns keys into app calls.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Polystyreeni/NoteOnline/client"
	"github.com/Polystyreeni/NoteOnline/internal/app"
	"github.com/Polystyreeni/NoteOnline/internal/notify"
	"github.com/Polystyreeni/NoteOnline/internal/render"
	"github.com/Polystyreeni/NoteOnline/internal/validate"
)

type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenList
	screenEditor
)

const (
	fieldEmail = iota
	fieldPassword
	fieldRepeat
)

type noteItem struct{ note client.NoteSummary }

func (i noteItem) Title() string       { return i.note.Header }
func (i noteItem) Description() string { return "Modified " + render.Timestamp(i.note.ModifiedAt) }
func (i noteItem) FilterValue() string { return i.note.Header }

// Model is the bubbletea model.
type Model struct {
	ctx      context.Context
	app      *app.App
	notifier *notify.Notifier

	changes <-chan struct{}
	notices <-chan notify.Notification
	stop    []func()

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	screen  screen
	inputs  []textinput.Model
	focus   int
	formErr string

	list list.Model

	header      textinput.Model
	content     textarea.Model
	editorFocus int
	editorErr   string

	notice notify.Notification
	width  int
	height int
}

// New returns a model subscribed to a's changes and n's notifications. Call
// Close when the program has exited.
func New(ctx context.Context, a *app.App, n *notify.Notifier) Model {
	changes, stopChanges := a.Changes()
	notices, stopNotices := n.Subscribe()

	inputs := make([]textinput.Model, 3)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = validate.MaxPasswordLength
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[fieldEmail].Placeholder = "email"
	inputs[fieldEmail].CharLimit = 254
	inputs[fieldPassword].Placeholder = "password"
	inputs[fieldRepeat].Placeholder = "repeat password"
	for _, i := range []int{fieldPassword, fieldRepeat} {
		inputs[i].EchoMode = textinput.EchoPassword
		inputs[i].EchoCharacter = '•'
	}
	inputs[fieldEmail].Focus()

	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Notes"
	l.Styles.Title = titleStyle
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	header := textinput.New()
	header.Placeholder = "header"
	header.CharLimit = validate.MaxHeaderLength
	header.Width = 60

	content := textarea.New()
	content.Placeholder = "Write…"
	content.CharLimit = validate.MaxContentLength
	content.ShowLineNumbers = false
	content.SetWidth(72)
	content.SetHeight(12)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		app:      a,
		notifier: n,
		changes:  changes,
		notices:  notices,
		stop:     []func(){stopChanges, stopNotices},
		keys:     newKeyMap(),
		help:     help.New(),
		spinner:  sp,
		screen:   screenLogin,
		inputs:   inputs,
		list:     l,
		header:   header,
		content:  content,
		notice:   n.Current(),
	}
}

// Close drops the subscriptions.
func (m Model) Close() {
	for _, f := range m.stop {
		f()
	}
}

// Init checks whether the session cookie is still valid and starts listening.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForChange(m.changes),
		waitForNotification(m.notices),
		m.op("status", func(ctx context.Context) error {
			_, err := m.app.CheckStatus(ctx)
			return err
		}),
	)
}

func (m Model) op(name string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: name, err: fn(m.ctx)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h, v := appStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
		m.content.SetWidth(msg.Width - h)
		m.content.SetHeight(max(msg.Height-v-10, 3))
		m.help.Width = msg.Width - h
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case changedMsg:
		next, cmd := m.sync()
		return next, tea.Batch(cmd, waitForChange(next.changes))

	case notificationMsg:
		m.notice = notify.Notification(msg)
		return m, waitForNotification(m.notices)

	case opDoneMsg:
		return m.opDone(msg)

	case openedMsg:
		if msg.err == nil {
			m.loadEditor(msg.note)
		}
		return m, nil

	case savedMsg:
		var verr *app.ValidationError
		if errors.As(msg.err, &verr) {
			m.editorErr = verr.Message
		} else if msg.err == nil {
			m.editorErr = ""
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		switch m.screen {
		case screenLogin, screenRegister:
			return m.updateForm(msg)
		case screenList:
			return m.updateList(msg)
		case screenEditor:
			return m.updateEditor(msg)
		}
	}
	return m, nil
}

// sync mirrors the app state and moves between the logged-in and logged-out
// screens.
func (m Model) sync() (Model, tea.Cmd) {
	items := make([]list.Item, 0)
	for _, n := range m.app.Notes() {
		items = append(items, noteItem{note: n})
	}
	cmds := []tea.Cmd{m.list.SetItems(items)}

	authed := m.app.Session().Authenticated()
	switch {
	case authed && (m.screen == screenLogin || m.screen == screenRegister):
		m.screen = screenList
		m.resetForm()
		cmds = append(cmds, m.op("list", m.app.EnsureNotes))
	case !authed && (m.screen == screenList || m.screen == screenEditor):
		m.screen = screenLogin
		m.resetForm()
	}
	return m, tea.Batch(cmds...)
}

func (m Model) opDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	var verr *app.ValidationError
	switch {
	case errors.As(msg.err, &verr):
		m.formErr = verr.Message
	case msg.op == "register" && msg.err == nil:
		m.screen = screenLogin
		m.inputs[fieldRepeat].SetValue("")
		m.formErr = ""
	case msg.err == nil:
		m.formErr = ""
	}
	return m, nil
}

func (m *Model) resetForm() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = fieldEmail
	m.inputs[fieldEmail].Focus()
	m.formErr = ""
}

func (m Model) visibleFields() int {
	if m.screen == screenRegister {
		return 3
	}
	return 2
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleForm):
		if m.screen == screenLogin {
			m.screen = screenRegister
		} else {
			m.screen = screenLogin
		}
		if m.focus >= m.visibleFields() {
			m.inputs[m.focus].Blur()
			m.focus = fieldEmail
			m.inputs[m.focus].Focus()
		}
		m.formErr = ""
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.inputs[m.focus].Blur()
		step := 1
		if msg.String() == "shift+tab" {
			step = m.visibleFields() - 1
		}
		m.focus = (m.focus + step) % m.visibleFields()
		return m, m.inputs[m.focus].Focus()

	case key.Matches(msg, m.keys.Submit):
		email := m.inputs[fieldEmail].Value()
		password := m.inputs[fieldPassword].Value()
		if m.screen == screenLogin {
			return m, m.op("login", func(ctx context.Context) error {
				_, err := m.app.Login(ctx, client.Credentials{Email: email, Password: password})
				return err
			})
		}
		reg := client.Registration{Email: email, Password: password, PasswordRepeat: m.inputs[fieldRepeat].Value()}
		return m, m.op("register", func(ctx context.Context) error {
			_, err := m.app.Register(ctx, reg)
			return err
		})
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) selected() (client.NoteSummary, bool) {
	it, ok := m.list.SelectedItem().(noteItem)
	return it.note, ok
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		n, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			detail, err := m.app.OpenNote(m.ctx, n.ID)
			return openedMsg{note: detail, err: err}
		}

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg {
			if err := m.app.NewNote(m.ctx); err != nil {
				return openedMsg{err: err}
			}
			return openedMsg{note: client.NewNote()}
		}

	case key.Matches(msg, m.keys.Delete):
		n, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.op("delete", func(ctx context.Context) error { return m.app.DeleteNote(ctx, n.ID) })

	case key.Matches(msg, m.keys.Refresh):
		return m, m.op("list", m.app.ListNotes)

	case key.Matches(msg, m.keys.Logout):
		return m, m.op("logout", m.app.Logout)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) loadEditor(n client.NoteDetail) {
	m.screen = screenEditor
	m.header.SetValue(n.Header)
	m.content.SetValue(n.Content)
	m.editorErr = ""
	m.editorFocus = 0
	m.content.Blur()
	m.header.Focus()
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		header, content := m.header.Value(), m.content.Value()
		return m, func() tea.Msg {
			n, err := m.app.SaveNote(m.ctx, header, content)
			return savedMsg{note: n, err: err}
		}

	case key.Matches(msg, m.keys.Back):
		m.screen = screenList
		m.header.Blur()
		m.content.Blur()
		return m, m.op("close", m.app.ClearActiveNote)

	case key.Matches(msg, m.keys.NextField):
		m.editorFocus = 1 - m.editorFocus
		if m.editorFocus == 0 {
			m.content.Blur()
			return m, m.header.Focus()
		}
		m.header.Blur()
		return m, m.content.Focus()
	}

	var cmd tea.Cmd
	if m.editorFocus == 0 {
		m.header, cmd = m.header.Update(msg)
	} else {
		m.content, cmd = m.content.Update(msg)
	}
	return m, cmd
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, a *app.App, n *notify.Notifier) error {
	m := New(ctx, a, n)
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
