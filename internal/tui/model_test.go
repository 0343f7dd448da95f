package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Polystyreeni/NoteOnline/client"
	"github.com/Polystyreeni/NoteOnline/internal/app"
	"github.com/Polystyreeni/NoteOnline/internal/clock"
	"github.com/Polystyreeni/NoteOnline/internal/notify"
)

// gateway accepts one account and serves a fixed note list.
type gateway struct{}

var errNope = errors.New("nope")

func (gateway) CheckStatus(context.Context) (*client.Session, error) {
	s := client.Unregistered()
	return &s, nil
}

func (gateway) Login(_ context.Context, c client.Credentials) (*client.Session, error) {
	if c.Email != "tui@example.com" || c.Password != "pw" {
		return nil, errNope
	}
	return &client.Session{ID: 1, Email: c.Email, Role: client.RoleUser, Token: "t"}, nil
}

func (gateway) Register(context.Context, client.Registration) (*client.Session, error) {
	return nil, errNope
}

func (gateway) Logout(context.Context, string) error { return nil }

func (gateway) ListNotes(context.Context) ([]client.NoteSummary, error) {
	return []client.NoteSummary{{ID: 1, Header: "first", ModifiedAt: 1000}}, nil
}

func (gateway) GetNote(_ context.Context, id int64) (*client.NoteDetail, error) {
	return &client.NoteDetail{ID: id, Header: "first", Content: "body"}, nil
}

func (gateway) CreateNote(context.Context, string, client.NoteRequest) (*client.NoteDetail, error) {
	return nil, errNope
}

func (gateway) UpdateNote(context.Context, string, int64, client.NoteRequest) (*client.NoteDetail, error) {
	return nil, errNope
}

func (gateway) DeleteNote(context.Context, string, int64) error { return errNope }

func newTestModel(t *testing.T) Model {
	t.Helper()
	n := notify.New(notify.WithClock(clock.Fake(time.Now())))
	a := app.New(gateway{}, n, app.WithLogger(zerolog.Nop()))
	m := New(context.Background(), a, n)
	m = deliver(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	t.Cleanup(func() {
		m.Close()
		_ = a.Close()
		n.Close()
	})
	return m
}

func typeText(m Model, s string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

func deliver(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func login(t *testing.T, m Model) Model {
	t.Helper()
	m = typeText(m, "tui@example.com")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "pw")
	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	m = deliver(m, cmd())
	return deliver(m, changedMsg{})
}

func TestLoginMovesToList(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, screenLogin, m.screen)
	assert.Contains(t, m.View(), "Log in")

	m = login(t, m)
	assert.Equal(t, screenList, m.screen)
	assert.Contains(t, m.View(), "tui@example.com")
}

func TestRegisterShowsValidationInline(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, tea.KeyCtrlR)
	require.Equal(t, screenRegister, m.screen)

	m = typeText(m, "not-an-email")
	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	m = deliver(m, cmd())

	assert.Equal(t, "Please insert a valid email address", m.formErr)
	assert.Contains(t, m.View(), "Please insert a valid email address")
}

func TestNotificationIsShown(t *testing.T) {
	m := newTestModel(t)
	m = deliver(m, notificationMsg{Kind: notify.KindError, Message: "Failed to log in! Check your credentials."})
	assert.Contains(t, m.View(), "Failed to log in! Check your credentials.")
}

func TestEditorEmptySave(t *testing.T) {
	m := login(t, newTestModel(t))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = next.(Model)
	require.NotNil(t, cmd)
	m = deliver(m, cmd())
	require.Equal(t, screenEditor, m.screen)
	assert.Contains(t, m.View(), "New note")

	m, cmd = press(m, tea.KeyCtrlS)
	require.NotNil(t, cmd)
	m = deliver(m, cmd())
	assert.Equal(t, "Note header/content must not be empty!", m.editorErr)

	m, _ = press(m, tea.KeyEsc)
	assert.Equal(t, screenList, m.screen)
}

func TestOpenNoteLoadsEditor(t *testing.T) {
	m := login(t, newTestModel(t))
	require.NoError(t, m.app.ListNotes(context.Background()))
	m = deliver(m, changedMsg{})

	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	m = deliver(m, cmd())
	require.Equal(t, screenEditor, m.screen)
	assert.Equal(t, "first", m.header.Value())
	assert.Equal(t, "body", m.content.Value())
}
