package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/Polystyreeni/NoteOnline/internal/notify"
	"github.com/Polystyreeni/NoteOnline/internal/store"
	"github.com/Polystyreeni/NoteOnline/internal/validate"
)

// View implements tea.Model.
func (m Model) View() string {
	var body string
	switch m.screen {
	case screenLogin, screenRegister:
		body = m.formView()
	case screenList:
		body = m.list.View() + "\n" + m.help.ShortHelpView(m.keys.listHelp())
	case screenEditor:
		body = m.editorView()
	}
	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, m.statusLine(), body, m.noticeLine()))
}

func (m Model) statusLine() string {
	s := m.app.Session()
	who := "not logged in"
	if s.Authenticated() {
		who = fmt.Sprintf("%s (%s)", s.Email, s.Role)
	}
	line := titleStyle.Render("NoteOnline") + "  " + statusStyle.Render(who)
	if m.app.Activity() == store.StateLoading {
		line += "  " + m.spinner.View()
	}
	return line + "\n"
}

func (m Model) noticeLine() string {
	switch m.notice.Kind {
	case notify.KindSuccess:
		return "\n" + successStyle.Render(m.notice.Message)
	case notify.KindError:
		return "\n" + errorStyle.Render(m.notice.Message)
	default:
		if m.notice.Message != "" {
			return "\n" + m.notice.Message
		}
		return ""
	}
}

func (m Model) formView() string {
	var b strings.Builder
	title := "Log in"
	if m.screen == screenRegister {
		title = "Create an account"
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")
	labels := []string{"Email", "Password", "Repeat password"}
	for i := 0; i < m.visibleFields(); i++ {
		b.WriteString(labelStyle.Render(labels[i]) + "\n")
		b.WriteString(m.inputs[i].View() + "\n\n")
	}
	if m.formErr != "" {
		b.WriteString(fieldErr.Render(m.formErr) + "\n\n")
	}
	b.WriteString(m.help.ShortHelpView(m.keys.formHelp()))
	return b.String()
}

func (m Model) editorView() string {
	var b strings.Builder
	title := "Edit note"
	if n, ok := m.app.ActiveNote(); !ok || n.IsNew() {
		title = "New note"
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(m.header.View() + "\n")
	b.WriteString(counterStyle.Render(fmt.Sprintf("%d/%d", utf8.RuneCountInString(m.header.Value()), validate.MaxHeaderLength)) + "\n\n")
	b.WriteString(m.content.View() + "\n")
	b.WriteString(counterStyle.Render(fmt.Sprintf("%d/%d", utf8.RuneCountInString(m.content.Value()), validate.MaxContentLength)) + "\n")
	if m.editorErr != "" {
		b.WriteString(fieldErr.Render(m.editorErr) + "\n")
	}
	b.WriteString("\n" + m.help.ShortHelpView(m.keys.editorHelp()))
	return b.String()
}
