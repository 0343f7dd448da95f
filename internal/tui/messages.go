package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Polystyreeni/NoteOnline/client"
	"github.com/Polystyreeni/NoteOnline/internal/notify"
)

// changedMsg means the app state moved; the model re-reads it.
type changedMsg struct{}

type notificationMsg notify.Notification

// opDoneMsg ends an operation started from the UI.
type opDoneMsg struct {
	op  string
	err error
}

type openedMsg struct {
	note client.NoteDetail
	err  error
}

type savedMsg struct {
	note client.NoteDetail
	err  error
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func waitForNotification(ch <-chan notify.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg(n)
	}
}
