package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	NextField  key.Binding
	Submit     key.Binding
	ToggleForm key.Binding
	Open       key.Binding
	New        key.Binding
	Delete     key.Binding
	Refresh    key.Binding
	Logout     key.Binding
	Save       key.Binding
	Back       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		NextField:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		ToggleForm: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "login/register")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new note")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Logout:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.ToggleForm, k.Quit}
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Open, k.New, k.Delete, k.Refresh, k.Logout, k.Quit}
}

func (k keyMap) editorHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Save, k.Back, k.Quit}
}
