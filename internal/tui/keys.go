package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard shortcuts outside text inputs
type keyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Refresh     key.Binding
	Search      key.Binding
	Logout      key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	Up          key.Binding
	Down        key.Binding
	Approve     key.Binding
	Reject      key.Binding
	Delete      key.Binding
	NewChat     key.Binding
	NextChat    key.Binding
	Compose     key.Binding
	Submit      key.Binding
	Cancel      key.Binding
	SwitchFocus key.Binding
}

var keys = keyMap{
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Logout:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "logout")),
	NextPage:    key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next page")),
	PrevPage:    key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "previous page")),
	Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑", "up")),
	Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓", "down")),
	Approve:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "approve")),
	Reject:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reject")),
	Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	NewChat:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new conversation")),
	NextChat:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next conversation")),
	Compose:     key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i", "write")),
	Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	SwitchFocus: key.NewBinding(key.WithKeys("tab", "shift+tab", "up", "down"), key.WithHelp("tab", "next field")),
}
