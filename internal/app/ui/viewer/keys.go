package viewer

import (
	"github.com/charmbracelet/bubbles/key"

	"logview/internal/app/ui/components"
)

// KeyMap defines the key bindings for the log viewer
type KeyMap struct {
	components.KeyMap
	Open        key.Binding
	Close       key.Binding
	Back        key.Binding
	Retry       key.Binding
	Search      key.Binding
	AutoRefresh key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	Submit      key.Binding
	Toggle      key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		KeyMap: components.DefaultKeyMap(),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "backspace"),
			key.WithHelp("b", "back"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		AutoRefresh: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "auto-refresh"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
	}
}

// helpKeys adapts a binding list to help.KeyMap
type helpKeys []key.Binding

// ShortHelp returns keybindings to be shown in the mini help view
func (h helpKeys) ShortHelp() []key.Binding {
	return h
}

// FullHelp returns keybindings for the expanded help view
func (h helpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{h}
}

func (k KeyMap) tableHelp() helpKeys {
	return helpKeys{k.Up, k.Down, k.Open, k.Search, k.AutoRefresh, k.Back, k.Retry, k.Quit}
}

func (k KeyMap) formHelp() helpKeys {
	return helpKeys{k.NextField, k.Submit, k.Toggle, k.Close}
}

func (k KeyMap) detailHelp() helpKeys {
	pivot := k.Open
	pivot.SetHelp("enter", "filter by value")

	return helpKeys{k.Up, k.Down, pivot, k.Close}
}

func (k KeyMap) errorHelp() helpKeys {
	retry := k.Retry
	retry.SetHelp("r", "retry")

	return helpKeys{retry, k.Back, k.Quit}
}
