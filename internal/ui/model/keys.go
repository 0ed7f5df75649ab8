package model

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap 棋盘界面的按键
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Flip    key.Binding
	Focus   key.Binding
	Plus    key.Binding
	Minus   key.Binding
	Target  key.Binding
	Skip    key.Binding
	Confirm key.Binding
	Reset   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Flip:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "flip")),
		Focus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select player")),
		Plus:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "add point")),
		Minus:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "remove point")),
		Target:  key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "choose target")),
		Skip:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip timer")),
		Confirm: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "confirm last card")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Flip, k.Focus, k.Plus, k.Minus, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Flip, k.Focus, k.Plus, k.Minus},
		{k.Target, k.Skip, k.Confirm},
		{k.Reset, k.Help, k.Quit},
	}
}
