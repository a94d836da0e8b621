package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Copy       key.Binding
	Edit       key.Binding
	Sender     key.Binding
	Self       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Up:         key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "prev")),
	Down:       key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
	Copy:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "copy message")),
	Edit:       key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("C-o", "open in editor")),
	Sender:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "filter sender")),
	Self:       key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("C-t", "switch me")),
	ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
	ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
	Quit:       key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Copy, k.Edit, k.Sender, k.Self, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.ScrollUp, k.ScrollDown},
		{k.Copy, k.Edit, k.Sender, k.Self, k.Quit},
	}
}
