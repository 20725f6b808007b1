package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/colonyops/clarity/internal/tui/components"
)

type keyMap struct {
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Follow   key.Binding
	Source   key.Binding
	Browser  key.Binding
	Retry    key.Binding
	Help     key.Binding
	Close    key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous level")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next level")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous sentence")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next sentence")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "scroll up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "scroll down")),
		Follow:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "follow sentence")),
		Source:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "source")),
		Browser:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "open in browser")),
		Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Follow, k.Source, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Follow, k.Source, k.Browser, k.Retry, k.Help, k.Close, k.Quit},
	}
}

// helpSections lists the bindings for the help dialog, including the mouse.
func (k keyMap) helpSections() []components.HelpDialogSection {
	entry := func(b key.Binding) components.HelpEntry {
		return components.HelpEntry{Key: b.Help().Key, Desc: b.Help().Desc}
	}

	return []components.HelpDialogSection{
		{
			Title: "Navigation",
			Entries: []components.HelpEntry{
				entry(k.Left), entry(k.Right), entry(k.Up), entry(k.Down),
				entry(k.PageUp), entry(k.PageDown),
			},
		},
		{
			Title: "Mouse",
			Entries: []components.HelpEntry{
				{Key: "hover", Desc: "find the matching detail"},
				{Key: "click", Desc: "follow the sentence"},
				{Key: "wheel", Desc: "scroll a card"},
				{Key: "click strip", Desc: "reveal a collapsed level"},
			},
		},
		{
			Title: "General",
			Entries: []components.HelpEntry{
				entry(k.Follow), entry(k.Source), entry(k.Browser), entry(k.Retry), entry(k.Help), entry(k.Quit),
			},
		},
	}
}
