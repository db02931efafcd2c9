package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Folder key.Binding
	Audio  key.Binding
	Edit   key.Binding
	Mode   key.Binding
	Start  key.Binding
	Panic  key.Binding
	Quit   key.Binding
	Help   key.Binding
	Yes    key.Binding
	No     key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Panic, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Panic, k.Quit, k.Help},
		{k.Folder, k.Audio, k.Edit, k.Mode},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Folder: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "video folder"),
		),
		Audio: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "alarm sound"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit settings"),
		),
		Mode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "toggle hide mode"),
		),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Panic: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "panic! stop"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}
