package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding of the planner UI. Which ones are active depends on the screen.
type KeyMap struct {
	Next          key.Binding
	Prev          key.Binding
	Submit        key.Binding
	Cheaper       key.Binding
	Checklist     key.Binding
	KidFriendly   key.Binding
	ShowChecklist key.Binding
	Export        key.Binding
	NewBrief      key.Binding
	Up            key.Binding
	Down          key.Binding
	Toggle        key.Binding
	Back          key.Binding
	Quit          key.Binding
	ForceQuit     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("S-tab/↑", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "generate plan"),
		),
		Cheaper: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cheaper"),
		),
		Checklist: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "make checklist"),
		),
		KidFriendly: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "kid-friendly"),
		),
		ShowChecklist: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "show checklist"),
		),
		Export: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		NewBrief: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new brief"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space", "x"),
			key.WithHelp("space/x", "toggle"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "t"),
			key.WithHelp("esc", "back to plan"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

func (k KeyMap) formHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.ForceQuit}
}

func (k KeyMap) planHelp() []key.Binding {
	return []key.Binding{k.Cheaper, k.Checklist, k.KidFriendly, k.ShowChecklist, k.Export, k.NewBrief, k.Quit}
}

func (k KeyMap) checklistHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Back, k.Quit}
}
