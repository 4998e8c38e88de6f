package tui

import "charm.land/bubbles/v2/key"

// keyMap lists the bindings of the diff view. It backs both dispatch and the
// help modal.
type keyMap struct {
	Down        key.Binding
	Up          key.Binding
	HalfDown    key.Binding
	HalfUp      key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Left        key.Binding
	Right       key.Binding
	NextHunk    key.Binding
	PrevHunk    key.Binding
	NextFile    key.Binding
	PrevFile    key.Binding
	Picker      key.Binding
	Focus       key.Binding
	Sidebar     key.Binding
	OldOnly     key.Binding
	NewOnly     key.Binding
	BothSides   key.Binding
	Viewed      key.Binding
	Yank        key.Binding
	Edit        key.Binding
	Reload      key.Binding
	Annotate    key.Binding
	Annotations key.Binding
	Search      key.Binding
	NextMatch   key.Binding
	PrevMatch   key.Binding
	Clear       key.Binding
	PrevCommit  key.Binding
	NextCommit  key.Binding
	Activate    key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "scroll down")),
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "scroll up")),
		HalfDown:    key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("ctrl+d", "half page down")),
		HalfUp:      key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("ctrl+u", "half page up")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("gg", "top")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Left:        key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "scroll left")),
		Right:       key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "scroll right")),
		NextHunk:    key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "next hunk")),
		PrevHunk:    key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "previous hunk")),
		NextFile:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next file")),
		PrevFile:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous file")),
		Picker:      key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "find file")),
		Focus:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		Sidebar:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "toggle sidebar")),
		OldOnly:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "old side only")),
		NewOnly:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "new side only")),
		BothSides:   key.NewBinding(key.WithKeys("="), key.WithHelp("=", "both sides")),
		Viewed:      key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "toggle viewed")),
		Yank:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy selection")),
		Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "open in editor")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Annotate:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "annotate hunk")),
		Annotations: key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "list annotations")),
		Search:      key.NewBinding(key.WithKeys("/", "ctrl+f"), key.WithHelp("/", "search")),
		NextMatch:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
		PrevMatch:   key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "previous match")),
		Clear:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection/search")),
		PrevCommit:  key.NewBinding(key.WithKeys("ctrl+h"), key.WithHelp("ctrl+h", "previous commit")),
		NextCommit:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "next commit")),
		Activate:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open file/folder")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextHunk, k.Viewed, k.Annotate, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.HalfDown, k.HalfUp, k.Top, k.Bottom, k.Left, k.Right},
		{k.NextHunk, k.PrevHunk, k.NextFile, k.PrevFile, k.Picker, k.Focus, k.Sidebar, k.OldOnly, k.NewOnly, k.BothSides},
		{k.Viewed, k.Yank, k.Edit, k.Reload, k.Annotate, k.Annotations, k.Activate},
		{k.Search, k.NextMatch, k.PrevMatch, k.Clear, k.PrevCommit, k.NextCommit, k.Help, k.Quit},
	}
}
