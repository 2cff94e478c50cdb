package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type KeyMap struct {
	SwitchView  tea.Key
	Search      tea.Key
	Filter      tea.Key
	Columns     tea.Key
	Sort        tea.Key
	Expr        tea.Key
	ClearFilter tea.Key
	Export      tea.Key
	Download    tea.Key
	CopyLink    tea.Key
	Add         tea.Key
	Edit        tea.Key
	Delete      tea.Key
	Passwords   tea.Key
	Reload      tea.Key
	Inspect     tea.Key
	AppLogs     tea.Key
	Top         tea.Key
	Bottom      tea.Key
	Help        tea.Key
	Quit        tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		SwitchView:  tea.Key{Type: tea.KeyTab},
		Search:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		Filter:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'f'}},
		Columns:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'c'}},
		Sort:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'s'}},
		Expr:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'x'}},
		ClearFilter: tea.Key{Type: tea.KeyRunes, Runes: []rune{'F'}},
		Export:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'e'}},
		Download:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'D'}},
		CopyLink:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'C'}},
		Add:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'a'}},
		Edit:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'u'}},
		Delete:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'d'}},
		Passwords:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'p'}},
		Reload:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'r'}},
		Inspect:     tea.Key{Type: tea.KeyEnter},
		AppLogs:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		Top:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'g'}},
		Bottom:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'G'}},
		Help:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'?'}},
		Quit:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}

// binding adapts a key for the short help line in the status bar.
func binding(k tea.Key, desc string) key.Binding {
	l := keyLabel(k)
	return key.NewBinding(key.WithKeys(l), key.WithHelp(l, desc))
}

func (m *Model) shortHelp() []key.Binding {
	km := m.keymap
	b := []key.Binding{binding(km.Help, "help"), binding(km.SwitchView, "switch")}
	if m.cur == viewHITs {
		b = append(b, binding(km.Export, "export"))
		if m.exportReady {
			b = append(b, binding(km.Download, "download"))
		}
	} else {
		b = append(b, binding(km.Add, "add"), binding(km.Edit, "edit"), binding(km.Delete, "delete"))
	}
	return append(b, binding(km.Quit, "quit"))
}
