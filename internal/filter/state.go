// Package filter holds the table filter state: which attributes are active
// filter targets, the search text shared between them, and the row predicate
// built on top.
package filter

import (
	"amtconsole/internal/model"
)

// State is the filter dropdown state of one table. Treat it as a value: every
// change goes through Transition, which returns a new State.
type State struct {
	attrs  model.AttributeSet
	search map[string]string
	active []string
}

// New returns the page-load state: only "any" active, all search slots empty.
func New(attrs model.AttributeSet) State {
	s := State{
		attrs:  attrs.Clone(),
		search: map[string]string{model.AnyKey: ""},
		active: []string{model.AnyKey},
	}
	for _, a := range attrs {
		s.search[a.Key] = ""
	}
	return s
}

type EventKind int

const (
	EventToggle EventKind = iota
	EventSearch
	EventToggleColumn
)

type Event struct {
	Kind EventKind
	Key  string
	Text string
}

func Toggle(key string) Event       { return Event{Kind: EventToggle, Key: key} }
func Search(text string) Event      { return Event{Kind: EventSearch, Text: text} }
func ToggleColumn(key string) Event { return Event{Kind: EventToggleColumn, Key: key} }

// Transition applies ev to a copy of s.
func Transition(s State, ev Event) State {
	n := s.clone()
	switch ev.Kind {
	case EventToggle:
		n.toggle(ev.Key)
	case EventSearch:
		for _, k := range n.active {
			n.search[k] = ev.Text
		}
	case EventToggleColumn:
		if i := n.attrs.Index(ev.Key); i >= 0 {
			n.attrs[i].Visible = !n.attrs[i].Visible
		}
	}
	return n
}

func (s State) clone() State {
	n := State{
		attrs:  s.attrs.Clone(),
		search: make(map[string]string, len(s.search)),
		active: append([]string(nil), s.active...),
	}
	for k, v := range s.search {
		n.search[k] = v
	}
	return n
}

func (s *State) toggle(key string) {
	if key != model.AnyKey && s.attrs.Index(key) < 0 {
		return
	}
	if s.IsActive(key) {
		s.remove(key)
		s.search[key] = ""
		if len(s.active) == 0 {
			s.active = []string{model.AnyKey}
			s.search[model.AnyKey] = ""
		}
		return
	}
	text := s.Text()
	if key == model.AnyKey {
		for _, k := range s.active {
			s.search[k] = ""
		}
		s.active = []string{model.AnyKey}
		s.search[model.AnyKey] = text
		return
	}
	if s.IsActive(model.AnyKey) {
		s.remove(model.AnyKey)
		s.search[model.AnyKey] = ""
	}
	s.search[key] = text
	s.active = append(s.active, key)
}

func (s *State) remove(key string) {
	out := s.active[:0]
	for _, k := range s.active {
		if k != key {
			out = append(out, k)
		}
	}
	s.active = out
}

func (s State) IsActive(key string) bool {
	for _, k := range s.active {
		if k == key {
			return true
		}
	}
	return false
}

// Active returns the active keys in the order they were switched on.
func (s State) Active() []string { return append([]string(nil), s.active...) }

// AnyMode reports whether the "any" attribute is the active target.
func (s State) AnyMode() bool { return len(s.active) == 1 && s.active[0] == model.AnyKey }

// Text is the current search text. Active slots are kept identical, so the
// first one speaks for all.
func (s State) Text() string {
	if len(s.active) == 0 {
		return ""
	}
	return s.search[s.active[0]]
}

// SearchText returns the search slot of key.
func (s State) SearchText(key string) string { return s.search[key] }

func (s State) Attributes() model.AttributeSet { return s.attrs.Clone() }

// Label is the dropdown button caption.
func (s State) Label() string {
	switch len(s.active) {
	case 0:
		return s.attrs.Label(model.AnyKey)
	case 1:
		return s.attrs.Label(s.active[0])
	default:
		return s.attrs.Label(s.active[0]) + " +"
	}
}
