package model

// AnyKey is the synthetic attribute that matches against every visible column.
const AnyKey = "any"

const anyLabel = "Any"

type Attribute struct {
	Key     string
	Label   string
	Visible bool
}

// AttributeSet is the fixed, ordered list of filterable columns of a table.
type AttributeSet []Attribute

// HITAttributes lists the HIT table columns; template, image source and
// completion start hidden.
func HITAttributes() AttributeSet {
	return AttributeSet{
		{Key: "id", Label: "ID", Visible: true},
		{Key: "type", Label: "Type", Visible: true},
		{Key: "question", Label: "Question", Visible: true},
		{Key: "answer", Label: "Answer", Visible: true},
		{Key: "template", Label: "Template"},
		{Key: "img_src", Label: "Image Source"},
		{Key: "completed", Label: "Completed"},
	}
}

func UserAttributes() AttributeSet {
	return AttributeSet{
		{Key: "id", Label: "Username", Visible: true},
		{Key: "password", Label: "Password", Visible: true},
		{Key: "is_admin", Label: "Admin", Visible: true},
	}
}

func (s AttributeSet) Keys() []string {
	out := make([]string, len(s))
	for i, a := range s {
		out[i] = a.Key
	}
	return out
}

func (s AttributeSet) Index(key string) int {
	for i, a := range s {
		if a.Key == key {
			return i
		}
	}
	return -1
}

// Label returns the human label for key, "Any" for AnyKey, or the key itself
// when the set does not know it.
func (s AttributeSet) Label(key string) string {
	if key == AnyKey {
		return anyLabel
	}
	if i := s.Index(key); i >= 0 {
		return s[i].Label
	}
	return key
}

// VisibleKeys returns the keys currently shown as columns, in set order.
func (s AttributeSet) VisibleKeys() []string {
	out := make([]string, 0, len(s))
	for _, a := range s {
		if a.Visible {
			out = append(out, a.Key)
		}
	}
	return out
}

func (s AttributeSet) Clone() AttributeSet {
	out := make(AttributeSet, len(s))
	copy(out, s)
	return out
}

// ColumnOrder puts the set's keys first and any extra keys seen in rows after
// them, sorted.
func (s AttributeSet) ColumnOrder(rows []Row) []string {
	cols := s.Keys()
	known := map[string]bool{}
	for _, k := range cols {
		known[k] = true
	}
	extra := map[string]bool{}
	for _, r := range rows {
		for k := range r {
			if !known[k] {
				extra[k] = true
			}
		}
	}
	if len(extra) == 0 {
		return cols
	}
	more := make([]string, 0, len(extra))
	for k := range extra {
		more = append(more, k)
	}
	sortStrings(more)
	return append(cols, more...)
}
