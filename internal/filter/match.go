package filter

import (
	"strings"

	"amtconsole/internal/model"
)

// Matches reports whether row passes the filter. In "any" mode only the
// visible columns are searched; a named filter searches its keys whether or
// not the column is shown. A field the row does not carry never matches.
func (s State) Matches(row model.Row) bool {
	if s.AnyMode() {
		needle := strings.ToLower(s.search[model.AnyKey])
		for _, a := range s.attrs {
			if !a.Visible {
				continue
			}
			if containsFold(row, a.Key, needle) {
				return true
			}
		}
		return false
	}
	for _, k := range s.active {
		if containsFold(row, k, strings.ToLower(s.search[k])) {
			return true
		}
	}
	return false
}

func containsFold(row model.Row, key, lowerNeedle string) bool {
	v, ok := row.Get(key)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(v), lowerNeedle)
}

// Apply returns the rows passing both the state and the optional expression.
func Apply(s State, expr *Expr, rows []model.Row) []model.Row {
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		if !s.Matches(r) {
			continue
		}
		if expr != nil && !expr.Match(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}
