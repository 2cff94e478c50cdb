package ui

import (
	"github.com/charmbracelet/bubbles/table"

	"amtconsole/internal/filter"
	"amtconsole/internal/model"
	"amtconsole/internal/util"
)

// stretchColumns are widened to take the remaining terminal width.
var stretchColumns = map[string]bool{"question": true, "answer": true}

// refreshFiltered rebuilds the current view's rows from its store, filter
// state, expression and sort.
func (m *Model) refreshFiltered() {
	v := m.view()
	rows, _, _ := v.store.Snapshot()
	v.filtered = filter.Apply(v.state, v.expr, rows)
	model.SortRows(v.filtered, v.sortKey, v.sortRev)
	v.dirty = false

	cols := m.visibleColumns()
	if v.selCol >= len(cols) {
		v.selCol = len(cols) - 1
	}
	if v.selCol < 0 {
		v.selCol = 0
	}
	out := make([]table.Row, 0, len(v.filtered))
	for _, r := range v.filtered {
		out = append(out, m.cells(r, cols))
	}
	// clear rows first: the table re-renders existing rows against new columns
	m.tbl.SetRows(nil)
	m.applyColumns(cols)
	m.tbl.SetRows(out)
	if n := len(out); n > 0 {
		if m.tbl.Cursor() < 0 {
			m.tbl.SetCursor(0)
		} else if m.tbl.Cursor() >= n {
			m.tbl.SetCursor(n - 1)
		}
	}
}

func (m *Model) cells(r model.Row, cols []string) table.Row {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		s, _ := r.Get(c)
		if c == "password" && !m.showPasswords {
			s = util.Mask(s)
		}
		row[i] = s
	}
	return row
}

// visibleColumns lists the keys of the current view's visible attributes.
func (m *Model) visibleColumns() []string {
	return m.view().state.Attributes().VisibleKeys()
}

func (m *Model) selectedColumn() (string, bool) {
	cols := m.visibleColumns()
	v := m.view()
	if v.selCol < 0 || v.selCol >= len(cols) {
		return "", false
	}
	return cols[v.selCol], true
}

func (m *Model) applyColumns(cols []string) {
	v := m.view()
	attrs := v.state.Attributes()
	widths := m.computeWidths(cols)
	cs := make([]table.Column, 0, len(cols))
	for i, c := range cols {
		label := attrs.Label(c)
		if c == v.sortKey {
			if v.sortRev {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		title := " " + label + " "
		if i == v.selCol {
			title = "«" + label + "»"
		}
		cs = append(cs, table.Column{Title: title, Width: widths[i]})
	}
	m.tbl.SetColumns(cs)
}

func (m *Model) computeWidths(cols []string) []int {
	if len(cols) == 0 {
		return nil
	}
	attrs := m.view().state.Attributes()
	base := make([]int, len(cols))
	sum := 0
	for i, c := range cols {
		w := columnWidth(c)
		if need := runeLen(attrs.Label(c)) + 4; w < need {
			w = need
		}
		base[i] = w
		sum += w
	}
	tableW := m.termWidth
	if tableW <= 0 {
		tableW = 120
	}
	// one cell of right padding per column
	avail := tableW - len(cols)
	if avail < 10 {
		avail = 10
	}
	extra := avail - sum
	if extra <= 0 {
		return base
	}
	targets := []int{}
	for i, c := range cols {
		if stretchColumns[c] {
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		targets = []int{len(cols) - 1}
	}
	share := extra / len(targets)
	for _, i := range targets {
		base[i] += share
	}
	base[targets[len(targets)-1]] += extra - share*len(targets)
	return base
}

// columnWidth is the preferred width of a column before stretching.
func columnWidth(c string) int {
	switch c {
	case "id":
		return 14
	case "type", "completed", "is_admin":
		return 10
	case "question", "answer":
		return 24
	case "password":
		return 12
	default:
		return 16
	}
}
