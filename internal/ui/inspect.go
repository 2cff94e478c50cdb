package ui

import (
	"strings"

	"amtconsole/internal/model"
	"amtconsole/internal/util"
)

// renderRow lays out one row as aligned "Label  value" lines. Columns of the
// attribute set come first in their order, then any extra keys. Long values
// wrap under the value column.
func renderRow(r model.Row, attrs model.AttributeSet, st Styles, width int, showPasswords bool) string {
	keys := attrs.ColumnOrder([]model.Row{r})
	labelW := 0
	for _, k := range keys {
		if n := runeLen(attrs.Label(k)); n > labelW {
			labelW = n
		}
	}
	valW := width - labelW - 2
	if valW < 10 {
		valW = 10
	}
	var b strings.Builder
	for i, k := range keys {
		v, ok := r.Get(k)
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(st.Key.Render(padRight(attrs.Label(k), labelW)))
		b.WriteString("  ")
		switch {
		case !ok:
			b.WriteString(st.Muted.Render("(absent)"))
			continue
		case v == "":
			b.WriteString(st.Muted.Render(`""`))
			continue
		case k == "password" && !showPasswords:
			v = util.Mask(v)
		}
		for j, part := range wrapRunes(v, valW) {
			if j > 0 {
				b.WriteString("\n" + strings.Repeat(" ", labelW+2))
			}
			b.WriteString(st.Value.Render(part))
		}
	}
	return b.String()
}

func wrapRunes(s string, w int) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		rs := []rune(line)
		for len(rs) > w {
			out = append(out, string(rs[:w]))
			rs = rs[w:]
		}
		out = append(out, string(rs))
	}
	return out
}
