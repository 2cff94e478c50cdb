package model

import (
	"sort"
	"strings"
)

// SortRows orders rows in place by key, case-insensitively. The sort is stable
// so rows with equal keys keep their load order. Rows lacking the key sort
// first (last when reversed).
func SortRows(rows []Row, key string, reverse bool) {
	if key == "" {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := rows[i].Get(key)
		b, bok := rows[j].Get(key)
		var less bool
		switch {
		case !aok && !bok:
			return false
		case !aok:
			less = true
		case !bok:
			less = false
		default:
			la, lb := strings.ToLower(a), strings.ToLower(b)
			if la == lb {
				return false
			}
			less = la < lb
		}
		if reverse {
			return !less
		}
		return less
	})
}

func sortStrings(s []string) { sort.Strings(s) }
