package model

import (
	"fmt"
	"strings"
)

// GenericColumns returns Column_1 .. Column_n.
func GenericColumns(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = fmt.Sprintf("Column_%d", i+1)
	}
	return cols
}

// NormalizeHeader trims header names, names blank entries Column_<n>
// (1-based position) and makes repeated names unique by appending .1, .2, ...
func NormalizeHeader(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]bool, len(names))

	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Column_%d", i+1)
		}
		out[i] = name
	}

	for i, name := range out {
		if !seen[name] {
			seen[name] = true
			continue
		}
		for n := 1; ; n++ {
			candidate := fmt.Sprintf("%s.%d", name, n)
			if !seen[candidate] && !contains(out[i+1:], candidate) {
				out[i] = candidate
				seen[candidate] = true
				break
			}
		}
	}

	return out
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
