package ocr

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/tsawler/tabmerge/model"
)

// DefaultRowRatio is the row-break threshold as a fraction of the mean
// token height.
const DefaultRowRatio = 0.5

// Token is one recognized word with its confidence (0-100) and pixel box.
type Token struct {
	Text       string
	Confidence float64
	Left       float64
	Top        float64
	Width      float64
	Height     float64
}

// Reconstruct clusters tokens into rows by vertical position and returns
// them as a table.
//
// Tokens with non-positive confidence or blank text are ignored. A new row
// starts whenever the vertical gap to the previous token (in top, left
// order) exceeds rowRatio times the mean token height. Cells in a row are
// ordered left to right and short rows are padded. The first row is the
// header unless every cell in it is numeric.
func Reconstruct(tokens []Token, rowRatio float64) (*model.Table, error) {
	if rowRatio <= 0 {
		rowRatio = DefaultRowRatio
	}

	kept := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Confidence <= 0 || strings.TrimSpace(tok.Text) == "" {
			continue
		}
		kept = append(kept, tok)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: no text detected", model.ErrNoTabularData)
	}

	slices.SortStableFunc(kept, func(a, b Token) int {
		if c := cmp.Compare(a.Top, b.Top); c != 0 {
			return c
		}
		return cmp.Compare(a.Left, b.Left)
	})

	var sum float64
	for _, tok := range kept {
		sum += tok.Height
	}
	threshold := sum / float64(len(kept)) * rowRatio

	rows := cellRows(groupRows(kept, threshold))
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows detected", model.ErrNoTabularData)
	}

	var t *model.Table
	if hasTextCell(rows[0]) {
		t = model.FromGrid(rows[0], rows[1:])
	} else {
		t = model.FromGrid(model.GenericColumns(len(rows[0])), rows)
	}

	t.DropEmpty()
	if t.Empty() || t.ColCount() == 0 {
		return nil, fmt.Errorf("%w: table empty after cleaning", model.ErrNoTabularData)
	}
	return t, nil
}

// groupRows splits tokens (sorted by top) wherever consecutive tops differ
// by more than threshold.
func groupRows(tokens []Token, threshold float64) [][]Token {
	var groups [][]Token
	for i, tok := range tokens {
		if i == 0 || tok.Top-tokens[i-1].Top > threshold {
			groups = append(groups, nil)
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], tok)
	}
	return groups
}

// cellRows orders each group left to right and pads all rows to the widest.
func cellRows(groups [][]Token) [][]string {
	width := 0
	for _, g := range groups {
		width = max(width, len(g))
	}

	rows := make([][]string, len(groups))
	for i, g := range groups {
		slices.SortStableFunc(g, func(a, b Token) int { return cmp.Compare(a.Left, b.Left) })
		row := make([]string, width)
		for j, tok := range g {
			row[j] = strings.TrimSpace(tok.Text)
		}
		rows[i] = row
	}
	return rows
}

// hasTextCell reports whether any cell is not a plain number. Dots are
// ignored, so "3.14" and "1.2.3" are numeric; blanks and signs are not.
func hasTextCell(row []string) bool {
	for _, c := range row {
		if !isNumeric(c) {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	s = strings.ReplaceAll(s, ".", "")
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
