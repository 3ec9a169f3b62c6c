package tables

import (
	"cmp"
	"slices"
	"strings"

	"github.com/tsawler/tabmerge/model"
)

// FillGrid assigns each fragment to the grid cell containing its centre
// and returns the cell texts, Rows x Cols, top row first. Fragments sharing
// a cell are joined with a space in reading order. Fragments outside the
// grid are ignored.
func FillGrid(g *Grid, fragments []model.TextFragment) [][]string {
	cells := make([][][]string, g.Rows)
	for i := range cells {
		cells[i] = make([][]string, g.Cols)
	}

	ordered := slices.Clone(fragments)
	slices.SortStableFunc(ordered, func(a, b model.TextFragment) int {
		// top to bottom, then left to right
		if c := cmp.Compare(b.BBox.Top(), a.BBox.Top()); c != 0 {
			return c
		}
		return cmp.Compare(a.BBox.Left(), b.BBox.Left())
	})

	for _, frag := range ordered {
		text := strings.TrimSpace(frag.Text)
		if text == "" {
			continue
		}
		row, col := findCell(frag.BBox.Center(), g)
		if row < 0 || col < 0 {
			continue
		}
		cells[row][col] = append(cells[row][col], text)
	}

	out := make([][]string, g.Rows)
	for i, row := range cells {
		out[i] = make([]string, g.Cols)
		for j, parts := range row {
			out[i][j] = strings.Join(parts, " ")
		}
	}
	return out
}

// findCell returns the row and column indices of the cell containing the given
// point, or -1 for both if the point is outside the grid.
func findCell(p model.Point, g *Grid) (row, col int) {
	row, col = -1, -1

	for i := 0; i < g.Rows; i++ {
		if p.Y <= g.HorizontalLines[i] && p.Y >= g.HorizontalLines[i+1] {
			row = i
			break
		}
	}
	for i := 0; i < g.Cols; i++ {
		if p.X >= g.VerticalLines[i] && p.X <= g.VerticalLines[i+1] {
			col = i
			break
		}
	}

	if row < 0 || col < 0 {
		return -1, -1
	}
	return row, col
}
