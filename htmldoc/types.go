package htmldoc

import (
	"github.com/tsawler/tabmerge/model"
)

// ParsedTable represents a table extracted from HTML.
type ParsedTable struct {
	Rows      [][]TableCell
	HasHeader bool
}

// TableCell represents a cell in an HTML table.
type TableCell struct {
	Text     string
	IsHeader bool
	RowSpan  int
	ColSpan  int
}

// Grid lays the cells out on a rectangular grid. A cell spanning several
// rows or columns repeats its text in every slot it covers.
func (t *ParsedTable) Grid() [][]string {
	var grid [][]string
	// pending[col] counts rows still covered by a rowspan from above
	var pending []int
	var pendingText []string

	for r, row := range t.Rows {
		for len(grid) <= r {
			grid = append(grid, nil)
		}

		col := 0
		place := func(text string) {
			for len(grid[r]) <= col {
				grid[r] = append(grid[r], "")
			}
			grid[r][col] = text
		}
		fillCovered := func() {
			for col < len(pending) && pending[col] > 0 {
				place(pendingText[col])
				pending[col]--
				col++
			}
		}

		for _, cell := range row {
			fillCovered()
			span := max(cell.ColSpan, 1)
			for s := 0; s < span; s++ {
				place(cell.Text)
				if cell.RowSpan > 1 {
					for len(pending) <= col {
						pending = append(pending, 0)
						pendingText = append(pendingText, "")
					}
					pending[col] = cell.RowSpan - 1
					pendingText[col] = cell.Text
				}
				col++
			}
		}
		fillCovered()
	}

	return grid
}

// Table converts the parsed table to a normalized table. The first row is
// the header when the source marked it as one; otherwise columns are named
// Column_1..Column_n and every row is data.
func (t *ParsedTable) Table() *model.Table {
	grid := t.Grid()
	if len(grid) == 0 {
		return model.NewTable(nil)
	}

	width := 0
	for _, row := range grid {
		width = max(width, len(row))
	}

	var header []string
	data := grid
	if t.HasHeader {
		header = make([]string, width)
		copy(header, grid[0])
		data = grid[1:]
	} else {
		header = model.GenericColumns(width)
	}

	tbl := model.FromGrid(header, data)
	tbl.DropEmpty()
	return tbl
}
