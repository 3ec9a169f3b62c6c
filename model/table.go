package model

import (
	"fmt"
	"strings"
)

// Table is a normalized table: ordered unique column names and rows of cells.
// Every row holds exactly len(Columns) cells; "" marks a missing value.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates an empty table with the given columns.
// The column names are used as-is; callers normalize them first.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{
		Columns: cols,
		Rows:    make([][]string, 0),
	}
}

// FromGrid builds a table from a header row and data rows. The header is
// normalized and every data row is padded or truncated to the header width.
func FromGrid(header []string, rows [][]string) *Table {
	t := NewTable(NormalizeHeader(header))
	for _, row := range rows {
		t.AppendRow(row)
	}
	return t
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns
func (t *Table) ColCount() int {
	return len(t.Columns)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// AppendRow adds a row, padding short rows with missing cells and
// dropping cells beyond the last column.
func (t *Table) AppendRow(cells []string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of the named column.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found", name)
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// DropEmpty removes rows whose cells are all missing, then columns whose
// cells are all missing. Whitespace-only cells count as missing.
func (t *Table) DropEmpty() {
	rows := t.Rows[:0]
	for _, row := range t.Rows {
		if !allBlank(row) {
			rows = append(rows, row)
		}
	}
	t.Rows = rows

	keep := make([]int, 0, len(t.Columns))
	for j := range t.Columns {
		for _, row := range t.Rows {
			if strings.TrimSpace(row[j]) != "" {
				keep = append(keep, j)
				break
			}
		}
	}
	if len(keep) == len(t.Columns) {
		return
	}

	cols := make([]string, len(keep))
	for i, j := range keep {
		cols[i] = t.Columns[j]
	}
	for r, row := range t.Rows {
		newRow := make([]string, len(keep))
		for i, j := range keep {
			newRow[i] = row[j]
		}
		t.Rows[r] = newRow
	}
	t.Columns = cols
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := NewTable(t.Columns)
	for _, row := range t.Rows {
		c.AppendRow(row)
	}
	return c
}

func allBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
