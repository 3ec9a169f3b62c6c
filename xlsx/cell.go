package xlsx

import (
	"fmt"
	"strconv"
	"strings"
)

// CellType represents the type of data in a cell.
type CellType int

const (
	// CellTypeEmpty indicates an empty cell.
	CellTypeEmpty CellType = iota
	// CellTypeString indicates a string value.
	CellTypeString
	// CellTypeNumber indicates a numeric value.
	CellTypeNumber
	// CellTypeDate indicates a number formatted as a date or time.
	CellTypeDate
	// CellTypeBoolean indicates a boolean value.
	CellTypeBoolean
	// CellTypeError indicates an error value such as #REF!.
	CellTypeError
)

// String returns the string representation of the cell type.
func (t CellType) String() string {
	switch t {
	case CellTypeEmpty:
		return "empty"
	case CellTypeString:
		return "string"
	case CellTypeNumber:
		return "number"
	case CellTypeDate:
		return "date"
	case CellTypeBoolean:
		return "boolean"
	case CellTypeError:
		return "error"
	default:
		return "unknown"
	}
}

// Cell is one positioned value of a worksheet.
type Cell struct {
	Row   int // 0-indexed
	Col   int // 0-indexed
	Value string
	Type  CellType
}

// Sheet is a parsed worksheet. Only non-empty cells are kept.
type Sheet struct {
	Name  string
	Index int
	Cells []Cell
}

// Bounds returns the smallest rectangle holding every non-blank cell.
// ok is false for a sheet with no content.
func (s *Sheet) Bounds() (minRow, maxRow, minCol, maxCol int, ok bool) {
	for _, c := range s.Cells {
		if strings.TrimSpace(c.Value) == "" {
			continue
		}
		if !ok {
			minRow, maxRow, minCol, maxCol = c.Row, c.Row, c.Col, c.Col
			ok = true
			continue
		}
		minRow = min(minRow, c.Row)
		maxRow = max(maxRow, c.Row)
		minCol = min(minCol, c.Col)
		maxCol = max(maxCol, c.Col)
	}
	return minRow, maxRow, minCol, maxCol, ok
}

// Grid returns the sheet's values cropped to its content bounds. Absent
// cells are "". A sheet with no content yields nil.
func (s *Sheet) Grid() [][]string {
	minRow, maxRow, minCol, maxCol, ok := s.Bounds()
	if !ok {
		return nil
	}

	grid := make([][]string, maxRow-minRow+1)
	for i := range grid {
		grid[i] = make([]string, maxCol-minCol+1)
	}
	for _, c := range s.Cells {
		if c.Row < minRow || c.Row > maxRow || c.Col < minCol || c.Col > maxCol {
			continue
		}
		grid[c.Row-minRow][c.Col-minCol] = c.Value
	}
	return grid
}

// ParseCellRef parses a cell reference like "A1" or "$AA$100" into column
// and row indices (0-indexed).
func ParseCellRef(ref string) (col, row int, err error) {
	ref = strings.ReplaceAll(ref, "$", "")
	if ref == "" {
		return 0, 0, fmt.Errorf("empty cell reference")
	}

	i := 0
	for i < len(ref) && isLetter(ref[i]) {
		i++
	}
	if i == 0 {
		return 0, 0, fmt.Errorf("invalid cell reference %q: no column letters", ref)
	}
	if i == len(ref) {
		return 0, 0, fmt.Errorf("invalid cell reference %q: no row number", ref)
	}

	col = ColumnToIndex(ref[:i])
	if col < 0 {
		return 0, 0, fmt.Errorf("invalid column: %s", ref[:i])
	}

	rowNum, err := strconv.Atoi(ref[i:])
	if err != nil || rowNum < 1 {
		return 0, 0, fmt.Errorf("invalid row: %s", ref[i:])
	}

	return col, rowNum - 1, nil
}

// ColumnToIndex converts column letters to a 0-indexed column number.
// A=0, Z=25, AA=26. Returns -1 for anything that is not letters.
func ColumnToIndex(col string) int {
	if col == "" {
		return -1
	}
	result := 0
	for _, c := range strings.ToUpper(col) {
		if c < 'A' || c > 'Z' {
			return -1
		}
		result = result*26 + int(c-'A') + 1
	}
	return result - 1
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
