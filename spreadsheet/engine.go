// Package spreadsheet reads the first worksheet of a workbook through an
// ordered chain of engines and writes tables back out as XLSX.
package spreadsheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/extrame/xls"

	"github.com/tsawler/tabmerge/xlsx"
)

// Engine reads the first worksheet of a workbook as a grid of strings.
type Engine interface {
	Name() string
	ReadFirstSheet(path string) ([][]string, error)
}

// XLSXEngine reads Office Open XML workbooks.
type XLSXEngine struct{}

// Name returns "xlsx".
func (XLSXEngine) Name() string { return "xlsx" }

// ReadFirstSheet reads the first worksheet.
func (XLSXEngine) ReadFirstSheet(path string) ([][]string, error) {
	return xlsx.ReadFirstSheet(path)
}

// XLSEngine reads legacy BIFF (.xls) workbooks.
type XLSEngine struct {
	// Charset is passed to the BIFF decoder for byte strings.
	Charset string
}

// Name returns "xls".
func (XLSEngine) Name() string { return "xls" }

// ReadFirstSheet reads the first worksheet. The BIFF decoder panics on some
// malformed input; that is reported as an error.
func (e XLSEngine) ReadFirstSheet(path string) (grid [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			grid, err = nil, fmt.Errorf("xls decoder panic: %v", r)
		}
	}()

	charset := e.Charset
	if charset == "" {
		charset = "utf-8"
	}

	wb, err := xls.Open(path, charset)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("no worksheets found")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("first worksheet unreadable")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		grid = append(grid, cells)
	}

	return cropGrid(grid), nil
}

// cropGrid trims leading and trailing blank rows and columns and pads the
// remaining rows to a common width.
func cropGrid(grid [][]string) [][]string {
	minRow, maxRow, minCol, maxCol := -1, -1, -1, -1
	for i, row := range grid {
		for j, v := range row {
			if strings.TrimSpace(v) == "" {
				continue
			}
			if minRow < 0 {
				minRow = i
			}
			maxRow = i
			if minCol < 0 || j < minCol {
				minCol = j
			}
			maxCol = max(maxCol, j)
		}
	}
	if minRow < 0 {
		return nil
	}

	out := make([][]string, 0, maxRow-minRow+1)
	for _, row := range grid[minRow : maxRow+1] {
		cells := make([]string, maxCol-minCol+1)
		for j := minCol; j <= maxCol && j < len(row); j++ {
			cells[j-minCol] = row[j]
		}
		out = append(out, cells)
	}
	return out
}
