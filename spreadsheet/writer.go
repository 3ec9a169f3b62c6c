package spreadsheet

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/tabmerge/internal/logging"
	"github.com/tsawler/tabmerge/model"
)

// DefaultSheetName is the worksheet name used when none is configured.
const DefaultSheetName = "Sheet1"

// Writer saves tables as single-sheet XLSX workbooks.
type Writer struct {
	sheetName string
	logger    *slog.Logger
}

// NewWriter creates a writer. An empty sheet name means DefaultSheetName.
func NewWriter(sheetName string, logger *slog.Logger) *Writer {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	return &Writer{sheetName: sheetName, logger: logging.OrDiscard(logger)}
}

// Write saves t to path: one header row, then one row per table row, with
// no index column. Missing cells are left blank and plain numbers are
// stored as numbers. The parent directory is created if needed. Every
// failure wraps model.ErrOutputWrite.
func (w *Writer) Write(path string, t *model.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: creating output directory: %w", model.ErrOutputWrite, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if w.sheetName != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, w.sheetName); err != nil {
			return fmt.Errorf("%w: naming sheet: %w", model.ErrOutputWrite, err)
		}
	}

	sw, err := f.NewStreamWriter(w.sheetName)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrOutputWrite, err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("%w: writing header: %w", model.ErrOutputWrite, err)
	}

	for r, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("%w: %w", model.ErrOutputWrite, err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = cellValue(v)
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("%w: writing row %d: %w", model.ErrOutputWrite, r+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrOutputWrite, err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: %w", model.ErrOutputWrite, err)
	}

	w.logger.Debug("workbook written", "path", path, "rows", t.RowCount(), "columns", t.ColCount())
	return nil
}

var (
	intPattern   = regexp.MustCompile(`^-?(0|[1-9][0-9]{0,14})$`)
	floatPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)\.[0-9]+$`)
)

// cellValue maps a cell to the value written to the workbook: nil for a
// missing cell, a number for plain integers and decimals without leading
// zeros, and the string itself otherwise.
func cellValue(s string) interface{} {
	if s == "" {
		return nil
	}
	if intPattern.MatchString(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	}
	if floatPattern.MatchString(s) && len(s) <= 17 {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
