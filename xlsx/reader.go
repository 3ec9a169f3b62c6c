// Package xlsx reads worksheets from XLSX (Office Open XML Spreadsheet)
// workbooks as grids of display strings.
package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// ErrNoSheets is returned when a workbook lists no readable worksheet.
var ErrNoSheets = errors.New("no worksheets found")

// Reader provides access to the worksheets of an XLSX workbook.
type Reader struct {
	zipReader     *zip.ReadCloser
	files         map[string]*zip.File
	workbook      *workbookXML
	sharedStrings []string
	dateStyles    map[int]bool
	date1904      bool
	sheetRels     map[string]string // RID -> target path
}

// Open opens an XLSX file for reading. Worksheets are parsed on demand.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{
		zipReader: zr,
		files:     make(map[string]*zip.File, len(zr.File)),
		sheetRels: make(map[string]string),
	}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}

	if err := r.load(); err != nil {
		zr.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) load() error {
	if _, ok := r.files["xl/workbook.xml"]; !ok {
		return fmt.Errorf("missing required file: xl/workbook.xml")
	}

	if err := r.parseRelationships(); err != nil {
		return fmt.Errorf("parsing relationships: %w", err)
	}
	if err := r.parseWorkbook(); err != nil {
		return fmt.Errorf("parsing workbook: %w", err)
	}
	if err := r.parseSharedStrings(); err != nil {
		return fmt.Errorf("parsing shared strings: %w", err)
	}
	// Styles only drive date rendering; a broken styles part is not fatal.
	_ = r.parseStyles()

	if len(r.workbook.Sheets.Sheet) == 0 {
		return ErrNoSheets
	}
	return nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipReader != nil {
		err := r.zipReader.Close()
		r.zipReader = nil
		return err
	}
	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parseRelationships parses the workbook relationships file.
func (r *Reader) parseRelationships() error {
	data, err := r.getFileContent("xl/_rels/workbook.xml.rels")
	if err != nil {
		return nil // Relationships are optional
	}

	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return err
	}
	for _, rel := range rels.Relationship {
		r.sheetRels[rel.ID] = rel.Target
	}
	return nil
}

// parseWorkbook parses the main workbook file.
func (r *Reader) parseWorkbook() error {
	data, err := r.getFileContent("xl/workbook.xml")
	if err != nil {
		return err
	}

	r.workbook = &workbookXML{}
	if err := xml.Unmarshal(data, r.workbook); err != nil {
		return err
	}
	if pr := r.workbook.WorkbookPr; pr != nil {
		r.date1904 = pr.Date1904 == "1" || strings.EqualFold(pr.Date1904, "true")
	}
	return nil
}

// parseSharedStrings parses the shared strings table, if present.
func (r *Reader) parseSharedStrings() error {
	data, err := r.getFileContent("xl/sharedStrings.xml")
	if err != nil {
		return nil // Shared strings are optional
	}

	var sst sharedStringsXML
	if err := xml.Unmarshal(data, &sst); err != nil {
		return err
	}

	r.sharedStrings = make([]string, len(sst.SI))
	for i, si := range sst.SI {
		r.sharedStrings[i] = si.text()
	}
	return nil
}

// parseStyles records which cell style indices carry a date format.
func (r *Reader) parseStyles() error {
	data, err := r.getFileContent("xl/styles.xml")
	if err != nil {
		return err
	}

	var styles stylesXML
	if err := xml.Unmarshal(data, &styles); err != nil {
		return err
	}

	custom := make(map[int]string)
	if styles.NumFmts != nil {
		for _, nf := range styles.NumFmts.NumFmt {
			custom[nf.NumFmtID] = nf.FormatCode
		}
	}

	r.dateStyles = make(map[int]bool)
	if styles.CellXfs != nil {
		for i, xf := range styles.CellXfs.Xf {
			if isDateFormat(xf.NumFmtID, custom[xf.NumFmtID]) {
				r.dateStyles[i] = true
			}
		}
	}
	return nil
}

// SheetCount returns the number of worksheets listed in the workbook.
func (r *Reader) SheetCount() int {
	return len(r.workbook.Sheets.Sheet)
}

// SheetNames returns the worksheet names in workbook order.
func (r *Reader) SheetNames() []string {
	names := make([]string, len(r.workbook.Sheets.Sheet))
	for i, s := range r.workbook.Sheets.Sheet {
		names[i] = s.Name
	}
	return names
}

// Sheet parses and returns the worksheet at index (0-indexed).
func (r *Reader) Sheet(index int) (*Sheet, error) {
	if index < 0 || index >= len(r.workbook.Sheets.Sheet) {
		return nil, fmt.Errorf("sheet index %d out of range (0-%d)", index, len(r.workbook.Sheets.Sheet)-1)
	}
	ref := r.workbook.Sheets.Sheet[index]

	data, err := r.getFileContent(r.sheetPath(ref.RID, index))
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", ref.Name, err)
	}

	sheet, err := r.parseWorksheet(data)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", ref.Name, err)
	}
	sheet.Name = ref.Name
	sheet.Index = index
	return sheet, nil
}

// FirstSheet returns the first worksheet in workbook order.
func (r *Reader) FirstSheet() (*Sheet, error) {
	return r.Sheet(0)
}

// sheetPath resolves a relationship ID to the worksheet's path in the archive.
func (r *Reader) sheetPath(rid string, index int) string {
	target := r.sheetRels[rid]
	if target == "" {
		target = fmt.Sprintf("worksheets/sheet%d.xml", index+1)
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join("xl", target)
}

// parseWorksheet parses a single worksheet, keeping non-empty cells.
func (r *Reader) parseWorksheet(data []byte) (*Sheet, error) {
	var ws worksheetXML
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, err
	}

	sheet := &Sheet{}
	nextRow := 0
	for _, row := range ws.SheetData.Rows {
		rowIdx := nextRow
		if row.R > 0 {
			rowIdx = row.R - 1
		}
		nextRow = rowIdx + 1

		nextCol := 0
		for _, c := range row.Cells {
			col := nextCol
			if c.R != "" {
				parsedCol, _, err := ParseCellRef(c.R)
				if err != nil {
					continue
				}
				col = parsedCol
			}
			nextCol = col + 1

			value, typ := r.cellValue(c)
			if typ == CellTypeEmpty {
				continue
			}
			sheet.Cells = append(sheet.Cells, Cell{Row: rowIdx, Col: col, Value: value, Type: typ})
		}
	}

	return sheet, nil
}

// cellValue resolves a cell's display value and type.
func (r *Reader) cellValue(c cellXML) (string, CellType) {
	switch c.T {
	case "s": // Shared string
		idx, err := strconv.Atoi(strings.TrimSpace(c.V))
		if err != nil || idx < 0 || idx >= len(r.sharedStrings) {
			return "", CellTypeEmpty
		}
		return r.sharedStrings[idx], CellTypeString
	case "b":
		if c.V == "1" {
			return "TRUE", CellTypeBoolean
		}
		return "FALSE", CellTypeBoolean
	case "e":
		return c.V, CellTypeError
	case "str": // Formula string result
		return c.V, CellTypeString
	case "inlineStr":
		return c.Is.text(), CellTypeString
	case "d": // ISO 8601 date
		return c.V, CellTypeDate
	}

	if c.V == "" {
		return "", CellTypeEmpty
	}
	if r.dateStyles[c.S] {
		if s, ok := serialToDate(c.V, r.date1904); ok {
			return s, CellTypeDate
		}
	}
	return c.V, CellTypeNumber
}

// ReadFirstSheet opens the workbook at path and returns the first
// worksheet's grid cropped to its content.
func ReadFirstSheet(filename string) ([][]string, error) {
	r, err := Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	sheet, err := r.FirstSheet()
	if err != nil {
		return nil, err
	}
	return sheet.Grid(), nil
}
