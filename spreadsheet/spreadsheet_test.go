package spreadsheet

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/tabmerge/model"
	"github.com/tsawler/tabmerge/xlsx"
)

// fakeEngine returns a canned grid or error and counts calls.
type fakeEngine struct {
	name  string
	grid  [][]string
	err   error
	calls int
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) ReadFirstSheet(string) ([][]string, error) {
	f.calls++
	return f.grid, f.err
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow() failed: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() failed: %v", err)
	}
	return path
}

func TestExtractFile_XLSX(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"id", "name", "score"},
		{1, "Alice", 9.5},
		{2, "Bob", 7},
	})

	tbl, err := New(nil).ExtractFile(path)
	if err != nil {
		t.Fatalf("ExtractFile() failed: %v", err)
	}

	if !reflect.DeepEqual(tbl.Columns, []string{"id", "name", "score"}) {
		t.Errorf("Columns = %v", tbl.Columns)
	}
	want := [][]string{{"1", "Alice", "9.5"}, {"2", "Bob", "7"}}
	if !reflect.DeepEqual(tbl.Rows, want) {
		t.Errorf("Rows = %v, want %v", tbl.Rows, want)
	}
}

func TestExtractFile_FallsBackToSecondEngine(t *testing.T) {
	first := &fakeEngine{name: "primary", err: errors.New("not a zip")}
	second := &fakeEngine{name: "legacy", grid: [][]string{{"a", ""}, {"1", "2"}, {"", ""}, {"3", "4"}}}

	tbl, err := New(nil, first, second).ExtractFile("book.xls")
	if err != nil {
		t.Fatalf("ExtractFile() failed: %v", err)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Errorf("calls = %d, %d, want 1, 1", first.calls, second.calls)
	}

	if !reflect.DeepEqual(tbl.Columns, []string{"a", "Column_2"}) {
		t.Errorf("Columns = %v", tbl.Columns)
	}
	if tbl.RowCount() != 2 {
		t.Errorf("RowCount() = %d, want 2 (blank row dropped)", tbl.RowCount())
	}
}

func TestExtractFile_EmptySheetIsEngineFailure(t *testing.T) {
	empty := &fakeEngine{name: "primary", grid: nil}
	headerOnly := &fakeEngine{name: "legacy", grid: [][]string{{"a", "b"}}}

	_, err := New(nil, empty, headerOnly).ExtractFile("book.xlsx")
	if !errors.Is(err, model.ErrNoEngineSucceeded) {
		t.Errorf("ExtractFile() error = %v, want ErrNoEngineSucceeded", err)
	}
}

func TestExtractFile_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.xls")
	if err := os.WriteFile(path, []byte("plain text, not a workbook"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(nil).ExtractFile(path)
	if !errors.Is(err, model.ErrNoEngineSucceeded) {
		t.Errorf("ExtractFile() error = %v, want ErrNoEngineSucceeded", err)
	}
}

func TestCropGrid(t *testing.T) {
	grid := [][]string{
		nil,
		{"", "", ""},
		{"", "a", "b"},
		{"", "1"},
		{"", "", ""},
	}
	want := [][]string{{"a", "b"}, {"1", ""}}
	if got := cropGrid(grid); !reflect.DeepEqual(got, want) {
		t.Errorf("cropGrid() = %v, want %v", got, want)
	}
	if got := cropGrid([][]string{{" "}}); got != nil {
		t.Errorf("cropGrid(blank) = %v, want nil", got)
	}
}

func TestCellValue(t *testing.T) {
	tests := []struct {
		in   string
		want interface{}
	}{
		{"", nil},
		{"42", int64(42)},
		{"-7", int64(-7)},
		{"0", int64(0)},
		{"3.25", 3.25},
		{"-0.5", -0.5},
		{"007", "007"},
		{"1e3", "1e3"},
		{"12345678901234567890", "12345678901234567890"},
		{"1,000", "1,000"},
		{"Alice", "Alice"},
		{" 5", " 5"},
	}

	for _, tt := range tests {
		if got := cellValue(tt.in); got != tt.want {
			t.Errorf("cellValue(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	tbl := model.FromGrid([]string{"id", "name", "code"}, [][]string{
		{"1", "Alice", "007"},
		{"2", "", "9.75"},
	})

	path := filepath.Join(t.TempDir(), "nested", "out.xlsx")
	if err := NewWriter("Combined Data", nil).Write(path, tbl); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	r, err := xlsx.Open(path)
	if err != nil {
		t.Fatalf("xlsx.Open() failed: %v", err)
	}
	defer r.Close()

	if !reflect.DeepEqual(r.SheetNames(), []string{"Combined Data"}) {
		t.Errorf("SheetNames() = %v", r.SheetNames())
	}

	sheet, err := r.FirstSheet()
	if err != nil {
		t.Fatalf("FirstSheet() failed: %v", err)
	}

	wantGrid := [][]string{
		{"id", "name", "code"},
		{"1", "Alice", "007"},
		{"2", "", "9.75"},
	}
	if got := sheet.Grid(); !reflect.DeepEqual(got, wantGrid) {
		t.Errorf("Grid() = %v, want %v", got, wantGrid)
	}

	types := make(map[string]xlsx.CellType)
	for _, c := range sheet.Cells {
		types[c.Value] = c.Type
	}
	if types["1"] != xlsx.CellTypeNumber || types["9.75"] != xlsx.CellTypeNumber {
		t.Errorf("numeric cells not stored as numbers: %v", types)
	}
	if types["007"] != xlsx.CellTypeString {
		t.Errorf("leading-zero cell stored as %v, want string", types["007"])
	}
}

func TestWriter_ExtractorReadsOutput(t *testing.T) {
	tbl := model.FromGrid([]string{"a", "b"}, [][]string{{"x", "1"}})
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := NewWriter("", nil).Write(path, tbl); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	got, err := New(nil).ExtractFile(path)
	if err != nil {
		t.Fatalf("ExtractFile() failed: %v", err)
	}
	if !reflect.DeepEqual(got.Rows, tbl.Rows) || !reflect.DeepEqual(got.Columns, tbl.Columns) {
		t.Errorf("round trip = %+v, want %+v", got, tbl)
	}
}

func TestWriter_Failure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// parent "directory" is a regular file
	err := NewWriter("", nil).Write(filepath.Join(blocker, "out.xlsx"), model.NewTable([]string{"a"}))
	if !errors.Is(err, model.ErrOutputWrite) {
		t.Errorf("Write() error = %v, want ErrOutputWrite", err)
	}
}
