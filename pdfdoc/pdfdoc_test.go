package pdfdoc

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/tabmerge/model"
)

// glyphs lays out s one glyph per rune, 5pt apart, on baseline y.
func glyphs(s string, x, y float64) []pdf.Text {
	var out []pdf.Text
	for i, r := range s {
		out = append(out, pdf.Text{Font: "Helvetica", FontSize: 10, X: x + float64(i)*5, Y: y, W: 5, S: string(r)})
	}
	return out
}

func word(text string, x, y float64) model.TextFragment {
	return model.TextFragment{Text: text, BBox: model.NewBBox(x, y, 20, 10), FontSize: 10}
}

// ruledGrid returns the rules of a rows x cols grid with 100pt cells and
// its top-left corner at (0, top).
func ruledGrid(rows, cols int, top float64) []model.Line {
	var lines []model.Line
	width := float64(cols) * 100
	height := float64(rows) * 20
	for i := 0; i <= rows; i++ {
		y := top - float64(i)*20
		lines = append(lines, model.Line{Start: model.Point{X: 0, Y: y}, End: model.Point{X: width, Y: y}})
	}
	for j := 0; j <= cols; j++ {
		x := float64(j) * 100
		lines = append(lines, model.Line{Start: model.Point{X: x, Y: top - height}, End: model.Point{X: x, Y: top}})
	}
	return lines
}

func TestMergeGlyphs(t *testing.T) {
	var in []pdf.Text
	in = append(in, glyphs("Hi there", 10, 700)...)
	in = append(in, glyphs("A", 200, 699)...) // same line, far right
	in = append(in, glyphs("next", 10, 680)...)

	got := mergeGlyphs(in, 2)

	var texts []string
	for _, f := range got {
		texts = append(texts, f.Text)
	}
	want := []string{"Hi", "there", "A", "next"}
	if !reflect.DeepEqual(texts, want) {
		t.Fatalf("words = %v, want %v", texts, want)
	}

	there := got[1]
	if there.BBox.Left() != 25 || there.BBox.Right() != 50 {
		t.Errorf("BBox of %q = [%v, %v], want [25, 50]", there.Text, there.BBox.Left(), there.BBox.Right())
	}
	if there.FontSize != 10 || there.FontName != "Helvetica" {
		t.Errorf("font = %v %q", there.FontSize, there.FontName)
	}
}

func TestMergeGlyphs_ContentOrderIndependent(t *testing.T) {
	in := glyphs("abc", 10, 700)
	in[0], in[2] = in[2], in[0]

	got := mergeGlyphs(in, 2)
	if len(got) != 1 || got[0].Text != "abc" {
		t.Errorf("mergeGlyphs() = %+v, want single word abc", got)
	}
}

func TestTextLines(t *testing.T) {
	frags := []model.TextFragment{
		word("tea,2", 10, 680),
		word("qty", 60, 700),
		word("name,", 10, 701),
	}
	want := "name, qty\ntea,2\n"
	if got := textLines(frags, 2); got != want {
		t.Errorf("textLines() = %q, want %q", got, want)
	}
}

func TestGridTable(t *testing.T) {
	t.Run("header row", func(t *testing.T) {
		tbl := gridTable([][]string{{"a", "", "b"}, {"1", "", "2"}, {"", "", ""}})
		if tbl == nil {
			t.Fatal("gridTable() = nil")
		}
		if !reflect.DeepEqual(tbl.Columns, []string{"a", "b"}) {
			t.Errorf("Columns = %v", tbl.Columns)
		}
		if !reflect.DeepEqual(tbl.Rows, [][]string{{"1", "2"}}) {
			t.Errorf("Rows = %v", tbl.Rows)
		}
	})

	t.Run("blank header", func(t *testing.T) {
		tbl := gridTable([][]string{{"", " "}, {"x", "y"}})
		if tbl == nil {
			t.Fatal("gridTable() = nil")
		}
		if !reflect.DeepEqual(tbl.Columns, []string{"Column_1", "Column_2"}) {
			t.Errorf("Columns = %v", tbl.Columns)
		}
		if tbl.RowCount() != 1 {
			t.Errorf("RowCount() = %d, want 1", tbl.RowCount())
		}
	})

	t.Run("empty", func(t *testing.T) {
		if tbl := gridTable([][]string{{"only header"}}); tbl != nil {
			t.Errorf("gridTable(header only) = %+v, want nil", tbl)
		}
		if tbl := gridTable(nil); tbl != nil {
			t.Errorf("gridTable(nil) = %+v, want nil", tbl)
		}
	})
}

func TestPageTables_RuledGrid(t *testing.T) {
	p := Page{
		Number: 1,
		Lines:  ruledGrid(2, 2, 700),
		Fragments: []model.TextFragment{
			word("Item", 10, 684),
			word("Price", 110, 684),
			word("Tea", 10, 664),
			word("2.50", 110, 664),
		},
	}

	got := New(DefaultOptions(), nil).pageTables(p, nil)
	if len(got) != 1 {
		t.Fatalf("pageTables() returned %d tables, want 1", len(got))
	}
	if !reflect.DeepEqual(got[0].Columns, []string{"Item", "Price"}) {
		t.Errorf("Columns = %v", got[0].Columns)
	}
	if !reflect.DeepEqual(got[0].Rows, [][]string{{"Tea", "2.50"}}) {
		t.Errorf("Rows = %v", got[0].Rows)
	}
}

func TestPageTables_TextFallback(t *testing.T) {
	p := Page{
		Number: 2,
		Fragments: []model.TextFragment{
			word("name,qty", 10, 700),
			word("tea,2", 10, 680),
			word("cake,5", 10, 660),
		},
	}

	got := New(DefaultOptions(), nil).pageTables(p, nil)
	if len(got) != 1 {
		t.Fatalf("pageTables() returned %d tables, want 1", len(got))
	}
	if !reflect.DeepEqual(got[0].Columns, []string{"name", "qty"}) {
		t.Errorf("Columns = %v", got[0].Columns)
	}
	if got[0].RowCount() != 2 {
		t.Errorf("RowCount() = %d, want 2", got[0].RowCount())
	}
}

func TestPageTables_ProseAndBlankPages(t *testing.T) {
	e := New(DefaultOptions(), nil)

	prose := Page{Number: 1, Fragments: []model.TextFragment{word("Dear", 10, 700), word("reader", 40, 700)}}
	if got := e.pageTables(prose, nil); len(got) != 0 {
		t.Errorf("prose page produced %d tables", len(got))
	}

	scanned := Page{Number: 2}
	info := &Info{PageCount: 2, ImagePages: []int{2}}
	if got := e.pageTables(scanned, info); len(got) != 0 {
		t.Errorf("blank page produced %d tables", len(got))
	}
}

func TestExtractFile_ConcatenatesPages(t *testing.T) {
	e := New(Options{SkipInspection: true}, nil)
	e.readPages = func(string) ([]Page, error) {
		return []Page{
			{Number: 1, Lines: ruledGrid(2, 2, 700), Fragments: []model.TextFragment{
				word("a", 10, 684), word("b", 110, 684),
				word("1", 10, 664), word("2", 110, 664),
			}},
			{Number: 2, Fragments: []model.TextFragment{
				word("b,c", 10, 700),
				word("3,4", 10, 680),
			}},
		}, nil
	}

	tbl, err := e.ExtractFile("report.pdf")
	if err != nil {
		t.Fatalf("ExtractFile() failed: %v", err)
	}
	if !reflect.DeepEqual(tbl.Columns, []string{"a", "b", "c"}) {
		t.Errorf("Columns = %v", tbl.Columns)
	}
	want := [][]string{{"1", "2", ""}, {"", "3", "4"}}
	if !reflect.DeepEqual(tbl.Rows, want) {
		t.Errorf("Rows = %v, want %v", tbl.Rows, want)
	}
}

func TestExtractFile_NoTables(t *testing.T) {
	e := New(Options{SkipInspection: true}, nil)
	e.readPages = func(string) ([]Page, error) {
		return []Page{{Number: 1, Fragments: []model.TextFragment{word("Hello", 10, 700)}}}, nil
	}

	if _, err := e.ExtractFile("letter.pdf"); !errors.Is(err, model.ErrNoTabularData) {
		t.Errorf("ExtractFile() error = %v, want ErrNoTabularData", err)
	}
}

func TestExtractFile_ScannedPagesNamed(t *testing.T) {
	e := New(DefaultOptions(), nil)
	e.inspect = func(string) (*Info, error) {
		return &Info{PageCount: 2, ImagePages: []int{1, 2}}, nil
	}
	e.readPages = func(string) ([]Page, error) {
		return []Page{{Number: 1}, {Number: 2}}, nil
	}

	_, err := e.ExtractFile("scan.pdf")
	if !errors.Is(err, model.ErrNoTabularData) {
		t.Fatalf("ExtractFile() error = %v, want ErrNoTabularData", err)
	}
	if !strings.Contains(err.Error(), "[1 2]") || !strings.Contains(err.Error(), "OCR") {
		t.Errorf("error %q should name the image-only pages", err)
	}
}

func TestInfo_HasImages(t *testing.T) {
	var nilInfo *Info
	if nilInfo.HasImages() {
		t.Error("nil Info should report no images")
	}
	if (&Info{PageCount: 3}).HasImages() {
		t.Error("Info without image pages should report no images")
	}
	if !(&Info{ImagePages: []int{2}}).HasImages() {
		t.Error("Info with image pages should report images")
	}
}

func TestExtractFile_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(DefaultOptions(), nil).ExtractFile(path)
	if err == nil {
		t.Fatal("ExtractFile() should fail for a non-PDF file")
	}
}

func TestInspect_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("%PDF-garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Inspect(path); err == nil {
		t.Error("Inspect() should fail for a malformed PDF")
	}
	if _, err := Inspect(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Inspect() should fail for a missing file")
	}
}
