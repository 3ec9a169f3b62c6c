package structured

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tsawler/tabmerge/model"
)

func TestFromRecords(t *testing.T) {
	records := []Record{
		{{"id", "1"}, {"name", "Alice"}},
		{{"id", "2"}, {"city", "Paris"}},
	}

	tbl := FromRecords(records)

	if !reflect.DeepEqual(tbl.Columns, []string{"id", "name", "city"}) {
		t.Errorf("Columns = %v", tbl.Columns)
	}
	want := [][]string{{"1", "Alice", ""}, {"2", "", "Paris"}}
	if !reflect.DeepEqual(tbl.Rows, want) {
		t.Errorf("Rows = %v, want %v", tbl.Rows, want)
	}
}

func TestRecordSet(t *testing.T) {
	var r Record
	r.Set("a", "1")
	r.Set("b", "2")
	r.Set("a", "3")

	want := Record{{"a", "3"}, {"b", "2"}}
	if !reflect.DeepEqual(r, want) {
		t.Errorf("Record = %v, want %v", r, want)
	}
}

func TestFromJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCols []string
		wantRows [][]string
	}{
		{
			name:     "array of objects",
			input:    `[{"a":1,"b":"x"},{"a":2,"b":"y"}]`,
			wantCols: []string{"a", "b"},
			wantRows: [][]string{{"1", "x"}, {"2", "y"}},
		},
		{
			name:     "key order preserved",
			input:    `[{"z":1,"a":2}]`,
			wantCols: []string{"z", "a"},
			wantRows: [][]string{{"1", "2"}},
		},
		{
			name:     "heterogeneous keys",
			input:    `[{"a":1},{"b":2}]`,
			wantCols: []string{"a", "b"},
			wantRows: [][]string{{"1", ""}, {"", "2"}},
		},
		{
			name:     "flat object",
			input:    `{"name":"Alice","age":30,"active":true,"note":null}`,
			wantCols: []string{"name", "age", "active", "note"},
			wantRows: [][]string{{"Alice", "30", "true", ""}},
		},
		{
			name:     "nested object is transposed",
			input:    `{"r1":{"a":1,"b":2},"r2":{"a":3,"b":4}}`,
			wantCols: []string{"a", "b"},
			wantRows: [][]string{{"1", "2"}, {"3", "4"}},
		},
		{
			name:     "nested arrays become positional",
			input:    `{"r1":[1,2],"r2":[3]}`,
			wantCols: []string{"0", "1"},
			wantRows: [][]string{{"1", "2"}, {"3", ""}},
		},
		{
			name:     "array of arrays",
			input:    `[[1,2,3],[4,5]]`,
			wantCols: []string{"0", "1", "2"},
			wantRows: [][]string{{"1", "2", "3"}, {"4", "5", ""}},
		},
		{
			name:     "array of scalars",
			input:    `["a","b"]`,
			wantCols: []string{"0"},
			wantRows: [][]string{{"a"}, {"b"}},
		},
		{
			name:     "nested values rendered as JSON",
			input:    `[{"id":1,"tags":["x","y"],"meta":{"k":"v"}}]`,
			wantCols: []string{"id", "tags", "meta"},
			wantRows: [][]string{{"1", `["x","y"]`, `{"k":"v"}`}},
		},
		{
			name:     "number text preserved",
			input:    `[{"v":1.50},{"v":1e3}]`,
			wantCols: []string{"v"},
			wantRows: [][]string{{"1.50"}, {"1e3"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := FromJSON([]byte(tt.input))
			if err != nil {
				t.Fatalf("FromJSON() error = %v", err)
			}
			if !reflect.DeepEqual(tbl.Columns, tt.wantCols) {
				t.Errorf("Columns = %v, want %v", tbl.Columns, tt.wantCols)
			}
			if !reflect.DeepEqual(tbl.Rows, tt.wantRows) {
				t.Errorf("Rows = %v, want %v", tbl.Rows, tt.wantRows)
			}
		})
	}
}

func TestFromJSONUnsupported(t *testing.T) {
	inputs := []string{`42`, `"text"`, `true`, `null`, `[]`, `{}`, `[null]`}

	for _, in := range inputs {
		_, err := FromJSON([]byte(in))
		if !errors.Is(err, model.ErrUnsupportedStructure) {
			t.Errorf("FromJSON(%s) error = %v, want ErrUnsupportedStructure", in, err)
		}
	}
}

func TestFromJSONInvalid(t *testing.T) {
	inputs := []string{``, `{"a":`, `[1,2`, `[1] [2]`}

	for _, in := range inputs {
		_, err := FromJSON([]byte(in))
		if err == nil {
			t.Errorf("FromJSON(%q) expected error", in)
			continue
		}
		if errors.Is(err, model.ErrUnsupportedStructure) {
			t.Errorf("FromJSON(%q) syntax error reported as unsupported structure", in)
		}
	}
}

func TestFromXMLRecords(t *testing.T) {
	doc := `<?xml version="1.0"?>
<people>
  <person><name> Alice </name><age>30</age></person>
  <person><name>Bob</name><city>Oslo</city></person>
</people>`

	tbl, err := FromXML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("FromXML() error = %v", err)
	}

	if !reflect.DeepEqual(tbl.Columns, []string{"name", "age", "city"}) {
		t.Errorf("Columns = %v", tbl.Columns)
	}
	want := [][]string{{"Alice", "30", ""}, {"Bob", "", "Oslo"}}
	if !reflect.DeepEqual(tbl.Rows, want) {
		t.Errorf("Rows = %v, want %v", tbl.Rows, want)
	}
}

func TestFromXMLFlatChildren(t *testing.T) {
	doc := `<config><host>db.local</host><port>5432</port></config>`

	tbl, err := FromXML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("FromXML() error = %v", err)
	}

	if !reflect.DeepEqual(tbl.Columns, []string{"host", "port"}) {
		t.Errorf("Columns = %v", tbl.Columns)
	}
	want := [][]string{{"db.local", ""}, {"", "5432"}}
	if !reflect.DeepEqual(tbl.Rows, want) {
		t.Errorf("Rows = %v, want %v", tbl.Rows, want)
	}
}

func TestFromXMLNamespacesUseLocalNames(t *testing.T) {
	doc := `<r:root xmlns:r="urn:x"><r:item><r:v>1</r:v></r:item></r:root>`

	tbl, err := FromXML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("FromXML() error = %v", err)
	}
	if !reflect.DeepEqual(tbl.Columns, []string{"v"}) {
		t.Errorf("Columns = %v, want [v]", tbl.Columns)
	}
}

func TestFromXMLErrors(t *testing.T) {
	if _, err := FromXML(strings.NewReader(`<root/>`)); !errors.Is(err, model.ErrUnsupportedStructure) {
		t.Errorf("empty root error = %v, want ErrUnsupportedStructure", err)
	}
	if _, err := FromXML(strings.NewReader(`<root><a>`)); err == nil {
		t.Error("expected error for truncated XML")
	}
	if _, err := FromXML(strings.NewReader(``)); err == nil {
		t.Error("expected error for empty document")
	}
}

func TestParseFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "data.json")
	xmlPath := filepath.Join(dir, "data.xml")

	if err := os.WriteFile(jsonPath, []byte(`[{"id":1}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(xmlPath, []byte(`<rows><row><id>1</id></row></rows>`), 0o644); err != nil {
		t.Fatal(err)
	}

	jt, err := ParseJSONFile(jsonPath)
	if err != nil || jt.RowCount() != 1 {
		t.Errorf("ParseJSONFile() = %v, %v", jt, err)
	}
	xt, err := ParseXMLFile(xmlPath)
	if err != nil || xt.RowCount() != 1 {
		t.Errorf("ParseXMLFile() = %v, %v", xt, err)
	}

	if _, err := ParseJSONFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
