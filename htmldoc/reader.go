// Package htmldoc extracts tables from HTML documents.
package htmldoc

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/tsawler/tabmerge/model"
)

// Reader provides access to the tables of an HTML document.
type Reader struct {
	tables []*ParsedTable
}

// Open opens an HTML file for reading.
func Open(filename string) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return OpenReader(f)
}

// OpenReader parses HTML from an io.Reader. The character set is taken from
// a byte order mark or a <meta> declaration, falling back to UTF-8.
func OpenReader(r io.Reader) (*Reader, error) {
	utf8Reader, err := charset.NewReader(r, "text/html")
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}

	doc, err := html.Parse(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	reader := &Reader{}
	reader.collectTables(doc)
	return reader, nil
}

// Tables returns the top-level tables in document order. Tables nested in
// another table's cell only contribute their text to that cell.
func (r *Reader) Tables() []*ParsedTable {
	return r.tables
}

// Table returns every non-empty table, union-concatenated, or
// model.ErrUnsupportedStructure when the document has none.
func (r *Reader) Table() (*model.Table, error) {
	var found []*model.Table
	for _, pt := range r.tables {
		if t := pt.Table(); !t.Empty() {
			found = append(found, t)
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("no tables in HTML document: %w", model.ErrUnsupportedStructure)
	}
	return model.Concat(found...), nil
}

// ExtractFile reads an HTML file and returns its combined table.
func ExtractFile(path string) (*model.Table, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	return r.Table()
}

func (r *Reader) collectTables(n *html.Node) {
	if n.Type == html.ElementNode {
		if shouldSkipElement(n.Data) {
			return
		}
		if n.Data == "table" {
			r.tables = append(r.tables, parseTable(n))
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.collectTables(c)
	}
}

// parseTable extracts a table from an HTML table element.
func parseTable(tableNode *html.Node) *ParsedTable {
	table := &ParsedTable{
		Rows: make([][]TableCell, 0),
	}

	// Find thead, tbody, tfoot, or direct tr children
	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			switch c.Data {
			case "thead":
				if len(table.Rows) == 0 {
					table.HasHeader = true
				}
				parseTableRows(c, table, true)
			case "tbody", "tfoot":
				parseTableRows(c, table, false)
			case "tr":
				if row := parseTableRow(c, false); len(row) > 0 {
					table.Rows = append(table.Rows, row)
				}
			}
		}
	}

	// If no explicit header but first row is all th elements, mark as header
	if !table.HasHeader && len(table.Rows) > 0 {
		allHeader := true
		for _, cell := range table.Rows[0] {
			if !cell.IsHeader {
				allHeader = false
				break
			}
		}
		table.HasHeader = allHeader
	}

	return table
}

// parseTableRows parses rows within thead, tbody or tfoot.
func parseTableRows(section *html.Node, table *ParsedTable, isHeader bool) {
	for c := section.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "tr" {
			if row := parseTableRow(c, isHeader); len(row) > 0 {
				table.Rows = append(table.Rows, row)
			}
		}
	}
}

// parseTableRow parses a single table row.
func parseTableRow(tr *html.Node, isHeader bool) []TableCell {
	row := make([]TableCell, 0)

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cell := TableCell{
				Text:     getTextContent(c),
				IsHeader: isHeader || c.Data == "th",
				RowSpan:  spanAttr(c, "rowspan"),
				ColSpan:  spanAttr(c, "colspan"),
			}
			row = append(row, cell)
		}
	}

	return row
}

// spanAttr reads a rowspan/colspan attribute, clamped to 1..1000.
func spanAttr(n *html.Node, key string) int {
	for _, attr := range n.Attr {
		if attr.Key != key {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(attr.Val))
		if err != nil || v < 1 {
			return 1
		}
		return min(v, 1000)
	}
	return 1
}

// shouldSkipElement returns true if the element never holds table content.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed":
		return true
	}
	return false
}

// getTextContent extracts the text of a node and its descendants with
// whitespace runs collapsed to single spaces.
func getTextContent(n *html.Node) string {
	var result strings.Builder
	getTextContentRecursive(n, &result)
	return strings.Join(strings.Fields(result.String()), " ")
}

func getTextContentRecursive(n *html.Node, result *strings.Builder) {
	if n.Type == html.TextNode {
		result.WriteString(n.Data)
	}
	if n.Type == html.ElementNode {
		if shouldSkipElement(n.Data) {
			return
		}
		if n.Data == "br" {
			result.WriteString(" ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		getTextContentRecursive(c, result)
	}
	// Keep words from adjacent blocks apart
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li", "tr", "td", "th":
			result.WriteString(" ")
		}
	}
}
