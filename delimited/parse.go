package delimited

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/tabmerge/model"
)

var (
	errTooFewColumns = errors.New("header has fewer than two fields")
	errNoDataRows    = errors.New("no data rows")
	errNoFullRow     = errors.New("no data row fills the header")
)

// ParseDelimited parses text as a table separated by delim. The first
// record is the header. Short records are padded with missing cells; a
// record wider than the header rejects the delimiter. The header needs at
// least two fields and at least one data row must fill it. Blank lines are
// ignored and quotes are lenient.
func ParseDelimited(text string, delim rune) (*model.Table, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("delimiter %q: %w", delim, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("delimiter %q: %w", delim, errNoDataRows)
	}
	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("delimiter %q: %w", delim, errTooFewColumns)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("delimiter %q: %w", delim, errNoDataRows)
	}

	full := false
	for i, rec := range records[1:] {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("delimiter %q: record %d has %d fields, header has %d",
				delim, i+2, len(rec), len(header))
		}
		full = full || len(rec) == len(header)
	}
	if !full {
		return nil, fmt.Errorf("delimiter %q: %w", delim, errNoFullRow)
	}

	return model.FromGrid(header, records[1:]), nil
}
