// Package structured turns hierarchical documents (JSON and XML) into
// normalized tables.
//
// Both formats are reduced to a list of records: ordered key/value pairs
// where each record becomes one row and the union of keys, in first-seen
// order, becomes the columns.
package structured

import (
	"github.com/tsawler/tabmerge/model"
)

// Field is one key/value pair of a record. A missing value is "".
type Field struct {
	Key   string
	Value string
}

// Record is an ordered set of fields. When a key repeats, the last value wins.
type Record []Field

// Set replaces the value of key, or appends the field when key is new.
func (r *Record) Set(key, value string) {
	for i := range *r {
		if (*r)[i].Key == key {
			(*r)[i].Value = value
			return
		}
	}
	*r = append(*r, Field{Key: key, Value: value})
}

// FromRecords builds one row per record. Columns are the union of keys in
// first-seen order; cells a record lacks are missing.
func FromRecords(records []Record) *model.Table {
	var keys []string
	index := make(map[string]int)

	for _, rec := range records {
		for _, f := range rec {
			if _, ok := index[f.Key]; !ok {
				index[f.Key] = len(keys)
				keys = append(keys, f.Key)
			}
		}
	}

	t := model.NewTable(model.NormalizeHeader(keys))
	for _, rec := range records {
		row := make([]string, len(keys))
		for _, f := range rec {
			row[index[f.Key]] = f.Value
		}
		t.AppendRow(row)
	}
	return t
}
