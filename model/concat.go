package model

// Concat appends the rows of every table into one table whose columns are the
// union of the input columns in first-seen order. Cells for columns a table
// does not have are filled with the missing marker. Nil tables are skipped.
// The result never shares storage with the inputs.
func Concat(tables ...*Table) *Table {
	var only *Table
	n := 0
	for _, t := range tables {
		if t != nil {
			only = t
			n++
		}
	}
	if n == 1 {
		return only.Clone()
	}

	var columns []string
	index := make(map[string]int)

	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			if _, ok := index[c]; !ok {
				index[c] = len(columns)
				columns = append(columns, c)
			}
		}
	}

	out := NewTable(columns)
	for _, t := range tables {
		if t == nil {
			continue
		}
		positions := make([]int, len(t.Columns))
		for j, c := range t.Columns {
			positions[j] = index[c]
		}
		for _, row := range t.Rows {
			merged := make([]string, len(columns))
			for j, cell := range row {
				merged[positions[j]] = cell
			}
			out.Rows = append(out.Rows, merged)
		}
	}

	return out
}
