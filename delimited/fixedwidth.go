package delimited

import (
	"errors"
	"strings"

	"github.com/tsawler/tabmerge/model"
)

// span is a half-open range of rune positions [start, end).
type span struct {
	start, end int
}

// InferFixedWidth reads text laid out in whitespace-aligned columns. A
// column is a maximal run of character positions that hold a non-space
// character on at least one line. The first non-blank line is the header.
// Text that forms a single column is not a layout and is rejected.
func InferFixedWidth(text string) (*model.Table, error) {
	lines := nonBlankLines(text)
	if len(lines) < 2 {
		return nil, errors.New("fixed-width: need a header and at least one data line")
	}

	spans := columnSpans(lines)
	if len(spans) < 2 {
		return nil, errors.New("fixed-width: no column layout found")
	}

	header := sliceLine(lines[0], spans)
	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, sliceLine(line, spans))
	}

	return model.FromGrid(header, rows), nil
}

// nonBlankLines splits text into lines of runes, dropping blank lines.
// Tabs are expanded to single spaces so positions stay aligned with what a
// column-per-character view shows.
func nonBlankLines(text string) [][]rune {
	var out [][]rune
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, []rune(strings.ReplaceAll(line, "\t", " ")))
	}
	return out
}

func columnSpans(lines [][]rune) []span {
	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}

	occupied := make([]bool, width)
	for _, l := range lines {
		for i, r := range l {
			if r != ' ' {
				occupied[i] = true
			}
		}
	}

	var spans []span
	start := -1
	for i := 0; i <= width; i++ {
		if i < width && occupied[i] {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			spans = append(spans, span{start: start, end: i})
			start = -1
		}
	}
	return spans
}

func sliceLine(line []rune, spans []span) []string {
	cells := make([]string, len(spans))
	for i, s := range spans {
		if s.start >= len(line) {
			continue
		}
		end := min(s.end, len(line))
		cells[i] = strings.TrimSpace(string(line[s.start:end]))
	}
	return cells
}
