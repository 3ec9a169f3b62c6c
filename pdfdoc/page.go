package pdfdoc

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/tabmerge/model"
)

// Page is the positioned content of one PDF page.
type Page struct {
	Number    int
	Fragments []model.TextFragment
	Lines     []model.Line
}

// wordGap is the horizontal gap, as a fraction of the font size, above
// which two glyphs belong to different words.
const wordGap = 0.3

// readPages loads every page of the PDF at path. Pages the parser cannot
// decode are skipped and reported through skip.
func readPages(path string, tolerance, maxThickness float64, skip func(page int, err error)) (pages []Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	n := r.NumPage()
	for i := 1; i <= n; i++ {
		p, err := readPage(r, i, tolerance, maxThickness)
		if err != nil {
			skip(i, err)
			continue
		}
		pages = append(pages, p)
	}
	return pages, nil
}

func readPage(r *pdf.Reader, n int, tolerance, maxThickness float64) (p Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()

	page := r.Page(n)
	if page.V.IsNull() {
		return Page{}, errors.New("missing page object")
	}
	content := page.Content()

	p = Page{Number: n, Fragments: mergeGlyphs(content.Text, tolerance)}
	for _, rect := range content.Rect {
		box := model.BBoxFromCorners(
			model.Point{X: rect.Min.X, Y: rect.Min.Y},
			model.Point{X: rect.Max.X, Y: rect.Max.Y},
		)
		p.Lines = append(p.Lines, model.LinesFromRect(box, maxThickness)...)
	}
	return p, nil
}

// mergeGlyphs joins positioned glyphs into word fragments. Glyphs are
// grouped into lines by baseline, ordered left to right, and split at
// whitespace glyphs or gaps wider than wordGap times the font size.
func mergeGlyphs(glyphs []pdf.Text, tolerance float64) []model.TextFragment {
	lines := groupByBaseline(glyphs, tolerance,
		func(g pdf.Text) float64 { return g.Y },
		func(g pdf.Text) float64 { return g.X })

	var out []model.TextFragment
	for _, line := range lines {
		var (
			word  strings.Builder
			start pdf.Text
			right float64
		)
		flush := func() {
			if word.Len() == 0 {
				return
			}
			out = append(out, model.TextFragment{
				Text:     word.String(),
				BBox:     model.NewBBox(start.X, start.Y, right-start.X, start.FontSize),
				FontSize: start.FontSize,
				FontName: start.Font,
			})
			word.Reset()
		}

		for _, g := range line {
			if strings.TrimFunc(g.S, unicode.IsSpace) == "" {
				flush()
				continue
			}
			if word.Len() > 0 && g.X-right > wordGap*math.Max(g.FontSize, 1) {
				flush()
			}
			if word.Len() == 0 {
				start, right = g, g.X+g.W
			} else {
				right = math.Max(right, g.X+g.W)
			}
			word.WriteString(g.S)
		}
		flush()
	}
	return out
}

// textLines renders fragments as plain text, one output line per baseline.
func textLines(fragments []model.TextFragment, tolerance float64) string {
	lines := groupByBaseline(fragments, tolerance,
		func(f model.TextFragment) float64 { return f.BBox.Bottom() },
		func(f model.TextFragment) float64 { return f.BBox.Left() })

	var sb strings.Builder
	for _, line := range lines {
		for i, f := range line {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(f.Text)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// groupByBaseline orders items top to bottom and splits them into lines
// wherever consecutive baselines differ by more than tolerance. Each line
// is ordered left to right.
func groupByBaseline[T any](items []T, tolerance float64, y, x func(T) float64) [][]T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int { return cmp.Compare(y(b), y(a)) })

	var lines [][]T
	for i, it := range sorted {
		if i == 0 || y(sorted[i-1])-y(it) > tolerance {
			lines = append(lines, nil)
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], it)
	}
	for _, line := range lines {
		slices.SortStableFunc(line, func(a, b T) int { return cmp.Compare(x(a), x(b)) })
	}
	return lines
}
