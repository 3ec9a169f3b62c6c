// Package pdfdoc extracts tables from PDF files.
//
// Each page is searched for ruled tables first. A page with no ruled grid
// falls back to its plain-text layer, which is parsed as delimited text.
// All tables found in the document are union-concatenated.
package pdfdoc

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/tsawler/tabmerge/delimited"
	"github.com/tsawler/tabmerge/internal/logging"
	"github.com/tsawler/tabmerge/model"
	"github.com/tsawler/tabmerge/tables"
)

// Options configures PDF extraction.
type Options struct {
	// LineTolerance is the distance in points within which baselines and
	// rules count as aligned.
	LineTolerance float64
	// MaxRuleThickness is the largest rectangle side, in points, that is
	// still read as a single ruling line.
	MaxRuleThickness float64
	// SkipInspection disables the structural pdfcpu pass.
	SkipInspection bool
}

// DefaultOptions returns the default extraction options.
func DefaultOptions() Options {
	return Options{LineTolerance: 2.0, MaxRuleThickness: 3.0}
}

// Extractor reads tables from PDF files.
type Extractor struct {
	opts      Options
	detector  *tables.GridDetector
	delimited *delimited.Extractor
	logger    *slog.Logger

	readPages func(path string) ([]Page, error)
	inspect   func(path string) (*Info, error)
}

// New creates a PDF extractor. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Extractor {
	logger = logging.OrDiscard(logger)
	if opts.MaxRuleThickness <= 0 {
		opts.MaxRuleThickness = DefaultOptions().MaxRuleThickness
	}

	detector := tables.NewGridDetector()
	if opts.LineTolerance > 0 {
		detector.AlignmentTolerance = opts.LineTolerance
	}

	text := delimited.DefaultOptions()
	text.FixedWidth = false

	e := &Extractor{
		opts:      opts,
		detector:  detector,
		delimited: delimited.New(text, logger),
		logger:    logger,
	}
	e.inspect = Inspect
	e.readPages = func(path string) ([]Page, error) {
		return readPages(path, detector.AlignmentTolerance, opts.MaxRuleThickness, func(page int, err error) {
			logger.Debug("page skipped", "file", path, "page", page, "error", err)
		})
	}
	return e
}

// ExtractFile returns every table found in the PDF at path as one table.
func (e *Extractor) ExtractFile(path string) (*model.Table, error) {
	var info *Info
	if !e.opts.SkipInspection {
		var err error
		if info, err = e.inspect(path); err != nil {
			e.logger.Warn("pdf inspection failed", "file", path, "error", err)
		} else {
			e.logger.Debug("pdf inspected", "file", path, "pages", info.PageCount, "image_pages", len(info.ImagePages))
		}
	}

	pages, err := e.readPages(path)
	if err != nil {
		return nil, fmt.Errorf("could not process PDF file: %w", err)
	}

	var found []*model.Table
	for _, p := range pages {
		found = append(found, e.pageTables(p, info)...)
	}

	if len(found) == 0 {
		if info.HasImages() {
			return nil, fmt.Errorf("%w: no tables in %d pages; pages %v hold only images and need OCR",
				model.ErrNoTabularData, len(pages), info.ImagePages)
		}
		return nil, fmt.Errorf("%w: no tables in %d pages", model.ErrNoTabularData, len(pages))
	}
	e.logger.Debug("pdf tables extracted", "file", path, "tables", len(found))
	return model.Concat(found...), nil
}

// pageTables returns the non-empty tables on one page.
func (e *Extractor) pageTables(p Page, info *Info) []*model.Table {
	grids := e.detector.Detect(p.Lines)
	if len(grids) > 0 {
		var out []*model.Table
		for i, g := range grids {
			if t := gridTable(tables.FillGrid(g, p.Fragments)); t != nil {
				out = append(out, t)
			} else {
				e.logger.Debug("ruled table empty", "page", p.Number, "table", i+1)
			}
		}
		return out
	}

	text := textLines(p.Fragments, e.detector.AlignmentTolerance)
	if strings.TrimSpace(text) == "" {
		if info != nil && slices.Contains(info.ImagePages, p.Number) {
			e.logger.Info("page has images but no text layer", "page", p.Number)
		}
		return nil
	}

	t, err := e.delimited.ExtractDelimiters(text)
	if err != nil {
		e.logger.Debug("page text not tabular", "page", p.Number, "error", err)
		return nil
	}
	return []*model.Table{t}
}

// gridTable turns filled grid cells into a table. The first row is the
// header unless it is entirely blank, in which case generic names are
// used and every row is data. Returns nil when nothing remains after
// dropping empty rows and columns.
func gridTable(cells [][]string) *model.Table {
	if len(cells) == 0 {
		return nil
	}

	header := cells[0]
	var t *model.Table
	if slices.ContainsFunc(header, func(s string) bool { return strings.TrimSpace(s) != "" }) {
		t = model.FromGrid(header, cells[1:])
	} else {
		t = model.FromGrid(model.GenericColumns(len(header)), cells)
	}

	t.DropEmpty()
	if t.Empty() {
		return nil
	}
	return t
}
