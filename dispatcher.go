package tabmerge

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tsawler/tabmerge/config"
	"github.com/tsawler/tabmerge/delimited"
	"github.com/tsawler/tabmerge/format"
	"github.com/tsawler/tabmerge/htmldoc"
	"github.com/tsawler/tabmerge/internal/logging"
	"github.com/tsawler/tabmerge/model"
	"github.com/tsawler/tabmerge/ocr"
	"github.com/tsawler/tabmerge/pdfdoc"
	"github.com/tsawler/tabmerge/spreadsheet"
	"github.com/tsawler/tabmerge/structured"
)

// Dispatcher routes a file to the extractor registered for its extension.
type Dispatcher struct {
	spreadsheet *spreadsheet.Extractor
	delimited   *delimited.Extractor
	ocr         *ocr.Extractor
	pdf         *pdfdoc.Extractor
	logger      *slog.Logger
}

// NewDispatcher builds the extractors described by cfg. A nil cfg means
// config.Default() and a nil logger discards output.
func NewDispatcher(cfg *config.Config, logger *slog.Logger, opts ...Option) *Dispatcher {
	if cfg == nil {
		cfg = config.Default()
	}
	logger = logging.OrDiscard(logger)

	o := buildOptions(opts)

	text := delimited.Options{
		Encodings:  cfg.Delimited.Encodings,
		Delimiters: delimited.Runes(cfg.Delimited.Delimiters),
		FixedWidth: !cfg.Delimited.DisableFixedWidth,
	}

	images := ocr.NewExtractor(ocr.Options{
		Language:    cfg.OCR.Language,
		PageSegMode: cfg.OCR.PageSegMode,
		RowRatio:    cfg.OCR.RowRatio,
	}, logger)
	if o.recognizer != nil {
		images.WithRecognizer(o.recognizer)
	}

	return &Dispatcher{
		spreadsheet: spreadsheet.New(logger, o.engines...),
		delimited:   delimited.New(text, logger),
		ocr:         images,
		pdf: pdfdoc.New(pdfdoc.Options{
			LineTolerance:    cfg.PDF.LineTolerance,
			MaxRuleThickness: cfg.PDF.MaxRuleThickness,
			SkipInspection:   cfg.PDF.SkipInspection,
		}, logger),
		logger: logger,
	}
}

// ProcessFile extracts the table in the file at path. The handler is
// chosen by extension alone; its table or error is returned unchanged.
func (d *Dispatcher) ProcessFile(path string) (*model.Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", model.ErrFileNotFound, path)
		}
		return nil, err
	}

	kind := format.Detect(path)
	if kind == format.Unknown {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedFormat, filepath.Ext(path))
	}

	if sniffed, err := format.SniffFile(path); err == nil && sniffed != format.Unknown && sniffed != kind {
		d.logger.Warn("file content does not match extension", "file", path, "extension", kind, "content", sniffed)
	}
	d.logger.Debug("processing file", "file", path, "format", kind)

	switch kind {
	case format.Spreadsheet:
		return d.spreadsheet.ExtractFile(path)
	case format.Delimited:
		return d.delimited.ExtractFile(path)
	case format.JSON:
		return structured.ParseJSONFile(path)
	case format.XML:
		return structured.ParseXMLFile(path)
	case format.HTML:
		return htmldoc.ExtractFile(path)
	case format.Image:
		return d.ocr.ExtractFile(path)
	case format.PDF:
		return d.pdf.ExtractFile(path)
	default:
		return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedFormat, kind)
	}
}
