// Package ocr turns scanned table images into tables.
//
// Images are binarized, passed to a word-level recognizer and the resulting
// tokens are clustered into rows by position. The Tesseract recognizer is
// compiled in with the "ocr" build tag and requires Tesseract on the
// system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// Without the tag, New returns ErrOCRNotEnabled.
package ocr

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tsawler/tabmerge/internal/logging"
	"github.com/tsawler/tabmerge/model"
)

const (
	DefaultLanguage    = "eng"
	DefaultPageSegMode = 3 // fully automatic
)

// Recognizer extracts word tokens from a PNG image.
type Recognizer interface {
	Tokens(png []byte) ([]Token, error)
	Close() error
}

// Factory creates a recognizer for one image.
type Factory func() (Recognizer, error)

// Options configures recognition and row clustering.
type Options struct {
	Language    string
	PageSegMode int
	RowRatio    float64
}

// DefaultOptions returns English, automatic page segmentation and a row
// threshold of half the mean token height.
func DefaultOptions() Options {
	return Options{
		Language:    DefaultLanguage,
		PageSegMode: DefaultPageSegMode,
		RowRatio:    DefaultRowRatio,
	}
}

// Extractor reads tables from image files.
type Extractor struct {
	opts          Options
	newRecognizer Factory
	logger        *slog.Logger
}

// NewExtractor creates an extractor backed by the Tesseract client.
// A nil logger discards output.
func NewExtractor(opts Options, logger *slog.Logger) *Extractor {
	e := &Extractor{opts: opts, logger: logging.OrDiscard(logger)}
	e.newRecognizer = func() (Recognizer, error) {
		c, err := New(opts.Language, opts.PageSegMode)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return e
}

// WithRecognizer replaces the recognizer factory.
func (e *Extractor) WithRecognizer(f Factory) *Extractor {
	e.newRecognizer = f
	return e
}

// ExtractFile reads the image at path and reconstructs its table.
func (e *Extractor) ExtractFile(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := e.ExtractImage(f)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("image table reconstructed", "file", path, "rows", t.RowCount(), "columns", t.ColCount())
	return t, nil
}

// ExtractImage reconstructs the table in an encoded image. A fresh
// recognizer is created for the image and closed before returning.
func (e *Extractor) ExtractImage(r io.Reader) (*model.Table, error) {
	img, err := Preprocess(r)
	if err != nil {
		return nil, err
	}

	rec, err := e.newRecognizer()
	if err != nil {
		return nil, fmt.Errorf("starting recognizer: %w", err)
	}
	defer func() {
		if cerr := rec.Close(); cerr != nil {
			e.logger.Warn("closing recognizer", "error", cerr)
		}
	}()

	tokens, err := rec.Tokens(img)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("tokens recognized", "count", len(tokens))

	return Reconstruct(tokens, e.opts.RowRatio)
}
