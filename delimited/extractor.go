// Package delimited extracts tables from delimited or column-aligned text.
//
// Candidate delimiters are tried in priority order (comma, tab, pipe,
// semicolon by default) and the first that produces a well-formed table
// wins. When none does, the text is read as fixed-width columns.
package delimited

import (
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/tsawler/tabmerge/internal/fallback"
	"github.com/tsawler/tabmerge/internal/logging"
	"github.com/tsawler/tabmerge/model"
)

// Options controls extraction.
type Options struct {
	// Encodings are tried in order for input without a byte order mark.
	Encodings []string
	// Delimiters are tried in order. Each must be a single character.
	Delimiters []rune
	// FixedWidth enables the fixed-width fallback.
	FixedWidth bool
}

// DefaultOptions returns the standard encoding list, delimiter order and
// fixed-width fallback.
func DefaultOptions() Options {
	return Options{
		Encodings:  []string{"utf-8", "latin1", "iso-8859-1"},
		Delimiters: []rune{',', '\t', '|', ';'},
		FixedWidth: true,
	}
}

// Runes converts single-character strings to runes, skipping anything else.
func Runes(delims []string) []rune {
	out := make([]rune, 0, len(delims))
	for _, d := range delims {
		if utf8.RuneCountInString(d) == 1 {
			r, _ := utf8.DecodeRuneInString(d)
			out = append(out, r)
		}
	}
	return out
}

// Extractor reads tables from text files.
type Extractor struct {
	opts   Options
	logger *slog.Logger
}

// New creates an extractor. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Extractor {
	if len(opts.Delimiters) == 0 {
		opts.Delimiters = DefaultOptions().Delimiters
	}
	if len(opts.Encodings) == 0 {
		opts.Encodings = DefaultOptions().Encodings
	}
	return &Extractor{opts: opts, logger: logging.OrDiscard(logger)}
}

// ExtractFile reads, decodes and extracts a table from the file at path.
func (e *Extractor) ExtractFile(path string) (*model.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	text, enc, err := Decode(data, e.opts.Encodings)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("decoded text", "file", path, "encoding", enc)

	return e.Extract(text)
}

// Extract runs the delimiter chain and then, if enabled, the fixed-width
// fallback.
func (e *Extractor) Extract(text string) (*model.Table, error) {
	attempts := e.delimiterAttempts(text)
	if e.opts.FixedWidth {
		attempts = append(attempts, fallback.Attempt[*model.Table]{
			Name: "fixed-width",
			Run:  func() (*model.Table, error) { return InferFixedWidth(text) },
		})
	}
	return e.run(attempts)
}

// ExtractDelimiters runs only the delimiter chain.
func (e *Extractor) ExtractDelimiters(text string) (*model.Table, error) {
	return e.run(e.delimiterAttempts(text))
}

func (e *Extractor) run(attempts []fallback.Attempt[*model.Table]) (*model.Table, error) {
	t, name, err := fallback.First(e.logger, attempts...)
	if err != nil {
		return nil, fmt.Errorf("%w: no delimiter or column layout matched", model.ErrNoParsableStructure)
	}
	e.logger.Debug("text parsed", "strategy", name, "rows", t.RowCount(), "columns", t.ColCount())
	return t, nil
}

func (e *Extractor) delimiterAttempts(text string) []fallback.Attempt[*model.Table] {
	attempts := make([]fallback.Attempt[*model.Table], 0, len(e.opts.Delimiters)+1)
	for _, d := range e.opts.Delimiters {
		attempts = append(attempts, fallback.Attempt[*model.Table]{
			Name: fmt.Sprintf("delimiter %q", d),
			Run:  func() (*model.Table, error) { return ParseDelimited(text, d) },
		})
	}
	return attempts
}
