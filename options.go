package tabmerge

import (
	"github.com/tsawler/tabmerge/ocr"
	"github.com/tsawler/tabmerge/spreadsheet"
)

// Option customizes the extractors behind a Dispatcher or Aggregator.
type Option func(*options)

type options struct {
	recognizer ocr.Factory
	engines    []spreadsheet.Engine
	dispatcher *Dispatcher
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithRecognizer replaces the OCR recognizer used for images.
func WithRecognizer(f ocr.Factory) Option {
	return func(o *options) { o.recognizer = f }
}

// WithSpreadsheetEngines replaces the spreadsheet engine chain.
func WithSpreadsheetEngines(engines ...spreadsheet.Engine) Option {
	return func(o *options) { o.engines = engines }
}

// WithDispatcher makes an Aggregator use d instead of building its own.
// Ignored by NewDispatcher.
func WithDispatcher(d *Dispatcher) Option {
	return func(o *options) { o.dispatcher = d }
}
