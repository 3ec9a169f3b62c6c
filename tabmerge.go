// Package tabmerge normalizes a directory of heterogeneous documents into
// tables and merges them into one XLSX workbook.
//
// Spreadsheets, delimited text, JSON, XML, HTML, scanned images and PDFs are
// each read by a dedicated extractor. Every file is handled independently:
// one bad file is recorded in the report and the batch carries on.
//
// Basic usage:
//
//	report := tabmerge.NewAggregator(nil, nil).Run("uploads", "merged.xlsx")
//	if !report.Success {
//	    log.Println("Errors:", report.Errors)
//	}
//
// With configuration and logging:
//
//	cfg, err := config.Load("tabmerge.yaml")
//	if err != nil {
//	    // handle error
//	}
//	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
//	report := tabmerge.NewAggregator(cfg, logger).Run("uploads", "")
//
// A single file can be converted without a batch:
//
//	t, err := tabmerge.ProcessFile("sales.csv")
//
// For lower-level access, the extractor packages (delimited, spreadsheet,
// structured, htmldoc, ocr, pdfdoc) can be used directly.
package tabmerge

import (
	"github.com/tsawler/tabmerge/model"
)

// ProcessFile extracts the table in one file using the default
// configuration and no logging.
//
// Example:
//
//	t, err := tabmerge.ProcessFile("inventory.xlsx")
func ProcessFile(path string) (*model.Table, error) {
	return NewDispatcher(nil, nil).ProcessFile(path)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	t := tabmerge.Must(tabmerge.ProcessFile("prices.json"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
