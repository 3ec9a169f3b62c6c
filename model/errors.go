package model

import "errors"

// Failure kinds reported per file. Extractors wrap these with context.
var (
	// ErrFileNotFound is returned when the input path does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrUnsupportedFormat is returned for extensions with no registered handler.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrUnsupportedStructure is returned when JSON/XML/HTML content is not
	// list-like or mapping-like, or yields zero rows.
	ErrUnsupportedStructure = errors.New("unsupported structure")
	// ErrNoParsableStructure is returned when no delimiter and no fixed-width
	// layout produced a table.
	ErrNoParsableStructure = errors.New("no parsable structure")
	// ErrNoEngineSucceeded is returned when every spreadsheet engine failed.
	ErrNoEngineSucceeded = errors.New("no spreadsheet engine succeeded")
	// ErrNoTabularData is returned when OCR or PDF extraction found no table.
	ErrNoTabularData = errors.New("no tabular data")
	// ErrOutputWrite is returned when the combined table cannot be written.
	ErrOutputWrite = errors.New("output write failure")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrFileNotFound, "FileNotFound"},
	{ErrUnsupportedFormat, "UnsupportedFormat"},
	{ErrUnsupportedStructure, "UnsupportedStructure"},
	{ErrNoParsableStructure, "NoParsableStructure"},
	{ErrNoEngineSucceeded, "NoEngineSucceeded"},
	{ErrNoTabularData, "NoTabularData"},
	{ErrOutputWrite, "OutputWriteFailure"},
}

// KindOf returns the failure kind name of err, or "Unknown".
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Unknown"
}
