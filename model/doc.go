// Package model provides the intermediate representation shared by every
// extractor: the normalized [Table], the error taxonomy, and the geometric
// primitives used when reconstructing tables from positioned text.
//
// # Tables
//
// A [Table] is an ordered list of unique column names plus rows of string
// cells. Every row has exactly one cell per column. The empty string is the
// missing-value marker, so a cell that was absent, null or blank in the source
// is stored as "".
//
//	t := model.NewTable([]string{"id", "name"})
//	t.AppendRow([]string{"1", "Alice"})
//
// Tables coming from different files are merged with [Concat], which takes the
// union of their columns and fills absent cells with the missing marker.
//
// # Headers
//
// Raw header rows are passed through [NormalizeHeader] before a table is
// built. Blank names become Column_<n> and repeated names get a numeric
// suffix (name, name.1, name.2).
//
// # Errors
//
// Extractors wrap one of the sentinel errors ([ErrFileNotFound],
// [ErrUnsupportedFormat], [ErrUnsupportedStructure], [ErrNoParsableStructure],
// [ErrNoEngineSucceeded], [ErrNoTabularData], [ErrOutputWrite]) so callers can
// classify failures with errors.Is or [KindOf].
//
// # Geometry
//
//   - [BBox] - bounding box in PDF coordinates (origin bottom-left)
//   - [Point] - 2D point
//   - [TextFragment] - a positioned word
//   - [Line] - a ruling line drawn on a page
package model
