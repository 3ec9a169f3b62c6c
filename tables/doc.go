// Package tables detects ruled tables on PDF pages and fills their cells.
//
// # Grid Detection
//
// A [GridDetector] works on the ruling lines of a page:
//
//  1. Lines shorter than MinLineLength are dropped
//  2. Remaining lines are split into horizontal and vertical rules
//  3. Rules that cross or touch are clustered, one cluster per table
//  4. Within a cluster, rules at the same position are merged
//  5. Rules spanning less than half the table are discarded
//
// Each surviving cluster yields a [Grid] with a confidence score (0-1)
// based on cell count, spacing regularity, border completeness and line
// coverage.
//
// # Cell Assignment
//
// [FillGrid] places text fragments into cells by their centre point:
//
//	for _, g := range tables.NewGridDetector().Detect(lines) {
//		rows := tables.FillGrid(g, fragments)
//		...
//	}
package tables
