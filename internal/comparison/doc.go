// Package comparison aligns normalized datasets and reports what changed.
//
// Compare handles the two-dataset case: column totals with absolute and
// percentage change, an optional row-level join on a primary key, chart
// series and short insights. CompareMultiple ranks any number of datasets
// by their column totals.
package comparison
