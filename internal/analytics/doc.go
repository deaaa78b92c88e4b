// Package analytics turns a normalized table into report figures.
//
// Calculate derives the standard metrics (column totals, averages and
// extremes for horizontal sheets, extracted label/value pairs for vertical
// ones) plus a few report-type specific figures. BuildCharts picks chart
// series from the same table and SummaryTable builds the bounded preview.
//
// All functions are pure: they read the table and return new values.
// Derived values are rounded to two decimals and every ratio is guarded
// against a zero or negative denominator.
package analytics
