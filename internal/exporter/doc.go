// Package exporter writes report results as CSV.
//
// CSVWriter is the low level writer (headers, append mode, UTF-8 BOM for
// Excel). MetricsOptions and ComparisonOptions turn a report's metrics or
// a comparison summary into rows for it.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(logger)
//	err := w.WriteFile("out/metrics.csv", exporter.MetricsOptions(payload.Metrics))
package exporter
