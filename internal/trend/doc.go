// Package trend analyses a numeric column over time.
//
// Analyze bundles growth rates, Z-score anomalies, a least-squares
// forecast, a moving average and a first-half versus second-half
// classification. None of these sort their input: rows are taken in the
// order given. ComparePeriods is the exception, it buckets rows by date
// and hands the two latest buckets to the comparison package.
package trend
