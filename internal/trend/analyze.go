package trend

import (
	"sheetsight/internal/analytics"
	"sheetsight/internal/dataprocessing"
	"sheetsight/pkg/contracts/domain"
)

// Default analysis settings
const (
	DefaultAnomalyThreshold    = 2.0
	DefaultForecastPeriods     = 3
	DefaultMovingAverageWindow = 3
)

// Options tunes the analysis. Zero fields take the defaults.
type Options struct {
	AnomalyThreshold    float64 `yaml:"anomaly_threshold" envconfig:"ANOMALY_THRESHOLD"`
	ForecastPeriods     int     `yaml:"forecast_periods" envconfig:"FORECAST_PERIODS"`
	MovingAverageWindow int     `yaml:"moving_average_window" envconfig:"MOVING_AVERAGE_WINDOW"`
}

func (o Options) withDefaults() Options {
	if o.AnomalyThreshold <= 0 {
		o.AnomalyThreshold = DefaultAnomalyThreshold
	}
	if o.ForecastPeriods <= 0 {
		o.ForecastPeriods = DefaultForecastPeriods
	}
	if o.MovingAverageWindow <= 0 {
		o.MovingAverageWindow = DefaultMovingAverageWindow
	}
	return o
}

// Analyze runs every trend computation over valueColumn. Rows are used in
// the order given; callers wanting chronological results sort them first.
// When previous is non-nil the totals of both row sets are compared too.
func Analyze(rows []domain.Row, dateColumn, valueColumn string, previous []domain.Row, opts Options) domain.TrendAnalysis {
	opts = opts.withDefaults()
	values := seriesValues(rows, valueColumn)

	analysis := domain.TrendAnalysis{
		DateColumn:    dateColumn,
		ValueColumn:   valueColumn,
		GrowthRates:   GrowthRates(rows, dateColumn, values),
		Anomalies:     DetectAnomalies(rows, values, opts.AnomalyThreshold),
		Forecast:      LinearForecast(values, opts.ForecastPeriods),
		Trends:        Classify(values),
		MovingAverage: MovingAverage(values, opts.MovingAverageWindow),
	}
	if previous != nil {
		delta := PeriodComparison(rows, previous, valueColumn)
		analysis.PeriodComparison = &delta
	}
	return analysis
}

// PeriodComparison compares the totals of valueColumn between two row sets.
// The percentage change is 0 when the previous total is zero or less.
func PeriodComparison(current, previous []domain.Row, valueColumn string) domain.PeriodDelta {
	cur := analytics.ColumnSum(current, valueColumn)
	prev := analytics.ColumnSum(previous, valueColumn)
	change := cur - prev

	return domain.PeriodDelta{
		Current:          analytics.Round2(cur),
		Previous:         analytics.Round2(prev),
		AbsoluteChange:   analytics.Round2(change),
		PercentageChange: analytics.Round2(analytics.Ratio(change, prev) * 100),
		Direction:        domain.DirectionOf(change),
	}
}

// seriesValues reads a column as numbers, with 0 for cells that do not parse
func seriesValues(rows []domain.Row, col string) []float64 {
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = dataprocessing.CellNumberOrZero(r[col])
	}
	return values
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
