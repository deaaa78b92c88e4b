package trend

import (
	"math"

	"sheetsight/internal/analytics"
	"sheetsight/pkg/contracts/domain"
)

// GrowthRates computes period-over-period growth walking values in order.
// Growth from a previous value of zero or less is recorded as 0%.
func GrowthRates(rows []domain.Row, dateColumn string, values []float64) domain.GrowthRates {
	out := domain.GrowthRates{Periods: []domain.GrowthPeriod{}}
	if len(values) < 2 {
		return out
	}

	var rateSum float64
	for i := 1; i < len(values); i++ {
		prev, cur := values[i-1], values[i]
		rate := analytics.Round2(analytics.Ratio(cur-prev, prev) * 100)
		rateSum += rate

		var date domain.Cell
		if i < len(rows) {
			date = rows[i][dateColumn]
		}
		out.Periods = append(out.Periods, domain.GrowthPeriod{
			Date:          date,
			Value:         analytics.Round2(cur),
			PreviousValue: analytics.Round2(prev),
			GrowthRate:    rate,
			Direction:     domain.DirectionOf(rate),
		})
	}

	first, last := values[0], values[len(values)-1]
	out.Summary = &domain.GrowthSummary{
		AverageGrowthRate:  analytics.Round2(rateSum / float64(len(out.Periods))),
		CompoundGrowthRate: analytics.Round2(compoundGrowth(first, last, len(values)-1) * 100),
		TotalGrowth:        analytics.Round2(analytics.Ratio(last-first, first) * 100),
		StartValue:         analytics.Round2(first),
		EndValue:           analytics.Round2(last),
	}
	return out
}

// compoundGrowth is the per-period rate taking first to last over periods
// steps. It is 0 when first is not positive or the ratio is negative.
func compoundGrowth(first, last float64, periods int) float64 {
	if first <= 0 || periods <= 0 || last < 0 {
		return 0
	}
	return math.Pow(last/first, 1/float64(periods)) - 1
}
