package trend

import (
	"fmt"

	"sheetsight/internal/analytics"
	"sheetsight/pkg/contracts/domain"
)

const (
	minClassifyPoints   = 3
	minVolatilityPoints = 6
	minRunLength        = 3
)

// Classify compares the mean of the first half of the series with the
// second half and looks for volatility and sustained runs.
func Classify(values []float64) domain.TrendClassification {
	n := len(values)
	if n < minClassifyPoints {
		return domain.TrendClassification{Trend: domain.TrendInsufficientData, Patterns: []domain.Pattern{}}
	}

	half := n / 2
	firstAvg := mean(values[:half])
	secondAvg := mean(values[half:])
	change := analytics.Ratio(secondAvg-firstAvg, firstAvg) * 100

	return domain.TrendClassification{
		Trend:         classOf(change),
		ChangePercent: analytics.Round2(change),
		Patterns:      patterns(values),
		Summary: &domain.TrendSummary{
			FirstPeriodAvg:  analytics.Round2(firstAvg),
			SecondPeriodAvg: analytics.Round2(secondAvg),
			PeriodCount:     n,
		},
	}
}

func classOf(change float64) domain.TrendClass {
	switch {
	case change > 10:
		return domain.TrendStrongGrowth
	case change > 3:
		return domain.TrendModerateGrowth
	case change > -3:
		return domain.TrendStable
	case change > -10:
		return domain.TrendModerateDecline
	default:
		return domain.TrendStrongDecline
	}
}

func patterns(values []float64) []domain.Pattern {
	n := len(values)
	out := []domain.Pattern{}

	if n >= minVolatilityPoints {
		var up, down int
		for i := 1; i < n; i++ {
			switch {
			case values[i] > values[i-1]:
				up++
			case values[i] < values[i-1]:
				down++
			}
		}
		if float64(abs(up-down)) < float64(n)/4 {
			out = append(out, domain.Pattern{Type: "volatility", Description: "High variability in values"})
		}
	}

	if run := firstRun(values, 1); run > 0 {
		out = append(out, domain.Pattern{
			Type:        "momentum",
			Description: fmt.Sprintf("%d consecutive periods of growth", run),
			Length:      run,
		})
	}
	if run := firstRun(values, -1); run > 0 {
		out = append(out, domain.Pattern{
			Type:        "warning",
			Description: fmt.Sprintf("%d consecutive periods of decline", run),
			Length:      run,
		})
	}
	return out
}

// firstRun returns the length of the first run of at least minRunLength
// strict steps in direction sign (1 up, -1 down), or 0 when none exists.
// Any other step, flat ones included, ends a run.
func firstRun(values []float64, sign int) int {
	run := 0
	for i := 1; i <= len(values); i++ {
		if i < len(values) && stepSign(values[i]-values[i-1]) == sign {
			run++
			continue
		}
		if run >= minRunLength {
			return run
		}
		run = 0
	}
	return 0
}

func stepSign(d float64) int {
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	default:
		return 0
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
