package trend

import (
	"math"

	"sheetsight/internal/analytics"
	"sheetsight/pkg/contracts/domain"
)

const minForecastPoints = 3

// LinearForecast fits an ordinary least-squares line against the point
// index and projects it periods steps past the end. Predictions are
// clamped at zero. Fewer than three points give an empty, low confidence
// forecast.
func LinearForecast(values []float64, periods int) domain.Forecast {
	if len(values) < minForecastPoints {
		return domain.Forecast{Predictions: []domain.Prediction{}, Confidence: domain.ConfidenceLow}
	}

	n := len(values)
	xMean := float64(n-1) / 2
	yMean := mean(values)

	var num, den float64
	for i, v := range values {
		dx := float64(i) - xMean
		num += dx * (v - yMean)
		den += dx * dx
	}
	slope := 0.0
	if den > 0 {
		slope = num / den
	}
	intercept := yMean - slope*xMean

	var ssTotal, ssResidual float64
	for i, v := range values {
		ssTotal += (v - yMean) * (v - yMean)
		r := v - (intercept + slope*float64(i))
		ssResidual += r * r
	}
	rSquared := 0.0
	if ssTotal > 0 {
		rSquared = 1 - ssResidual/ssTotal
	}

	stepTrend, direction := "stable", "flat"
	switch {
	case slope > 0:
		stepTrend, direction = "increasing", "upward"
	case slope < 0:
		stepTrend, direction = "decreasing", "downward"
	}

	predictions := make([]domain.Prediction, 0, periods)
	for i := 1; i <= periods; i++ {
		predicted := intercept + slope*float64(n-1+i)
		predictions = append(predictions, domain.Prediction{
			Period:         i,
			PredictedValue: analytics.Round2(math.Max(0, predicted)),
			Trend:          stepTrend,
		})
	}

	return domain.Forecast{
		Predictions: predictions,
		Model: &domain.RegressionModel{
			Slope:     analytics.Round2(slope),
			Intercept: analytics.Round2(intercept),
			RSquared:  analytics.Round2(rSquared),
		},
		Confidence:     confidence(rSquared),
		TrendDirection: direction,
	}
}

func confidence(rSquared float64) string {
	switch {
	case rSquared > 0.7:
		return domain.ConfidenceHigh
	case rSquared > 0.4:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// MovingAverage is the trailing mean over window points. The first
// window-1 entries are nil because they lack enough history.
func MovingAverage(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i < window-1 {
			continue
		}
		avg := analytics.Round2(sum / float64(window))
		out[i] = &avg
	}
	return out
}
