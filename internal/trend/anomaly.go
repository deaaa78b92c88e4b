package trend

import (
	"math"

	"sheetsight/internal/analytics"
	"sheetsight/pkg/contracts/domain"
)

const minAnomalyPoints = 3

// DetectAnomalies flags values whose population Z-score reaches threshold
// in absolute value. A series sitting exactly on the threshold, such as a
// single spike in four equal points at the default of 2, is flagged. With
// fewer than three points nothing is scored and the stats are nil.
func DetectAnomalies(rows []domain.Row, values []float64, threshold float64) domain.AnomalyReport {
	report := domain.AnomalyReport{Anomalies: []domain.Anomaly{}}
	if len(values) < minAnomalyPoints {
		return report
	}

	mu := mean(values)
	var variance float64
	minV, maxV := values[0], values[0]
	for _, v := range values {
		variance += (v - mu) * (v - mu)
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	std := math.Sqrt(variance / float64(len(values)))

	for i, v := range values {
		z := 0.0
		if std > 0 {
			z = (v - mu) / std
		}
		if math.Abs(z) < threshold {
			continue
		}

		kind := "low"
		if z > 0 {
			kind = "high"
		}
		var row domain.Row
		if i < len(rows) {
			row = rows[i]
		}
		deviation := math.Abs(v - mu)
		report.Anomalies = append(report.Anomalies, domain.Anomaly{
			Index:            i,
			Row:              row,
			Value:            analytics.Round2(v),
			ZScore:           analytics.Round2(z),
			Type:             kind,
			Deviation:        analytics.Round2(deviation),
			DeviationPercent: analytics.Round2(analytics.Ratio(deviation, mu) * 100),
		})
	}

	report.Stats = &domain.AnomalyStats{
		Mean:      analytics.Round2(mu),
		StdDev:    analytics.Round2(std),
		Min:       analytics.Round2(minV),
		Max:       analytics.Round2(maxV),
		Threshold: threshold,
	}
	return report
}
