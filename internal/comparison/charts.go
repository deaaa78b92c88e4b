package comparison

import (
	"sheetsight/internal/dataprocessing"
	"sheetsight/pkg/contracts/domain"
)

const (
	chartGroupedBar   = "grouped_bar"
	chartBar          = "bar"
	maxSummaryColumns = 5
	maxChangeColumns  = 8
	maxDetailRows     = 10
)

func buildCharts(r *domain.ComparisonResult) []domain.ComparisonChart {
	series := []string{r.Labels[0], r.Labels[1]}

	summary := make([]domain.ComparisonPoint, 0, maxSummaryColumns)
	change := make([]domain.ComparisonPoint, 0, maxChangeColumns)
	for i, s := range r.Summary {
		label := dataprocessing.FormatColumnName(s.Column)
		if i < maxSummaryColumns {
			summary = append(summary, domain.ComparisonPoint{Label: label, ValueA: s.ValueA, ValueB: s.ValueB})
		}
		if i < maxChangeColumns {
			change = append(change, domain.ComparisonPoint{Label: label, Change: s.PercentageChange, Direction: s.Direction})
		}
	}

	charts := []domain.ComparisonChart{
		{ID: "summary-comparison", Title: "Key Metrics Comparison", Type: chartGroupedBar, Series: series, Data: summary},
		{ID: "change-chart", Title: "Percentage Change", Type: chartBar, Data: change},
	}

	if len(r.Details) == 0 || r.PrimaryKey == "" || len(r.Details[0].Comparisons) == 0 {
		return charts
	}

	top := r.Details
	if len(top) > maxDetailRows {
		top = top[:maxDetailRows]
	}
	column := top[0].Comparisons[0].Column

	detail := make([]domain.ComparisonPoint, 0, len(top))
	for _, d := range top {
		p := domain.ComparisonPoint{Label: d.Key}
		for _, c := range d.Comparisons {
			if c.Column == column {
				p.ValueA, p.ValueB, p.Change = c.ValueA, c.ValueB, c.Change
				break
			}
		}
		detail = append(detail, p)
	}

	return append(charts, domain.ComparisonChart{
		ID:     "detail-comparison",
		Title:  dataprocessing.FormatColumnName(column) + " by " + dataprocessing.FormatColumnName(r.PrimaryKey),
		Type:   chartGroupedBar,
		Series: series,
		Data:   detail,
	})
}
