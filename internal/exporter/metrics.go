package exporter

import (
	"sheetsight/pkg/contracts/domain"
)

// MetricsHeaders are the columns of a metrics export
var MetricsHeaders = []string{"name", "value", "unit", "section", "is_template_kpi"}

// ComparisonHeaders are the columns of a comparison summary export
var ComparisonHeaders = []string{"column", "value_a", "value_b", "absolute_change", "percentage_change", "direction"}

// MetricsRecords flattens a report's metrics in payload order
func MetricsRecords(metrics []domain.Metric) [][]string {
	records := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		records = append(records, []string{
			m.Name,
			formatFloat(m.Value),
			m.Unit,
			m.Section,
			formatBool(m.IsTemplateKPI),
		})
	}
	return records
}

// MetricsOptions builds the write options for a metrics export
func MetricsOptions(metrics []domain.Metric) WriteOptions {
	return WriteOptions{
		Headers:   MetricsHeaders,
		Records:   MetricsRecords(metrics),
		BOMPrefix: true,
	}
}

// ComparisonOptions builds the write options for the per-column summary
// of a comparison
func ComparisonOptions(result *domain.ComparisonResult) WriteOptions {
	records := make([][]string, 0, len(result.Summary))
	for _, s := range result.Summary {
		records = append(records, []string{
			s.Column,
			formatFloat(s.ValueA),
			formatFloat(s.ValueB),
			formatFloat(s.AbsoluteChange),
			formatFloat(s.PercentageChange),
			string(s.Direction),
		})
	}
	return WriteOptions{Headers: ComparisonHeaders, Records: records, BOMPrefix: true}
}
