package analytics

import (
	"sort"
	"strings"

	"sheetsight/internal/dataprocessing"
	"sheetsight/pkg/contracts/domain"
)

const (
	chartSampleRows     = 5
	maxBarPoints        = 10
	maxTrendPoints      = 12
	maxOverviewMetrics  = 8
	maxRateMetrics      = 6
	maxSubTableRows     = 10
	maxPieSlices        = 8
	maxSubTablePieSlice = 6
	unknownLabel        = "Unknown"
)

var labelColumnKeywords = []string{"product", "category", "campaign", "name", "region", "month"}

// BuildCharts produces chart descriptors from a normalized table. A
// horizontal table with a numeric column always gets its bar chart; pie,
// line and vertical sub-table charts need two or more points.
func BuildCharts(table *domain.NormalizedTable) []domain.Chart {
	if table.Format.IsVertical() {
		return verticalCharts(table)
	}
	return horizontalCharts(table)
}

func verticalCharts(table *domain.NormalizedTable) []domain.Chart {
	var charts []domain.Chart

	bySection := make(map[string][]domain.ExtractedMetric)
	for _, m := range table.ExtractedMetrics {
		if m.Value == 0 {
			continue
		}
		bySection[m.Section] = append(bySection[m.Section], m)
	}

	overview := bySection["main"]
	if len(overview) == 0 {
		overview = bySection["summary_statistics"]
	}
	var overviewData []domain.ChartPoint
	for _, m := range overview {
		if m.Unit == dataprocessing.UnitPercent || m.Value <= 0 {
			continue
		}
		overviewData = append(overviewData, domain.ChartPoint{Label: m.Name, Value: Round2(m.Value)})
		if len(overviewData) == maxOverviewMetrics {
			break
		}
	}
	if len(overviewData) >= 2 {
		charts = append(charts, domain.Chart{
			ID:         "main-metrics-bar",
			Title:      "Key Metrics Overview",
			Type:       domain.ChartBar,
			Data:       overviewData,
			XAxisLabel: "Metric",
			YAxisLabel: "Value",
		})
	}

	for _, sec := range table.Sections {
		if chart, ok := subTableChart(sec); ok {
			charts = append(charts, chart)
		}
	}

	var rateData []domain.ChartPoint
	for _, m := range table.ExtractedMetrics {
		if m.Unit != dataprocessing.UnitPercent || m.Value <= 0 || m.Value > 100 {
			continue
		}
		rateData = append(rateData, domain.ChartPoint{Label: m.Name, Value: Round2(m.Value)})
		if len(rateData) == maxRateMetrics {
			break
		}
	}
	if len(rateData) >= 2 {
		charts = append(charts, domain.Chart{
			ID:         "percentage-metrics",
			Title:      "Rate Metrics (%)",
			Type:       domain.ChartBar,
			Data:       rateData,
			XAxisLabel: "Metric",
			YAxisLabel: "Percentage",
		})
	}

	return charts
}

// subTableChart charts the first numeric column of a sub-table against its
// label column. Small tables become pie charts.
func subTableChart(sec domain.Section) (domain.Chart, bool) {
	if !sec.IsTable() || len(sec.Table.Rows) < 2 || len(sec.Table.Keys) < 2 {
		return domain.Chart{}, false
	}
	t := sec.Table
	labelKey := t.Keys[0]

	numericKey := ""
	for _, k := range t.Keys[1:] {
		if _, ok := cellDecorated(t.Rows[0][k]); ok {
			numericKey = k
			break
		}
	}
	if numericKey == "" {
		return domain.Chart{}, false
	}

	rows := t.Rows
	if len(rows) > maxSubTableRows {
		rows = rows[:maxSubTableRows]
	}
	var data []domain.ChartPoint
	for _, row := range rows {
		v, _ := cellDecorated(row[numericKey])
		if v == 0 {
			continue
		}
		label := strings.TrimSpace(row[labelKey].Text())
		if label == "" {
			label = unknownLabel
		}
		data = append(data, domain.ChartPoint{Label: label, Value: Round2(v)})
	}
	if len(data) < 2 {
		return domain.Chart{}, false
	}

	chartType := domain.ChartBar
	if len(data) <= maxSubTablePieSlice {
		chartType = domain.ChartPie
	}
	section := strings.TrimSuffix(sec.Name, "_table")
	return domain.Chart{
		ID:         sec.Name + "-chart",
		Title:      dataprocessing.FormatColumnName(section) + " - " + dataprocessing.FormatColumnName(numericKey),
		Type:       chartType,
		Data:       data,
		XAxisLabel: dataprocessing.FormatColumnName(labelKey),
		YAxisLabel: dataprocessing.FormatColumnName(numericKey),
	}, true
}

func horizontalCharts(table *domain.NormalizedTable) []domain.Chart {
	if len(table.Columns) == 0 || len(table.Rows) == 0 {
		return nil
	}
	numeric := NumericColumns(table, chartSampleRows)
	if len(numeric) == 0 {
		return nil
	}

	labelCol := LabelColumn(table.Columns)
	primary := numeric[0]
	primaryName := dataprocessing.FormatColumnName(primary)
	labelName := dataprocessing.FormatColumnName(labelCol)

	labels, totals := groupSum(table.Rows, labelCol, primary)
	var barData []domain.ChartPoint
	for _, l := range labels {
		barData = append(barData, domain.ChartPoint{Label: l, Value: Round2(totals[l])})
		if len(barData) == maxBarPoints {
			break
		}
	}

	charts := []domain.Chart{{
		ID:         "main-bar-chart",
		Title:      primaryName + " by " + labelName,
		Type:       domain.ChartBar,
		Data:       barData,
		XAxisLabel: labelName,
		YAxisLabel: primaryName,
	}}
	if len(barData) >= 2 && len(barData) <= maxPieSlices {
		charts = append(charts, domain.Chart{
			ID:    "distribution-pie-chart",
			Title: primaryName + " Distribution",
			Type:  domain.ChartPie,
			Data:  barData,
		})
	}

	if dateCol, ok := dataprocessing.DateColumn(table.Columns); ok {
		dates, byDate := groupSum(table.Rows, dateCol, primary)
		sort.Strings(dates)
		if len(dates) > maxTrendPoints {
			dates = dates[:maxTrendPoints]
		}
		if len(dates) >= 2 {
			data := make([]domain.ChartPoint, 0, len(dates))
			for _, d := range dates {
				data = append(data, domain.ChartPoint{Label: d, Value: Round2(byDate[d])})
			}
			charts = append(charts, domain.Chart{
				ID:         "trend-line-chart",
				Title:      primaryName + " Over Time",
				Type:       domain.ChartLine,
				Data:       data,
				XAxisLabel: dataprocessing.FormatColumnName(dateCol),
				YAxisLabel: primaryName,
			})
		}
	}

	return charts
}

// LabelColumn picks the column used to label chart points
func LabelColumn(columns []string) string {
	for _, col := range columns {
		if dataprocessing.ContainsAny(strings.ToLower(col), labelColumnKeywords...) {
			return col
		}
	}
	if len(columns) == 0 {
		return ""
	}
	return columns[0]
}

// groupSum totals valueCol per distinct keyCol text, keeping first-seen order
func groupSum(rows []domain.Row, keyCol, valueCol string) ([]string, map[string]float64) {
	totals := make(map[string]float64)
	var keys []string
	for _, row := range rows {
		key := strings.TrimSpace(row[keyCol].Text())
		if key == "" {
			key = unknownLabel
		}
		if _, seen := totals[key]; !seen {
			keys = append(keys, key)
		}
		totals[key] += dataprocessing.CellNumberOrZero(row[valueCol])
	}
	return keys, totals
}
