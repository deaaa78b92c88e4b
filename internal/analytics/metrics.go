package analytics

import (
	"math"
	"strings"

	"sheetsight/internal/dataprocessing"
	"sheetsight/pkg/contracts/domain"
)

const numericSampleRows = 10

// subTableNumericKeywords mark sub-table headers that hold numbers
var subTableNumericKeywords = []string{
	"impression", "click", "view", "ctr", "rate", "user",
	"total", "unique", "value", "amount", "count",
}

// Round2 rounds half away from zero to two decimals. Non-finite input
// yields 0.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

// Ratio returns num/den, or 0 when den is zero or negative
func Ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

// Calculate derives the standard metrics for a normalized table
func Calculate(table *domain.NormalizedTable, reportType domain.ReportType) []domain.Metric {
	if table.Format.IsVertical() {
		return verticalMetrics(table)
	}

	var metrics []domain.Metric
	for _, col := range NumericColumns(table, numericSampleRows) {
		metrics = append(metrics, columnMetrics(table, col)...)
	}

	switch reportType {
	case domain.ReportTypeSales:
		metrics = append(metrics, salesMetrics(table)...)
	case domain.ReportTypeFinancial:
		metrics = append(metrics, financialMetrics(table)...)
	case domain.ReportTypeMarketing:
		metrics = append(metrics, marketingMetrics(table)...)
	}
	return metrics
}

// NumericColumns returns the columns where at least one of the first
// sample rows parses as a number, in column order.
func NumericColumns(table *domain.NormalizedTable, sample int) []string {
	rows := table.Rows
	if len(rows) > sample {
		rows = rows[:sample]
	}

	var numeric []string
	for _, col := range table.Columns {
		for _, row := range rows {
			if _, ok := dataprocessing.CellNumber(row[col]); ok {
				numeric = append(numeric, col)
				break
			}
		}
	}
	return numeric
}

// columnMetrics computes total, average and, when values vary, the
// extremes of one column. Cells that do not parse are left out.
func columnMetrics(table *domain.NormalizedTable, col string) []domain.Metric {
	var (
		count    int
		sum      float64
		min, max float64
	)
	for _, row := range table.Rows {
		v, ok := dataprocessing.CellNumber(row[col])
		if !ok {
			continue
		}
		if count == 0 || v < min {
			min = v
		}
		if count == 0 || v > max {
			max = v
		}
		sum += v
		count++
	}
	if count == 0 {
		return nil
	}

	name := dataprocessing.FormatColumnName(col)
	unit := InferUnit(col)
	metrics := []domain.Metric{
		{Name: "Total " + name, Value: Round2(sum), Unit: unit},
		{Name: "Average " + name, Value: Round2(sum / float64(count)), Unit: unit},
	}
	if max-min > 0 {
		metrics = append(metrics,
			domain.Metric{Name: "Highest " + name, Value: Round2(max), Unit: unit},
			domain.Metric{Name: "Lowest " + name, Value: Round2(min), Unit: unit},
		)
	}
	return metrics
}

// InferUnit guesses a display unit from a column name
func InferUnit(col string) string {
	lower := strings.ToLower(col)
	switch {
	case dataprocessing.ContainsAny(lower, "revenue", "cost", "price", "amount", "profit", "sales"):
		return dataprocessing.UnitCurrency
	case dataprocessing.ContainsAny(lower, "percent", "rate", "margin"):
		return dataprocessing.UnitPercent
	case dataprocessing.ContainsAny(lower, "quantity", "count", "units", "stock"):
		return dataprocessing.UnitUnits
	default:
		return dataprocessing.UnitNone
	}
}

// verticalMetrics keeps the extracted label/value pairs that hold real
// numbers and adds one metric per numeric sub-table cell.
func verticalMetrics(table *domain.NormalizedTable) []domain.Metric {
	var metrics []domain.Metric
	for _, m := range table.ExtractedMetrics {
		if isNoiseMetric(m) {
			continue
		}
		metrics = append(metrics, domain.Metric{
			Name:    m.Name,
			Value:   m.Value,
			Unit:    m.Unit,
			Section: m.Section,
		})
	}

	for _, sec := range table.Sections {
		if !sec.IsTable() || !strings.HasSuffix(sec.Name, "_table") {
			continue
		}
		metrics = append(metrics, subTableMetrics(sec)...)
	}
	return metrics
}

// isNoiseMetric is a zero metric whose raw text is not a number at all
func isNoiseMetric(m domain.ExtractedMetric) bool {
	if m.Value != 0 || m.RawValue.IsEmpty() {
		return false
	}
	if _, ok := m.RawValue.Number(); ok {
		return false
	}
	_, ok := dataprocessing.ParseDecorated(m.RawValue.Text())
	return !ok
}

func subTableMetrics(sec domain.Section) []domain.Metric {
	t := sec.Table
	if len(t.Rows) == 0 || len(t.Keys) == 0 {
		return nil
	}

	var numericHeaders []string
	for _, h := range t.Headers {
		if dataprocessing.ContainsAny(strings.ToLower(h), subTableNumericKeywords...) {
			numericHeaders = append(numericHeaders, h)
		}
	}
	if len(numericHeaders) == 0 {
		return nil
	}

	section := strings.TrimSuffix(sec.Name, "_table")
	labelKey := t.Keys[0]

	var metrics []domain.Metric
	for _, row := range t.Rows {
		label := strings.TrimSpace(row[labelKey].Text())
		if label == "" {
			continue
		}
		for _, h := range numericHeaders {
			cell := row[dataprocessing.NormalizeColumnName(h)]
			v, ok := cellDecorated(cell)
			if !ok || v == 0 {
				continue
			}
			unit := dataprocessing.UnitNone
			if strings.Contains(cell.Text(), "%") {
				unit = dataprocessing.UnitPercent
			}
			metrics = append(metrics, domain.Metric{
				Name:    label + " - " + h,
				Value:   Round2(v),
				Unit:    unit,
				Section: section,
			})
		}
	}
	return metrics
}

// cellDecorated reads a cell as a number after removing %, $ and separators
func cellDecorated(c domain.Cell) (float64, bool) {
	if f, ok := c.Number(); ok {
		return f, true
	}
	return dataprocessing.ParseDecorated(c.Text())
}
