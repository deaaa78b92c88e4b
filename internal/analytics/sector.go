package analytics

import (
	"math"
	"strings"

	"sheetsight/internal/dataprocessing"
	"sheetsight/pkg/contracts/domain"
)

const uncategorized = "Uncategorized"

// ColumnSum adds up a column, reading unparseable cells as 0
func ColumnSum(rows []domain.Row, col string) float64 {
	var total float64
	for _, row := range rows {
		total += dataprocessing.CellNumberOrZero(row[col])
	}
	return total
}

// intColumnSum adds up the integer part of every cell in a column
func intColumnSum(rows []domain.Row, col string) float64 {
	var total float64
	for _, row := range rows {
		total += math.Trunc(dataprocessing.CellNumberOrZero(row[col]))
	}
	return total
}

func salesMetrics(table *domain.NormalizedTable) []domain.Metric {
	var metrics []domain.Metric

	if table.HasColumn("revenue") && table.HasColumn("cost") {
		revenue := ColumnSum(table.Rows, "revenue")
		cost := ColumnSum(table.Rows, "cost")
		metrics = append(metrics, domain.Metric{
			Name:  "Profit Margin",
			Value: Round2(Ratio(revenue-cost, revenue) * 100),
			Unit:  dataprocessing.UnitPercent,
		})
	}

	if table.HasColumn("quantity") {
		metrics = append(metrics, domain.Metric{
			Name:  "Total Units Sold",
			Value: intColumnSum(table.Rows, "quantity"),
			Unit:  dataprocessing.UnitUnits,
		})
	}
	return metrics
}

func financialMetrics(table *domain.NormalizedTable) []domain.Metric {
	if !table.HasColumn("category") || !table.HasColumn("amount") || len(table.Rows) == 0 {
		return nil
	}

	totals := make(map[string]float64)
	var order []string
	for _, row := range table.Rows {
		category := strings.TrimSpace(row["category"].Text())
		if category == "" {
			category = uncategorized
		}
		if _, seen := totals[category]; !seen {
			order = append(order, category)
		}
		totals[category] += dataprocessing.CellNumberOrZero(row["amount"])
	}

	largest := order[0]
	for _, c := range order[1:] {
		if math.Abs(totals[c]) > math.Abs(totals[largest]) {
			largest = c
		}
	}

	return []domain.Metric{{
		Name:  "Largest Category",
		Value: Round2(math.Abs(totals[largest])),
		Unit:  dataprocessing.UnitCurrency,
	}}
}

func marketingMetrics(table *domain.NormalizedTable) []domain.Metric {
	var metrics []domain.Metric

	if table.HasColumn("impressions") && table.HasColumn("clicks") {
		impressions := intColumnSum(table.Rows, "impressions")
		clicks := intColumnSum(table.Rows, "clicks")
		if impressions > 0 {
			metrics = append(metrics, domain.Metric{
				Name:  "Click-Through Rate",
				Value: Round2(clicks / impressions * 100),
				Unit:  dataprocessing.UnitPercent,
			})
		}
	}

	if table.HasColumn("clicks") && table.HasColumn("conversions") {
		clicks := intColumnSum(table.Rows, "clicks")
		conversions := intColumnSum(table.Rows, "conversions")
		if clicks > 0 {
			metrics = append(metrics, domain.Metric{
				Name:  "Conversion Rate",
				Value: Round2(conversions / clicks * 100),
				Unit:  dataprocessing.UnitPercent,
			})
		}
	}
	return metrics
}
