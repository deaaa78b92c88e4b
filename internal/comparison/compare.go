package comparison

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"sheetsight/internal/analytics"
	"sheetsight/internal/dataprocessing"
	"sheetsight/pkg/contracts/domain"
)

const (
	sampleRows       = 5
	insightThreshold = 10
	maxMovers        = 3
)

// Options configures a two-dataset comparison
type Options struct {
	// PrimaryKey joins rows of both datasets. Row-level details are only
	// produced when both datasets have this column.
	PrimaryKey string
	// CompareColumns overrides the automatic choice of numeric columns
	CompareColumns []string
	// Labels name the first and second dataset
	Labels [2]string
}

// DefaultLabels name the datasets when no labels are given
var DefaultLabels = [2]string{"Dataset 1", "Dataset 2"}

// Compare aligns two normalized datasets and reports per-column totals,
// optional per-key deltas, charts and headline insights.
//
// The percentage change of a column whose first total is zero or less is
// reported as 0, even when the second total is positive. Direction always
// follows the sign of the absolute change.
func Compare(a, b *domain.NormalizedTable, opts Options) *domain.ComparisonResult {
	labels := opts.Labels
	if labels[0] == "" {
		labels[0] = DefaultLabels[0]
	}
	if labels[1] == "" {
		labels[1] = DefaultLabels[1]
	}

	common := commonColumns(a.Columns, b.Columns)
	columns := opts.CompareColumns
	if len(columns) == 0 {
		columns = numericColumns(a, common)
	}

	result := &domain.ComparisonResult{
		Labels:   labels,
		Columns:  append([]string(nil), columns...),
		Summary:  make([]domain.ColumnSummary, 0, len(columns)),
		Details:  []domain.DetailRow{},
		Insights: []domain.Insight{},
	}

	for _, col := range columns {
		totalA := analytics.ColumnSum(a.Rows, col)
		totalB := analytics.ColumnSum(b.Rows, col)
		change := analytics.Ratio(totalB-totalA, totalA) * 100

		result.Summary = append(result.Summary, domain.ColumnSummary{
			Column:           col,
			ValueA:           analytics.Round2(totalA),
			ValueB:           analytics.Round2(totalB),
			AbsoluteChange:   analytics.Round2(totalB - totalA),
			PercentageChange: analytics.Round2(change),
			Direction:        domain.DirectionOf(totalB - totalA),
		})

		if math.Abs(change) > insightThreshold {
			result.Insights = append(result.Insights, columnInsight(col, change, labels))
		}
	}

	if opts.PrimaryKey != "" && contains(common, opts.PrimaryKey) {
		result.PrimaryKey = opts.PrimaryKey
		result.Details = joinRows(a, b, opts.PrimaryKey, columns)
		result.Insights = append(result.Insights, moverInsights(result.Details)...)
	}

	result.Charts = buildCharts(result)
	return result
}

func columnInsight(col string, change float64, labels [2]string) domain.Insight {
	name := dataprocessing.FormatColumnName(col)
	kind, verb := domain.InsightPositive, "increased"
	if change < 0 {
		kind, verb = domain.InsightNegative, "decreased"
	}
	return domain.Insight{
		Type:   kind,
		Metric: name,
		Message: fmt.Sprintf("%s %s by %s%% from %s to %s",
			name, verb, formatNumber(math.Abs(analytics.Round2(change))), labels[0], labels[1]),
	}
}

// joinRows builds one detail row per distinct key in either dataset.
// A key repeated within a dataset keeps its last row.
func joinRows(a, b *domain.NormalizedTable, key string, columns []string) []domain.DetailRow {
	rowsA, order := indexRows(a.Rows, key, nil)
	rowsB, order := indexRows(b.Rows, key, order)

	details := make([]domain.DetailRow, 0, len(order))
	for _, k := range order {
		rowA, inA := rowsA[k]
		rowB, inB := rowsB[k]

		status := domain.StatusBoth
		switch {
		case !inB:
			status = domain.StatusOnlyFirst
		case !inA:
			status = domain.StatusOnlySecond
		}

		detail := domain.DetailRow{Key: k, Status: status}
		for _, col := range columns {
			if col == key {
				continue
			}
			var v1, v2 float64
			if inA {
				v1 = dataprocessing.CellNumberOrZero(rowA[col])
			}
			if inB {
				v2 = dataprocessing.CellNumberOrZero(rowB[col])
			}
			change := rowChange(v1, v2)
			detail.Comparisons = append(detail.Comparisons, domain.DetailComparison{
				Column:    col,
				ValueA:    analytics.Round2(v1),
				ValueB:    analytics.Round2(v2),
				Change:    analytics.Round2(change),
				Direction: domain.DirectionOf(change),
			})
		}
		details = append(details, detail)
	}

	sort.SliceStable(details, func(i, j int) bool {
		return math.Abs(leadChange(details[i])) > math.Abs(leadChange(details[j]))
	})
	return details
}

// rowChange is the percent change of one keyed value. Growth from zero
// counts as 100%.
func rowChange(v1, v2 float64) float64 {
	switch {
	case v1 > 0:
		return (v2 - v1) / v1 * 100
	case v2 > 0:
		return 100
	default:
		return 0
	}
}

func indexRows(rows []domain.Row, key string, order []string) (map[string]domain.Row, []string) {
	seen := make(map[string]bool, len(order))
	for _, k := range order {
		seen[k] = true
	}

	index := make(map[string]domain.Row, len(rows))
	for _, row := range rows {
		k := row[key].Text()
		index[k] = row
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
	}
	return index, order
}

func leadChange(d domain.DetailRow) float64 {
	if len(d.Comparisons) == 0 {
		return 0
	}
	return d.Comparisons[0].Change
}

func leadDirection(d domain.DetailRow) domain.Direction {
	if len(d.Comparisons) == 0 {
		return domain.DirectionNeutral
	}
	return d.Comparisons[0].Direction
}

func moverInsights(details []domain.DetailRow) []domain.Insight {
	var gainers, decliners []string
	for _, d := range details {
		switch leadDirection(d) {
		case domain.DirectionUp:
			if len(gainers) < maxMovers {
				gainers = append(gainers, d.Key)
			}
		case domain.DirectionDown:
			if len(decliners) < maxMovers {
				decliners = append(decliners, d.Key)
			}
		}
	}

	var insights []domain.Insight
	if len(gainers) > 0 {
		insights = append(insights, domain.Insight{
			Type:    domain.InsightPositive,
			Metric:  "Top Performers",
			Message: "Top gainers: " + strings.Join(gainers, ", "),
		})
	}
	if len(decliners) > 0 {
		insights = append(insights, domain.Insight{
			Type:    domain.InsightNegative,
			Metric:  "Attention Needed",
			Message: "Biggest declines: " + strings.Join(decliners, ", "),
		})
	}
	return insights
}

// commonColumns keeps the columns of a that b also has, in a's order
func commonColumns(a, b []string) []string {
	var out []string
	for _, c := range a {
		if contains(b, c) {
			out = append(out, c)
		}
	}
	return out
}

// numericColumns keeps the columns where the first rows of t hold a number
func numericColumns(t *domain.NormalizedTable, columns []string) []string {
	rows := t.Rows
	if len(rows) > sampleRows {
		rows = rows[:sampleRows]
	}

	var out []string
	for _, col := range columns {
		for _, row := range rows {
			if _, ok := dataprocessing.CellNumber(row[col]); ok {
				out = append(out, col)
				break
			}
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
