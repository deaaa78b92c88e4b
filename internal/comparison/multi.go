package comparison

import (
	"fmt"
	"sort"

	"sheetsight/internal/analytics"
	"sheetsight/pkg/contracts/domain"
)

// MultiOptions configures a comparison of several datasets
type MultiOptions struct {
	Labels         []string
	CompareColumns []string
}

// CompareMultiple ranks datasets by their column totals. Each column awards
// n points to the dataset with the highest total, n-1 to the next and so
// on; the overall ranking orders datasets by their summed points.
func CompareMultiple(datasets []*domain.NormalizedTable, opts MultiOptions) *domain.MultiComparisonResult {
	labels := make([]string, len(datasets))
	for i := range datasets {
		if i < len(opts.Labels) && opts.Labels[i] != "" {
			labels[i] = opts.Labels[i]
		} else {
			labels[i] = fmt.Sprintf("Dataset %d", i+1)
		}
	}

	result := &domain.MultiComparisonResult{
		Labels:   labels,
		Summary:  []domain.MultiColumnSummary{},
		Rankings: []domain.Ranking{},
	}
	if len(datasets) == 0 {
		return result
	}

	columns := opts.CompareColumns
	if len(columns) == 0 {
		common := datasets[0].Columns
		for _, d := range datasets[1:] {
			common = commonColumns(common, d.Columns)
		}
		columns = numericColumns(datasets[0], common)
	}

	scores := make(map[string]int)
	var order []string
	for _, col := range columns {
		values := make([]domain.LabelledTotal, len(datasets))
		var sum float64
		for i, d := range datasets {
			total := analytics.Round2(analytics.ColumnSum(d.Rows, col))
			values[i] = domain.LabelledTotal{Label: labels[i], Total: total}
			sum += total
		}
		sort.SliceStable(values, func(i, j int) bool { return values[i].Total > values[j].Total })

		ranking := make([]string, len(values))
		for i, v := range values {
			ranking[i] = v.Label
			if _, seen := scores[v.Label]; !seen {
				order = append(order, v.Label)
			}
			scores[v.Label] += len(values) - i
		}

		result.Summary = append(result.Summary, domain.MultiColumnSummary{
			Column:  col,
			Values:  values,
			Ranking: ranking,
			Highest: values[0],
			Lowest:  values[len(values)-1],
			Average: analytics.Round2(sum / float64(len(values))),
		})
	}

	sort.SliceStable(order, func(i, j int) bool { return scores[order[i]] > scores[order[j]] })
	for i, label := range order {
		result.Rankings = append(result.Rankings, domain.Ranking{Rank: i + 1, Label: label, Score: scores[label]})
	}
	return result
}
