package trend

import (
	"fmt"
	"sort"
	"time"

	"sheetsight/internal/comparison"
	"sheetsight/internal/dataprocessing"
	"sheetsight/pkg/contracts/domain"
)

// PeriodType is the bucket size used to group rows by date
type PeriodType string

const (
	PeriodDay     PeriodType = "day"
	PeriodWeek    PeriodType = "week"
	PeriodMonth   PeriodType = "month"
	PeriodQuarter PeriodType = "quarter"
	PeriodYear    PeriodType = "year"
)

// InsufficientPeriodsMessage is the message reported when there is nothing to compare
const InsufficientPeriodsMessage = "Need at least 2 periods to compare"

// Valid reports whether p is a known period type
func (p PeriodType) Valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return true
	}
	return false
}

// Key returns the bucket label for t. Unknown period types bucket by day.
func (p PeriodType) Key(t time.Time) string {
	switch p {
	case PeriodWeek:
		start := t.AddDate(0, 0, -int(t.Weekday()))
		return "Week of " + start.Format("2006-01-02")
	case PeriodMonth:
		return t.Format("2006-01")
	case PeriodQuarter:
		return fmt.Sprintf("%d Q%d", t.Year(), (int(t.Month())-1)/3+1)
	case PeriodYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

// ComparePeriods groups rows by the period of their date and compares the
// two most recent periods. Rows whose date does not parse are ignored.
// Fewer than two periods is reported in the result, not as an error.
func ComparePeriods(table *domain.NormalizedTable, dateColumn string, periodType PeriodType) domain.PeriodComparisonResult {
	result := domain.PeriodComparisonResult{PeriodType: string(periodType), DateColumn: dateColumn}

	type dated struct {
		at  time.Time
		row domain.Row
	}
	var rows []dated
	for _, r := range table.Rows {
		if t, ok := dataprocessing.ParseDate(r[dateColumn]); ok {
			rows = append(rows, dated{at: t, row: r})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].at.Before(rows[j].at) })

	groups := make(map[string][]domain.Row)
	var keys []string
	for _, d := range rows {
		k := periodType.Key(d.at)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], d.row)
	}
	sort.Strings(keys)
	result.Periods = len(keys)

	if len(keys) < 2 {
		result.Error = InsufficientPeriodsMessage
		return result
	}

	result.Previous = keys[len(keys)-2]
	result.Current = keys[len(keys)-1]
	result.Comparison = comparison.Compare(
		subTable(table, groups[result.Previous]),
		subTable(table, groups[result.Current]),
		comparison.Options{Labels: [2]string{result.Previous, result.Current}},
	)
	return result
}

func subTable(t *domain.NormalizedTable, rows []domain.Row) *domain.NormalizedTable {
	return &domain.NormalizedTable{
		Columns:  t.Columns,
		Rows:     rows,
		RowCount: len(rows),
		Format:   t.Format,
	}
}
