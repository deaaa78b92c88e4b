package templates

import (
	"math"

	"sheetsight/internal/analytics"
	"sheetsight/internal/dataprocessing"
	"sheetsight/pkg/contracts/domain"
)

// CalculateKPIs evaluates the template's KPIs over rows in their natural
// order. A KPI whose formula fails, panics or yields a non-finite value is
// left out; the others are returned rounded to two decimals.
func CalculateKPIs(t *Template, rows []domain.Row) []domain.Metric {
	if t == nil {
		return nil
	}

	metrics := make([]domain.Metric, 0, len(t.KPIs))
	for _, spec := range t.KPIs {
		v, ok := evaluate(spec, rows)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		metrics = append(metrics, domain.Metric{
			Name:          spec.Name,
			Value:         analytics.Round2(v),
			Unit:          spec.Unit,
			IsTemplateKPI: true,
		})
	}
	return metrics
}

// PrependKPIs puts template KPIs ahead of the standard metrics
func PrependKPIs(kpis, metrics []domain.Metric) []domain.Metric {
	out := make([]domain.Metric, 0, len(kpis)+len(metrics))
	out = append(out, kpis...)
	return append(out, metrics...)
}

func evaluate(spec KPISpec, rows []domain.Row) (v float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v, ok = 0, false
		}
	}()

	switch spec.Formula {
	case FormulaSum:
		return sum(rows, spec.Column), true
	case FormulaAverage:
		return mean(rows, spec.Column)
	case FormulaCount:
		return float64(len(rows)), true
	case FormulaGrowthRate:
		return growthRate(rows, spec.Column)
	case FormulaCustom:
		f, found := formulaTable[spec.Calc]
		if !found {
			return 0, false
		}
		return f(rows)
	default:
		return 0, false
	}
}

// growthRate compares the last row with the first, in row order
func growthRate(rows []domain.Row, col string) (float64, bool) {
	if len(rows) < 2 {
		return 0, false
	}
	first := dataprocessing.CellNumberOrZero(rows[0][col])
	last := dataprocessing.CellNumberOrZero(rows[len(rows)-1][col])
	return pct(last-first, first), true
}
