package templates

import (
	"strings"

	"sheetsight/internal/analytics"
	"sheetsight/internal/dataprocessing"
	"sheetsight/pkg/contracts/domain"
)

// formulaFunc computes a custom KPI over the raw rows. ok=false drops it.
type formulaFunc func(rows []domain.Row) (value float64, ok bool)

var formulaTable = map[string]formulaFunc{
	"saas.net_mrr": func(rows []domain.Row) (float64, bool) {
		return sum(rows, "new_mrr") + sum(rows, "expansion_mrr") - sum(rows, "churned_mrr"), true
	},
	"saas.churn_rate": func(rows []domain.Row) (float64, bool) {
		var start float64
		if len(rows) > 0 {
			start = num(rows[0], "customers")
		}
		return pct(sum(rows, "churned_customers"), start), true
	},
	"saas.arpu": func(rows []domain.Row) (float64, bool) {
		if len(rows) == 0 {
			return 0, true
		}
		last := rows[len(rows)-1]
		customers := num(last, "customers")
		if customers == 0 {
			customers = 1
		}
		return num(last, "mrr") / customers, true
	},

	"ecommerce.aov": func(rows []domain.Row) (float64, bool) {
		return analytics.Ratio(sum(rows, "revenue"), sum(rows, "orders")), true
	},
	"ecommerce.conversion_rate": func(rows []domain.Row) (float64, bool) {
		return pct(sum(rows, "orders"), sum(rows, "visitors")), true
	},
	"ecommerce.gross_margin": func(rows []domain.Row) (float64, bool) {
		revenue := sum(rows, "revenue")
		return pct(revenue-sum(rows, "cogs"), revenue), true
	},
	"ecommerce.roas": func(rows []domain.Row) (float64, bool) {
		return analytics.Ratio(sum(rows, "revenue"), sum(rows, "ad_spend")), true
	},

	"marketing.roi": func(rows []domain.Row) (float64, bool) {
		spend := sum(rows, "spend")
		return pct(sum(rows, "revenue")-spend, spend), true
	},
	"marketing.ctr": func(rows []domain.Row) (float64, bool) {
		return pct(sum(rows, "clicks"), sum(rows, "impressions")), true
	},
	"marketing.cpc": func(rows []domain.Row) (float64, bool) {
		return analytics.Ratio(sum(rows, "spend"), sum(rows, "clicks")), true
	},
	"marketing.cpa": func(rows []domain.Row) (float64, bool) {
		return analytics.Ratio(sum(rows, "spend"), sum(rows, "conversions")), true
	},

	"financial.total_revenue": func(rows []domain.Row) (float64, bool) {
		return categorySum(rows, "revenue"), true
	},
	"financial.total_expenses": func(rows []domain.Row) (float64, bool) {
		return expenses(rows), true
	},
	"financial.net_profit": func(rows []domain.Row) (float64, bool) {
		return categorySum(rows, "revenue") - expenses(rows), true
	},
	"financial.profit_margin": func(rows []domain.Row) (float64, bool) {
		revenue := categorySum(rows, "revenue")
		return pct(revenue-expenses(rows), revenue), true
	},
	"financial.budget_variance": func(rows []domain.Row) (float64, bool) {
		budget := sum(rows, "budget")
		return pct(sum(rows, "amount")-budget, budget), true
	},

	"hr.turnover_rate": func(rows []domain.Row) (float64, bool) {
		avg, ok := mean(rows, "headcount")
		return pct(sum(rows, "terminations"), avg), ok
	},
	"hr.hiring_rate": func(rows []domain.Row) (float64, bool) {
		avg, ok := mean(rows, "headcount")
		return pct(sum(rows, "hires"), avg), ok
	},
	"hr.cost_per_employee": func(rows []domain.Row) (float64, bool) {
		return analytics.Ratio(sum(rows, "total_compensation"), sum(rows, "headcount")), true
	},

	"project.completion_rate": func(rows []domain.Row) (float64, bool) {
		var completed float64
		for _, r := range rows {
			if strings.EqualFold(strings.TrimSpace(r["status"].Text()), "completed") {
				completed++
			}
		}
		return pct(completed, float64(len(rows))), true
	},
	"project.on_time_rate": func(rows []domain.Row) (float64, bool) {
		var completed, onTime float64
		for _, r := range rows {
			if r["completed_date"].IsEmpty() {
				continue
			}
			completed++
			done, ok1 := dataprocessing.ParseDate(r["completed_date"])
			due, ok2 := dataprocessing.ParseDate(r["due_date"])
			if ok1 && ok2 && !done.After(due) {
				onTime++
			}
		}
		return pct(onTime, completed), true
	},
	"project.budget_utilization": func(rows []domain.Row) (float64, bool) {
		return pct(sum(rows, "spent"), sum(rows, "budget")), true
	},
	"project.hours_variance": func(rows []domain.Row) (float64, bool) {
		estimated := sum(rows, "estimated_hours")
		return pct(sum(rows, "actual_hours")-estimated, estimated), true
	},
}

func num(row domain.Row, col string) float64 {
	return dataprocessing.CellNumberOrZero(row[col])
}

func sum(rows []domain.Row, col string) float64 {
	return analytics.ColumnSum(rows, col)
}

func mean(rows []domain.Row, col string) (float64, bool) {
	if len(rows) == 0 {
		return 0, false
	}
	return sum(rows, col) / float64(len(rows)), true
}

func pct(part, whole float64) float64 {
	return analytics.Ratio(part, whole) * 100
}

// categorySum adds amounts of rows whose category mentions keyword
func categorySum(rows []domain.Row, keyword string) float64 {
	var total float64
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r["category"].Text()), keyword) {
			total += num(r, "amount")
		}
	}
	return total
}

func expenses(rows []domain.Row) float64 {
	e := categorySum(rows, "expense")
	if e < 0 {
		return -e
	}
	return e
}
