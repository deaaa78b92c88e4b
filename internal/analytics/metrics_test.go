package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsight/internal/dataprocessing"
	"sheetsight/internal/shared/testutil"
	"sheetsight/pkg/contracts/domain"
)

func horizontalTable(t *testing.T, rows ...[]any) *domain.NormalizedTable {
	t.Helper()
	table, err := dataprocessing.NormalizeHorizontal(testutil.Sheet(rows...))
	require.NoError(t, err)
	return table
}

func campaignTable(t *testing.T) *domain.NormalizedTable {
	t.Helper()
	table, err := dataprocessing.ExtractVertical(testutil.Sheet(
		[]any{"Client", "Initech"},
		[]any{"Impressions", "10,000"},
		[]any{"Clicks", "250"},
		[]any{"CTR", "2.5%"},
		[]any{"Conversion Rate", "4%"},
		[]any{"Notes", "n/a"},
		[]any{"AGE BREAKDOWN", nil},
		[]any{"Age Group", "Impressions", "Clicks"},
		[]any{"18-24", "6,000", "150"},
		[]any{"25-34", "4,000", "100"},
	))
	require.NoError(t, err)
	return table
}

func metricMap(metrics []domain.Metric) map[string]domain.Metric {
	out := make(map[string]domain.Metric, len(metrics))
	for _, m := range metrics {
		out[m.Name] = m
	}
	return out
}

func TestCalculateSales(t *testing.T) {
	table, _, err := dataprocessing.Parse(testutil.Sheet(testutil.SalesRows()...), domain.ReportTypeSales)
	require.NoError(t, err)

	metrics := metricMap(Calculate(table, domain.ReportTypeSales))

	tests := []struct {
		name  string
		value float64
		unit  string
	}{
		{"Total Revenue", 9500, "$"},
		{"Average Revenue", 4750, "$"},
		{"Highest Revenue", 5000, "$"},
		{"Lowest Revenue", 4500, "$"},
		{"Total Quantity", 200, "units"},
		{"Average Quantity", 100, "units"},
		{"Total Units Sold", 200, "units"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := metrics[tt.name]
			require.True(t, ok, "metric %q missing", tt.name)
			assert.Equal(t, tt.value, m.Value)
			assert.Equal(t, tt.unit, m.Unit)
		})
	}

	_, hasMargin := metrics["Profit Margin"]
	assert.False(t, hasMargin, "profit margin needs a cost column")
	_, hasDate := metrics["Total Date"]
	assert.False(t, hasDate)
}

func TestCalculateConstantColumn(t *testing.T) {
	table := horizontalTable(t,
		[]any{"region", "stock"},
		[]any{"north", 7},
		[]any{"south", 7},
		[]any{"east", 7},
	)

	metrics := Calculate(table, domain.ReportTypeInventory)
	require.Len(t, metrics, 2)
	assert.Equal(t, "Total Stock", metrics[0].Name)
	assert.Equal(t, 21.0, metrics[0].Value)
	assert.Equal(t, "Average Stock", metrics[1].Name)
	assert.Equal(t, 7.0, metrics[1].Value)
}

func TestCalculateSkipsUnparseableCells(t *testing.T) {
	table := horizontalTable(t,
		[]any{"name", "score"},
		[]any{"a", 10},
		[]any{"b", "n/a"},
		[]any{"c", 20},
	)

	metrics := metricMap(Calculate(table, domain.ReportTypeCustom))
	assert.Equal(t, 30.0, metrics["Total Score"].Value)
	assert.Equal(t, 15.0, metrics["Average Score"].Value)
}

func TestProfitMargin(t *testing.T) {
	tests := []struct {
		name    string
		revenue []any
		cost    []any
		want    float64
	}{
		{name: "quarter margin", revenue: []any{600, 400}, cost: []any{500, 250}, want: 25},
		{name: "rounded", revenue: []any{3, 0}, cost: []any{2, 0}, want: 33.33},
		{name: "zero revenue", revenue: []any{0, 0}, cost: []any{5, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := horizontalTable(t,
				[]any{"product", "revenue", "cost"},
				[]any{"a", tt.revenue[0], tt.cost[0]},
				[]any{"b", tt.revenue[1], tt.cost[1]},
			)
			m, ok := metricMap(Calculate(table, domain.ReportTypeSales))["Profit Margin"]
			require.True(t, ok)
			assert.Equal(t, tt.want, m.Value)
			assert.Equal(t, "%", m.Unit)
		})
	}
}

func TestFinancialLargestCategory(t *testing.T) {
	table := horizontalTable(t,
		[]any{"category", "amount"},
		[]any{"Rent", -3000},
		[]any{"Sales", 2000},
		[]any{"Rent", -500},
		[]any{nil, 100},
	)

	m, ok := metricMap(Calculate(table, domain.ReportTypeFinancial))["Largest Category"]
	require.True(t, ok)
	assert.Equal(t, 3500.0, m.Value)
	assert.Equal(t, "$", m.Unit)
}

func TestMarketingRates(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]any
		wantCTR  *float64
		wantConv *float64
	}{
		{
			name: "both rates",
			rows: [][]any{
				{"campaign", "impressions", "clicks", "conversions"},
				{"spring", 600, 30, 2},
				{"summer", 400, 20, 3},
			},
			wantCTR:  ptr(5),
			wantConv: ptr(10),
		},
		{
			name: "zero denominators",
			rows: [][]any{
				{"campaign", "impressions", "clicks", "conversions"},
				{"idle", 0, 0, 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := metricMap(Calculate(horizontalTable(t, tt.rows...), domain.ReportTypeMarketing))

			ctr, ok := metrics["Click-Through Rate"]
			assert.Equal(t, tt.wantCTR != nil, ok)
			if tt.wantCTR != nil {
				assert.Equal(t, *tt.wantCTR, ctr.Value)
			}

			conv, ok := metrics["Conversion Rate"]
			assert.Equal(t, tt.wantConv != nil, ok)
			if tt.wantConv != nil {
				assert.Equal(t, *tt.wantConv, conv.Value)
			}
		})
	}
}

func TestCalculateVertical(t *testing.T) {
	metrics := Calculate(campaignTable(t), domain.ReportTypeMarketing)

	names := make([]string, 0, len(metrics))
	for _, m := range metrics {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{
		"Impressions", "Clicks", "Ctr", "Conversion Rate",
		"18-24 - Impressions", "18-24 - Clicks",
		"25-34 - Impressions", "25-34 - Clicks",
	}, names)

	byName := metricMap(metrics)
	assert.Equal(t, 10000.0, byName["Impressions"].Value)
	assert.Equal(t, "%", byName["Ctr"].Unit)
	assert.Equal(t, 6000.0, byName["18-24 - Impressions"].Value)
	assert.Equal(t, "age_breakdown", byName["18-24 - Impressions"].Section)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1},
		{2.675, 2.68},
		{-1.555, -1.56},
		{33.333333, 33.33},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Round2(tt.in), 0.011)
	}
	assert.Equal(t, 0.0, Ratio(5, 0))
	assert.Equal(t, 0.0, Ratio(5, -2))
	assert.Equal(t, 2.5, Ratio(5, 2))
}

func TestInferUnit(t *testing.T) {
	tests := map[string]string{
		"total_revenue":  "$",
		"unit_price":     "$",
		"growth_rate":    "%",
		"stock_level":    "units",
		"employee_count": "units",
		"score":          "",
	}
	for col, want := range tests {
		assert.Equal(t, want, InferUnit(col), col)
	}
}

func ptr(v float64) *float64 { return &v }
