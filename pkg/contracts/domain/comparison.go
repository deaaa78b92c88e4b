package domain

// Detail row statuses for keyed comparisons
const (
	StatusBoth       = "both"
	StatusOnlyFirst  = "only_first"
	StatusOnlySecond = "only_second"
)

// Insight types
const (
	InsightPositive = "positive"
	InsightNegative = "negative"
)

// ComparisonResult is the outcome of aligning two datasets
type ComparisonResult struct {
	Labels     [2]string         `json:"labels"`
	Columns    []string          `json:"columns"`
	Summary    []ColumnSummary   `json:"summary"`
	PrimaryKey string            `json:"primary_key,omitempty"`
	Details    []DetailRow       `json:"details"`
	Charts     []ComparisonChart `json:"charts"`
	Insights   []Insight         `json:"insights"`
}

// SummaryFor returns the column summary for column
func (r *ComparisonResult) SummaryFor(column string) (ColumnSummary, bool) {
	for _, s := range r.Summary {
		if s.Column == column {
			return s, true
		}
	}
	return ColumnSummary{}, false
}

// ColumnSummary compares the totals of one column across both datasets
type ColumnSummary struct {
	Column           string    `json:"column"`
	ValueA           float64   `json:"value_a"`
	ValueB           float64   `json:"value_b"`
	AbsoluteChange   float64   `json:"absolute_change"`
	PercentageChange float64   `json:"percentage_change"`
	Direction        Direction `json:"direction"`
}

// DetailRow compares the rows sharing one primary key value
type DetailRow struct {
	Key         string             `json:"key"`
	Status      string             `json:"status"`
	Comparisons []DetailComparison `json:"comparisons"`
}

// DetailComparison is the per-column delta inside a DetailRow
type DetailComparison struct {
	Column    string    `json:"column"`
	ValueA    float64   `json:"value_a"`
	ValueB    float64   `json:"value_b"`
	Change    float64   `json:"change"`
	Direction Direction `json:"direction"`
}

// Insight is a headline finding
type Insight struct {
	Type    string `json:"type"`
	Metric  string `json:"metric"`
	Message string `json:"message"`
}

// ComparisonChart is a chart over two labelled series
type ComparisonChart struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Type   string            `json:"type"`
	Series []string          `json:"series,omitempty"`
	Data   []ComparisonPoint `json:"data"`
}

// ComparisonPoint is one category of a ComparisonChart
type ComparisonPoint struct {
	Label     string    `json:"label"`
	ValueA    float64   `json:"value_a"`
	ValueB    float64   `json:"value_b"`
	Change    float64   `json:"change"`
	Direction Direction `json:"direction,omitempty"`
}

// MultiComparisonResult ranks more than two datasets
type MultiComparisonResult struct {
	Labels   []string             `json:"labels"`
	Summary  []MultiColumnSummary `json:"summary"`
	Rankings []Ranking            `json:"rankings"`
}

// MultiColumnSummary ranks datasets by their total for one column
type MultiColumnSummary struct {
	Column  string          `json:"column"`
	Values  []LabelledTotal `json:"values"`
	Ranking []string        `json:"ranking"`
	Highest LabelledTotal   `json:"highest"`
	Lowest  LabelledTotal   `json:"lowest"`
	Average float64         `json:"average"`
}

// LabelledTotal is a dataset label with a column total
type LabelledTotal struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

// Ranking is a dataset's overall position
type Ranking struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	Score int    `json:"score"`
}

// PeriodComparisonResult compares the two most recent periods of a dataset.
// Error is set instead of Comparison when fewer than two periods exist.
type PeriodComparisonResult struct {
	PeriodType string            `json:"period_type"`
	DateColumn string            `json:"date_column"`
	Previous   string            `json:"previous_period,omitempty"`
	Current    string            `json:"current_period,omitempty"`
	Periods    int               `json:"periods"`
	Comparison *ComparisonResult `json:"comparison,omitempty"`
	Error      string            `json:"error,omitempty"`
}
