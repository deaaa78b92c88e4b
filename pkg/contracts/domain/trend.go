package domain

// TrendClass is the coarse classification of a series
type TrendClass string

const (
	TrendStrongGrowth     TrendClass = "strong_growth"
	TrendModerateGrowth   TrendClass = "moderate_growth"
	TrendStable           TrendClass = "stable"
	TrendModerateDecline  TrendClass = "moderate_decline"
	TrendStrongDecline    TrendClass = "strong_decline"
	TrendInsufficientData TrendClass = "insufficient_data"
)

// Forecast confidence levels
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// TrendAnalysis is the full analysis of one numeric series
type TrendAnalysis struct {
	DateColumn       string              `json:"date_column"`
	ValueColumn      string              `json:"value_column"`
	PeriodComparison *PeriodDelta        `json:"period_comparison,omitempty"`
	GrowthRates      GrowthRates         `json:"growth_rates"`
	Anomalies        AnomalyReport       `json:"anomalies"`
	Forecast         Forecast            `json:"forecast"`
	Trends           TrendClassification `json:"trends"`
	MovingAverage    []*float64          `json:"moving_average"`
}

// PeriodDelta compares the totals of a current and a previous period
type PeriodDelta struct {
	Current          float64   `json:"current"`
	Previous         float64   `json:"previous"`
	AbsoluteChange   float64   `json:"absolute_change"`
	PercentageChange float64   `json:"percentage_change"`
	Direction        Direction `json:"direction"`
}

// GrowthRates holds period-over-period growth. Summary is nil with
// fewer than two points.
type GrowthRates struct {
	Periods []GrowthPeriod `json:"periods"`
	Summary *GrowthSummary `json:"summary,omitempty"`
}

// GrowthPeriod is the growth from the previous point to this one
type GrowthPeriod struct {
	Date          Cell      `json:"date"`
	Value         float64   `json:"value"`
	PreviousValue float64   `json:"previous_value"`
	GrowthRate    float64   `json:"growth_rate"`
	Direction     Direction `json:"direction"`
}

// GrowthSummary aggregates growth over the whole series
type GrowthSummary struct {
	AverageGrowthRate  float64 `json:"average_growth_rate"`
	CompoundGrowthRate float64 `json:"compound_growth_rate"`
	TotalGrowth        float64 `json:"total_growth"`
	StartValue         float64 `json:"start_value"`
	EndValue           float64 `json:"end_value"`
}

// AnomalyReport lists Z-score outliers. Stats is nil with fewer than
// three points.
type AnomalyReport struct {
	Anomalies []Anomaly     `json:"anomalies"`
	Stats     *AnomalyStats `json:"stats"`
}

// Anomaly is a point whose Z-score exceeds the threshold
type Anomaly struct {
	Index            int     `json:"index"`
	Row              Row     `json:"row,omitempty"`
	Value            float64 `json:"value"`
	ZScore           float64 `json:"z_score"`
	Type             string  `json:"type"`
	Deviation        float64 `json:"deviation"`
	DeviationPercent float64 `json:"deviation_percent"`
}

// AnomalyStats are the population statistics used for scoring
type AnomalyStats struct {
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Threshold float64 `json:"threshold"`
}

// Forecast is a linear projection of the series
type Forecast struct {
	Predictions    []Prediction     `json:"predictions"`
	Model          *RegressionModel `json:"model,omitempty"`
	Confidence     string           `json:"confidence"`
	TrendDirection string           `json:"trend_direction,omitempty"`
}

// Prediction is one projected step beyond the series
type Prediction struct {
	Period         int     `json:"period"`
	PredictedValue float64 `json:"predicted_value"`
	Trend          string  `json:"trend"`
}

// RegressionModel is an ordinary least-squares fit against the index
type RegressionModel struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
}

// TrendClassification labels the overall direction and notable patterns
type TrendClassification struct {
	Trend         TrendClass    `json:"trend"`
	ChangePercent float64       `json:"change_percent"`
	Patterns      []Pattern     `json:"patterns"`
	Summary       *TrendSummary `json:"summary,omitempty"`
}

// Pattern is a detected shape in the series
type Pattern struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Length      int    `json:"length,omitempty"`
}

// TrendSummary holds the half averages behind a classification
type TrendSummary struct {
	FirstPeriodAvg  float64 `json:"first_period_avg"`
	SecondPeriodAvg float64 `json:"second_period_avg"`
	PeriodCount     int     `json:"period_count"`
}
