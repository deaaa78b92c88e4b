package domain

import (
	"time"
)

// ReportType selects the domain-specific column and metric rules
type ReportType string

const (
	ReportTypeSales     ReportType = "sales"
	ReportTypeFinancial ReportType = "financial"
	ReportTypeMarketing ReportType = "marketing"
	ReportTypeInventory ReportType = "inventory"
	ReportTypeCustom    ReportType = "custom"
)

// Valid reports whether t is one of the known report types
func (t ReportType) Valid() bool {
	switch t {
	case ReportTypeSales, ReportTypeFinancial, ReportTypeMarketing, ReportTypeInventory, ReportTypeCustom:
		return true
	}
	return false
}

// Direction of a change between two values
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// DirectionOf returns the direction matching the sign of delta
func DirectionOf(delta float64) Direction {
	switch {
	case delta > 0:
		return DirectionUp
	case delta < 0:
		return DirectionDown
	default:
		return DirectionNeutral
	}
}

// Metric is a final, already computed figure. Narrators and renderers
// must display Value as is.
type Metric struct {
	Name            string    `json:"name" validate:"required"`
	Value           float64   `json:"value" validate:"finite"`
	Unit            string    `json:"unit"`
	PreviousValue   *float64  `json:"previous_value,omitempty"`
	Change          *float64  `json:"change,omitempty"`
	ChangeDirection Direction `json:"change_direction,omitempty" validate:"omitempty,oneof=up down neutral"`
	IsTemplateKPI   bool      `json:"is_template_kpi,omitempty"`
	Section         string    `json:"section,omitempty"`
}

// ChartType is the rendering hint for a chart
type ChartType string

const (
	ChartBar      ChartType = "bar"
	ChartLine     ChartType = "line"
	ChartPie      ChartType = "pie"
	ChartDoughnut ChartType = "doughnut"
)

// Chart is a single labelled series. Data order is rendering order.
type Chart struct {
	ID         string       `json:"id" validate:"required"`
	Title      string       `json:"title" validate:"required"`
	Type       ChartType    `json:"type" validate:"required,oneof=bar line pie doughnut"`
	Data       []ChartPoint `json:"data" validate:"dive"`
	XAxisLabel string       `json:"x_axis_label,omitempty"`
	YAxisLabel string       `json:"y_axis_label,omitempty"`
}

// ChartPoint is one labelled value of a chart
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value" validate:"finite"`
}

// PreviewTable is a bounded, display-ready view of the source data
type PreviewTable struct {
	Name    string   `json:"name" validate:"required"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// PayloadMeta describes where a report came from
type PayloadMeta struct {
	Client       string    `json:"client" validate:"required"`
	Period       string    `json:"period" validate:"required"`
	ReportType   string    `json:"report_type" validate:"required"`
	GeneratedAt  time.Time `json:"generated_at"`
	TemplateUsed string    `json:"template_used,omitempty"`
	TemplateID   string    `json:"template_id,omitempty"`
}

// ReportPayload is the structured result handed to narration and rendering
type ReportPayload struct {
	Meta          PayloadMeta    `json:"meta" validate:"required"`
	Metrics       []Metric       `json:"metrics" validate:"dive"`
	Tables        []PreviewTable `json:"tables" validate:"dive"`
	Charts        []Chart        `json:"charts" validate:"dive"`
	TrendAnalysis *TrendAnalysis `json:"trend_analysis,omitempty"`
	Notes         string         `json:"notes"`
}

// ReportSummary holds the counters returned alongside a payload
type ReportSummary struct {
	RowCount         int  `json:"row_count"`
	ColumnCount      int  `json:"column_count"`
	MetricsCount     int  `json:"metrics_count"`
	ChartsCount      int  `json:"charts_count"`
	HasTrendAnalysis bool `json:"has_trend_analysis"`
}
