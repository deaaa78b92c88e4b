package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sheetsight/pkg/contracts/domain"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		sheet    domain.RawSheet
		want     domain.Format
		wantRule string
	}{
		{
			name:     "single row defaults to horizontal",
			sheet:    sheetOf([]any{"Total", 1}),
			want:     domain.FormatHorizontal,
			wantRule: "too_few_rows",
		},
		{
			name:     "standard table",
			sheet:    salesSheet(),
			want:     domain.FormatHorizontal,
			wantRule: "default",
		},
		{
			name: "report indicator in first cell",
			sheet: sheetOf(
				[]any{"Performance overview", nil, nil},
				[]any{"a", "b", "c"},
				[]any{"d", "e", "f"},
			),
			want:     domain.FormatVertical,
			wantRule: "report_indicator",
		},
		{
			name: "two section headers with low value ratio",
			sheet: sheetOf(
				[]any{"Name", "Region"},
				[]any{"OVERVIEW", nil},
				[]any{"alpha", "north"},
				[]any{"DETAILS", nil},
				[]any{"beta", "south"},
				[]any{"gamma", "east"},
			),
			want:     domain.FormatReport,
			wantRule: "section_headers",
		},
		{
			name: "colon headers count as sections",
			sheet: sheetOf(
				[]any{"Name", "Region"},
				[]any{"Overview:", nil},
				[]any{"Details:", nil},
			),
			want:     domain.FormatReport,
			wantRule: "section_headers",
		},
		{
			name: "label value pairs",
			sheet: sheetOf(
				[]any{"Impressions", "150,000"},
				[]any{"Clicks", 3000},
				[]any{"Spend", "$1,200"},
				[]any{"Rate", "n/a %"},
			),
			want:     domain.FormatVertical,
			wantRule: "label_value_ratio",
		},
		{
			name: "date first time series",
			sheet: sheetOf(
				[]any{"date", "mrr", "customers"},
				[]any{"2024-01-01", 1000, 10},
				[]any{"2024-02-01", 1200, 12},
				[]any{"2024-03-01", 1500, 15},
			),
			want:     domain.FormatHorizontal,
			wantRule: "default",
		},
		{
			name: "numeric first column",
			sheet: sheetOf(
				[]any{"year", "revenue"},
				[]any{2022, 100},
				[]any{2023, 150},
				[]any{"2024 (est)", 180},
			),
			want:     domain.FormatHorizontal,
			wantRule: "default",
		},
		{
			name: "ratio exactly one half stays horizontal",
			sheet: sheetOf(
				[]any{"Name", "Score"},
				[]any{"alpha", 3},
				[]any{"beta", 4},
				[]any{"gamma", "none"},
			),
			want:     domain.FormatHorizontal,
			wantRule: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.sheet)
			assert.Equal(t, tt.want, got.Format)
			assert.Equal(t, tt.wantRule, got.Rule)
		})
	}
}

func TestDetectCounters(t *testing.T) {
	d := Detect(sheetOf(
		[]any{"TOTAL IMPRESSIONS", "150000"},
		[]any{"CTR", "2.5%"},
		[]any{"DEMOGRAPHICS", ""},
		[]any{"Age 18-24", "30%"},
	))

	assert.Equal(t, domain.FormatReport, d.Format)
	assert.True(t, d.HasReportIndicator)
	assert.Equal(t, 2, d.SectionCount)
	assert.Equal(t, 4, d.LabelCount)
	assert.Equal(t, 3, d.ValueCount)
	assert.InDelta(t, 0.75, d.VerticalRatio, 1e-9)
}

func TestDetectScansFirstThirtyRows(t *testing.T) {
	rows := [][]any{{"Name", "Note"}}
	for i := 0; i < 40; i++ {
		note := "text"
		if i >= 29 {
			note = "42"
		}
		rows = append(rows, []any{"row", note})
	}

	d := Detect(sheetOf(rows...))
	assert.Equal(t, domain.FormatHorizontal, d.Format)
	assert.Equal(t, 30, d.LabelCount)
	assert.Equal(t, 0, d.ValueCount)
}

func TestDetectDateFirstCounters(t *testing.T) {
	d := Detect(sheetOf(
		[]any{"date", "mrr", "customers"},
		[]any{"2024-01-01", 1000, 10},
		[]any{"2024-02-01", 1200, 12},
		[]any{"2024-03-01", 1500, 15},
	))

	assert.Equal(t, 1, d.LabelCount)
	assert.Equal(t, 0, d.ValueCount)
}

func TestLeadingNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{in: "2024-01-31", want: 2024, wantOK: true},
		{in: "  42", want: 42, wantOK: true},
		{in: "-3.5 units", want: -3.5, wantOK: true},
		{in: ".5", want: 0.5, wantOK: true},
		{in: "7.", want: 7, wantOK: true},
		{in: "1e3x", want: 1000, wantOK: true},
		{in: "2e", want: 2, wantOK: true},
		{in: "1,234", want: 1, wantOK: true},
		{in: "50%", want: 50, wantOK: true},
		{in: "$100", wantOK: false},
		{in: "Age 18-24", wantOK: false},
		{in: "-", wantOK: false},
		{in: ".", wantOK: false},
		{in: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := leadingNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}
