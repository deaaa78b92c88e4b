package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsight/pkg/contracts/domain"
)

func TestExtractVerticalScenario(t *testing.T) {
	sheet := sheetOf(
		[]any{"TOTAL IMPRESSIONS", "150000"},
		[]any{"CTR", "2.5%"},
		[]any{"DEMOGRAPHICS", ""},
		[]any{"Age 18-24", "30%"},
	)
	require.True(t, Detect(sheet).Format.IsVertical())

	table, err := ExtractVertical(sheet)
	require.NoError(t, err)

	require.Len(t, table.ExtractedMetrics, 3)
	assert.Equal(t, "Total Impressions", table.ExtractedMetrics[0].Name)
	assert.Equal(t, 150000.0, table.ExtractedMetrics[0].Value)
	assert.Equal(t, "", table.ExtractedMetrics[0].Unit)
	assert.Equal(t, "main", table.ExtractedMetrics[0].Section)

	assert.Equal(t, "Ctr", table.ExtractedMetrics[1].Name)
	assert.Equal(t, 2.5, table.ExtractedMetrics[1].Value)
	assert.Equal(t, "%", table.ExtractedMetrics[1].Unit)
	assert.Equal(t, "main", table.ExtractedMetrics[1].Section)

	assert.Equal(t, "Age 18-24", table.ExtractedMetrics[2].Name)
	assert.Equal(t, 30.0, table.ExtractedMetrics[2].Value)
	assert.Equal(t, "demographics", table.ExtractedMetrics[2].Section)

	main, ok := table.Section("main")
	require.True(t, ok)
	assert.Len(t, main.Entries, 2)
	demo, ok := table.Section("demographics")
	require.True(t, ok)
	assert.Len(t, demo.Entries, 1)

	assert.Equal(t, domain.FormatVertical, table.Format)
	assert.Equal(t, VerticalColumns, table.Columns)
	assert.Equal(t, 3, table.RowCount)
	assert.Equal(t, "2.5%", table.Rows[1]["raw_value"].Text())
}

func TestExtractVerticalMetadata(t *testing.T) {
	table, err := ExtractVertical(sheetOf(
		[]any{"Campaign Report", nil},
		[]any{"Advertiser", "Acme Corp"},
		[]any{"Date Range", "Jan 1 - Jan 31"},
		[]any{"Generated on", "2024-02-01"},
		[]any{"Spend", "$1,250.50"},
	))
	require.NoError(t, err)

	require.NotNil(t, table.ReportMeta)
	assert.Equal(t, "Acme Corp", table.ReportMeta.Client)
	assert.Equal(t, "Jan 1 - Jan 31", table.ReportMeta.Period)
	assert.Equal(t, "2024-02-01", table.ReportMeta.GeneratedDate)

	require.Len(t, table.ExtractedMetrics, 1)
	assert.Equal(t, 1250.5, table.ExtractedMetrics[0].Value)
	assert.Equal(t, "$", table.ExtractedMetrics[0].Unit)
}

func TestExtractVerticalSubTable(t *testing.T) {
	sheet := sheetOf(
		[]any{"Reach", "5000", nil},
		[]any{"AGE BREAKDOWN", nil, nil},
		[]any{"Age Group", "Impressions", "Clicks"},
		[]any{"18-24", "1,000", "50"},
		[]any{"25-34", "2,000", "80"},
		[]any{nil, nil, nil},
		[]any{"Frequency", "1.8", nil},
	)

	table, err := ExtractVertical(sheet)
	require.NoError(t, err)

	sec, ok := table.Section("age_breakdown_table")
	require.True(t, ok)
	require.True(t, sec.IsTable())
	assert.Equal(t, []string{"Age Group", "Impressions", "Clicks"}, sec.Table.Headers)
	assert.Equal(t, []string{"age_group", "impressions", "clicks"}, sec.Table.Keys)
	require.Len(t, sec.Table.Rows, 2)
	assert.Equal(t, "18-24", sec.Table.Rows[0]["age_group"].Text())
	assert.Equal(t, "2,000", sec.Table.Rows[1]["impressions"].Text())

	names := make([]string, 0, len(table.ExtractedMetrics))
	for _, m := range table.ExtractedMetrics {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Reach", "Frequency"}, names)
	assert.Equal(t, "age_breakdown", table.ExtractedMetrics[1].Section)
}

func TestExtractVerticalSubTableStopsAtSection(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		wantSection string
	}{
		{name: "all caps header", header: "DEVICES", wantSection: "devices"},
		{name: "colon header", header: "Devices:", wantSection: "devices"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ExtractVertical(sheetOf(
				[]any{"Channel", "Views", "Users"},
				[]any{"Search", 10, 4},
				[]any{"Social", 20, 6},
				[]any{tt.header, nil, nil},
				[]any{"Mobile", "70%", nil},
			))
			require.NoError(t, err)

			sec, ok := table.Section("main_table")
			require.True(t, ok)
			assert.Len(t, sec.Table.Rows, 2)

			require.Len(t, table.ExtractedMetrics, 1)
			assert.Equal(t, "Mobile", table.ExtractedMetrics[0].Name)
			assert.Equal(t, tt.wantSection, table.ExtractedMetrics[0].Section)
		})
	}
}

func TestExtractVerticalSectionRules(t *testing.T) {
	tests := []struct {
		name        string
		label       string
		wantSection bool
	}{
		{name: "all caps", label: "SUMMARY", wantSection: true},
		{name: "short caps is data", label: "CTR", wantSection: false},
		{name: "colon", label: "Totals:", wantSection: true},
		{name: "keyword", label: "Device breakdown", wantSection: true},
		{name: "leading digit", label: "2024 TOTALS", wantSection: false},
		{name: "mixed case", label: "Overview", wantSection: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantSection, isSectionRow(tt.label))
		})
	}
}

func TestExtractVerticalEmpty(t *testing.T) {
	_, err := ExtractVertical(sheetOf(
		[]any{"SUMMARY", nil},
		[]any{nil, nil},
	))
	require.Error(t, err)
	assert.True(t, IsEmptyInput(err))
}

func TestExtractVerticalUnparseableValue(t *testing.T) {
	table, err := ExtractVertical(sheetOf(
		[]any{"Status", "Active"},
		[]any{"Clicks", "12"},
	))
	require.NoError(t, err)
	require.Len(t, table.ExtractedMetrics, 2)
	assert.Equal(t, 0.0, table.ExtractedMetrics[0].Value)
	assert.Equal(t, "", table.ExtractedMetrics[0].Unit)
	assert.Equal(t, "Active", table.ExtractedMetrics[0].RawValue.Text())
}
