package analytics

import (
	"sheetsight/internal/dataprocessing"
	"sheetsight/pkg/contracts/domain"
)

const (
	maxPreviewRows    = 20
	maxSummaryMetrics = 30
)

// SummaryTable returns the preview table included in a report payload.
// Vertical sheets list their extracted metrics; horizontal sheets show
// the first rows with display column names.
func SummaryTable(table *domain.NormalizedTable) domain.PreviewTable {
	if table.Format.IsVertical() {
		return metricsPreview(table)
	}

	columns := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		columns[i] = dataprocessing.FormatColumnName(col)
	}

	rows := table.Rows
	if len(rows) > maxPreviewRows {
		rows = rows[:maxPreviewRows]
	}
	preview := make([]domain.Row, 0, len(rows))
	for _, row := range rows {
		out := make(domain.Row, len(table.Columns))
		for i, col := range table.Columns {
			out[columns[i]] = row[col]
		}
		preview = append(preview, out)
	}

	return domain.PreviewTable{Name: "Data Preview", Columns: columns, Rows: preview}
}

func metricsPreview(table *domain.NormalizedTable) domain.PreviewTable {
	var rows []domain.Row
	for _, m := range table.ExtractedMetrics {
		if m.Value == 0 && m.RawValue.IsEmpty() {
			continue
		}
		value := m.RawValue
		if value.IsEmpty() {
			value = domain.NumberCell(m.Value)
		}
		section := m.Section
		if section == "" {
			section = "main"
		}
		rows = append(rows, domain.Row{
			"Metric":  domain.StringCell(m.Name),
			"Value":   value,
			"Section": domain.StringCell(dataprocessing.FormatColumnName(section)),
		})
		if len(rows) == maxSummaryMetrics {
			break
		}
	}

	return domain.PreviewTable{
		Name:    "Extracted Metrics",
		Columns: []string{"Metric", "Value", "Section"},
		Rows:    rows,
	}
}
