package dataprocessing

import (
	"sheetsight/pkg/contracts/domain"
)

// requiredColumns lists the columns each report type needs in a horizontal table
var requiredColumns = map[domain.ReportType][]string{
	domain.ReportTypeSales:     {"date", "product", "quantity", "revenue"},
	domain.ReportTypeFinancial: {"date", "category", "amount"},
	domain.ReportTypeMarketing: {"campaign", "impressions", "clicks", "conversions"},
	domain.ReportTypeInventory: {"product", "stock", "reorder_level"},
	domain.ReportTypeCustom:    {},
}

// RequiredColumns returns the required columns for a report type. Unknown
// types have none.
func RequiredColumns(reportType domain.ReportType) []string {
	return append([]string(nil), requiredColumns[reportType]...)
}

// ValidateColumns checks that every required column for reportType is
// present by exact name.
func ValidateColumns(columns []string, reportType domain.ReportType) error {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	var missing []string
	for _, col := range requiredColumns[reportType] {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{
			ReportType: string(reportType),
			Missing:    missing,
			Found:      append([]string(nil), columns...),
		}
	}
	return nil
}

// Parse detects the layout of sheet and normalizes it. Horizontal tables are
// validated against the required columns of reportType unless it is custom.
func Parse(sheet domain.RawSheet, reportType domain.ReportType) (*domain.NormalizedTable, FormatDecision, error) {
	if len(sheet) == 0 {
		return nil, FormatDecision{}, &EmptyInputError{}
	}

	decision := Detect(sheet)

	var (
		table *domain.NormalizedTable
		err   error
	)
	if decision.Format.IsVertical() {
		table, err = ExtractVertical(sheet)
	} else {
		table, err = NormalizeHorizontal(sheet)
	}
	if err != nil {
		return nil, decision, err
	}

	if reportType != "" && reportType != domain.ReportTypeCustom && table.Format == domain.FormatHorizontal {
		if err := ValidateColumns(table.Columns, reportType); err != nil {
			return nil, decision, err
		}
	}
	return table, decision, nil
}
