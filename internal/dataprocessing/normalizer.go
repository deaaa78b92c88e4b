package dataprocessing

import (
	"fmt"

	"sheetsight/pkg/contracts/domain"
)

// NormalizeHorizontal converts a standard table into column-keyed rows.
// Row 0 is the header; missing trailing cells become null.
func NormalizeHorizontal(sheet domain.RawSheet) (*domain.NormalizedTable, error) {
	if len(sheet) < 2 {
		return nil, &EmptyInputError{Reason: "no data rows after header"}
	}

	columns := normalizeHeader(sheet[0])
	if len(columns) == 0 {
		return nil, &EmptyInputError{Reason: "header row is empty"}
	}
	rows := make([]domain.Row, 0, len(sheet)-1)
	for _, raw := range sheet[1:] {
		row := make(domain.Row, len(columns))
		for i, col := range columns {
			if i < len(raw) {
				row[col] = raw[i]
			} else {
				row[col] = domain.NullCell()
			}
		}
		rows = append(rows, row)
	}

	return &domain.NormalizedTable{
		Columns:  columns,
		Rows:     rows,
		RowCount: len(rows),
		Format:   domain.FormatHorizontal,
	}, nil
}

// normalizeHeader builds unique column names. Blank headers are named
// after their position and repeated names get a numeric suffix.
func normalizeHeader(header []domain.Cell) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, cell := range header {
		name := NormalizeColumnName(cell.Text())
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n)
			for seen[name] > 0 {
				name += "_"
			}
		}
		seen[name]++
		columns[i] = name
	}
	return columns
}
