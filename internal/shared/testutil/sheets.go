package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sheetsight/pkg/contracts/domain"
)

// Sheet builds a RawSheet from plain Go values. Strings become text cells,
// ints and float64s become numbers and anything else is a null cell.
func Sheet(rows ...[]any) domain.RawSheet {
	sheet := make(domain.RawSheet, len(rows))
	for i, row := range rows {
		cells := make([]domain.Cell, len(row))
		for j, v := range row {
			switch x := v.(type) {
			case string:
				cells[j] = domain.StringCell(x)
			case float64:
				cells[j] = domain.NumberCell(x)
			case int:
				cells[j] = domain.NumberCell(float64(x))
			default:
				cells[j] = domain.NullCell()
			}
		}
		sheet[i] = cells
	}
	return sheet
}

// SalesRows is the two row sales export used across package tests
func SalesRows() [][]any {
	return [][]any{
		{"Date", "Product", "Quantity", "Revenue"},
		{"2024-01-05", "A", 150, 4500},
		{"2024-01-10", "B", 50, 5000},
	}
}

// WriteWorkbook saves rows as the first sheet of a new xlsx file in a
// temporary directory and returns its path.
func WriteWorkbook(t *testing.T, name string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// WorkbookBytes returns rows encoded as an xlsx file
func WorkbookBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()

	path := WriteWorkbook(t, "book.xlsx", rows)
	data, err := os.ReadFile(path)
	require.NoError(t, err, fmt.Sprintf("read %s", path))
	return data
}
