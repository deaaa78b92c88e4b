package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"sheetsight/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile reads the first sheet of an .xlsx or .csv file into a RawSheet
func ReadFile(path string) (domain.RawSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ReadBytes(filepath.Base(path), data)
}

// ReadBytes decodes an uploaded file. The filename extension selects the
// decoder; only the first worksheet of a workbook is read.
func ReadBytes(filename string, data []byte) (domain.RawSheet, error) {
	var (
		records [][]string
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		records, err = readCSV(data)
	case ".xlsx", ".xlsm":
		records, err = readWorkbook(data)
	case ".xls":
		return nil, fmt.Errorf("%w: legacy .xls workbooks must be saved as .xlsx", ErrUnsupportedFile)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	if err != nil {
		return nil, err
	}

	sheet := toRawSheet(records)
	if len(sheet) == 0 {
		return nil, &EmptyInputError{Reason: filename}
	}
	return sheet, nil
}

func readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &EmptyInputError{Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// toRawSheet classifies every cell and drops trailing empty rows
func toRawSheet(records [][]string) domain.RawSheet {
	sheet := make(domain.RawSheet, 0, len(records))
	for _, record := range records {
		row := make([]domain.Cell, len(record))
		for i, v := range record {
			row[i] = classifyCell(v)
		}
		sheet = append(sheet, row)
	}

	for len(sheet) > 0 && rowIsBlank(sheet[len(sheet)-1]) {
		sheet = sheet[:len(sheet)-1]
	}
	return sheet
}

func classifyCell(v string) domain.Cell {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return domain.NullCell()
	}
	if f, ok := ParseNumber(trimmed); ok && !strings.Contains(trimmed, ",") {
		return domain.NumberCell(f)
	}
	return domain.StringCell(v)
}

func rowIsBlank(row []domain.Cell) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

func nonEmptyCount(row []domain.Cell) int {
	n := 0
	for _, c := range row {
		if !c.IsEmpty() {
			n++
		}
	}
	return n
}
