// Package dataprocessing turns uploaded spreadsheets into normalized tables.
//
// # Architecture
//
// The package is organized into four steps:
//
// 1. Reader: decodes .xlsx (first sheet, via excelize) and .csv files into a RawSheet
// 2. Detector: classifies the sheet as horizontal, vertical or report layout
// 3. Normalizer / Extractor: builds a NormalizedTable from either layout
// 4. Metadata: infers client, period and report type for the report payload
//
// # Usage
//
//	sheet, err := dataprocessing.ReadFile("acme_sales_q1.xlsx")
//	if err != nil {
//	    return err
//	}
//	table, decision, err := dataprocessing.Parse(sheet, domain.ReportTypeSales)
//
// # Data Flow
//
//	File → Reader → RawSheet → Detect → {NormalizeHorizontal | ExtractVertical} → NormalizedTable
//
// # Error Handling
//
// Only conditions that make the whole output meaningless are errors:
// *EmptyInputError, *MissingColumnsError and ErrUnsupportedFile. Cells that
// fail numeric parsing are read as zero or skipped by callers, never reported.
//
// All functions except the readers are pure and safe for concurrent use.
package dataprocessing
