package dataprocessing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"sheetsight/pkg/contracts/domain"
)

const mainSection = "main"

// VerticalColumns is the flat view produced for label/value sheets
var VerticalColumns = []string{"metric", "value", "raw_value", "unit", "section"}

var sectionKeywords = []string{"breakdown", "demographics", "statistics"}

// extractState is threaded through the rows of a vertical sheet. Each step
// returns the next state; nothing is captured or mutated across steps.
type extractState struct {
	currentSection string
	accumulator    []domain.SectionEntry
	sections       []domain.Section
	metrics        []domain.ExtractedMetric
	meta           domain.ReportMeta
}

// ExtractVertical walks a label/value sheet in a single pass and splits it
// into metadata, metrics and sub-tables grouped by section.
func ExtractVertical(sheet domain.RawSheet) (*domain.NormalizedTable, error) {
	state := extractState{currentSection: mainSection}
	for i := 0; i < len(sheet); {
		state, i = state.step(sheet, i)
	}
	state = state.flush()

	if len(state.metrics) == 0 && !state.hasTables() {
		return nil, &EmptyInputError{Reason: "no label/value pairs found"}
	}

	rows := make([]domain.Row, 0, len(state.metrics))
	for _, m := range state.metrics {
		rows = append(rows, domain.Row{
			"metric":    domain.StringCell(m.Name),
			"value":     domain.NumberCell(m.Value),
			"raw_value": m.RawValue,
			"unit":      domain.StringCell(m.Unit),
			"section":   domain.StringCell(m.Section),
		})
	}

	meta := state.meta
	return &domain.NormalizedTable{
		Columns:          append([]string(nil), VerticalColumns...),
		Rows:             rows,
		RowCount:         len(rows),
		Format:           domain.FormatVertical,
		ExtractedMetrics: state.metrics,
		Sections:         state.sections,
		ReportMeta:       &meta,
	}, nil
}

// step consumes the row at i and returns the new state and next row index
func (s extractState) step(sheet domain.RawSheet, i int) (extractState, int) {
	row := sheet[i]
	colA := strings.TrimSpace(sheet.At(i, 0).Text())
	colB := sheet.At(i, 1)

	if colA == "" && nonEmptyCount(row) == 0 {
		return s, i + 1
	}

	if isSectionRow(colA) && colB.IsEmpty() {
		s = s.flush()
		s.currentSection = SectionSlug(colA)
		return s, i + 1
	}

	if next, ok := s.captureMeta(colA, colB); ok {
		return next, i + 1
	}

	if startsSubTable(sheet, i) {
		table := extractSubTable(sheet, i)
		if len(table.Rows) > 0 {
			s.sections = putSection(s.sections, domain.Section{
				Name:  s.currentSection + "_table",
				Table: table,
			})
			return s, i + 1 + len(table.Rows)
		}
	}

	if colA != "" && !colB.IsEmpty() {
		v := ParseValue(colB)
		s.metrics = append(s.metrics, domain.ExtractedMetric{
			Name:     DisplayLabel(colA),
			Value:    v.Numeric,
			RawValue: colB,
			Unit:     v.Unit,
			Section:  s.currentSection,
		})
		s.accumulator = append(s.accumulator, domain.SectionEntry{
			Metric:       DisplayLabel(colA),
			Value:        colB,
			NumericValue: v.Numeric,
		})
	}
	return s, i + 1
}

// flush stores the accumulated entries under the current section
func (s extractState) flush() extractState {
	if len(s.accumulator) > 0 {
		s.sections = putSection(s.sections, domain.Section{
			Name:    s.currentSection,
			Entries: s.accumulator,
		})
	}
	s.accumulator = nil
	return s
}

func (s extractState) captureMeta(colA string, colB domain.Cell) (extractState, bool) {
	lower := strings.ToLower(colA)
	value := strings.TrimSpace(colB.Text())
	switch {
	case ContainsAny(lower, "generated", "date:"):
		s.meta.GeneratedDate = value
	case ContainsAny(lower, "date range", "period"):
		s.meta.Period = value
	case ContainsAny(lower, "advertiser", "client", "account"):
		s.meta.Client = value
	default:
		return s, false
	}
	return s, true
}

func (s extractState) hasTables() bool {
	for _, sec := range s.sections {
		if sec.IsTable() {
			return true
		}
	}
	return false
}

// putSection replaces a section with the same name in place, or appends it
func putSection(sections []domain.Section, sec domain.Section) []domain.Section {
	for i := range sections {
		if sections[i].Name == sec.Name {
			out := append([]domain.Section(nil), sections...)
			out[i] = sec
			return out
		}
	}
	return append(sections, sec)
}

// isSectionRow applies the header text rule to column A. Labels starting
// with a digit are data, and a few breakdown keywords also open a section.
func isSectionRow(colA string) bool {
	if colA == "" {
		return false
	}
	if r, _ := utf8.DecodeRuneInString(colA); unicode.IsDigit(r) {
		return false
	}
	return IsHeaderText(colA) || ContainsAny(strings.ToLower(colA), sectionKeywords...)
}

// startsSubTable reports whether row i looks like the header of an
// embedded table: more than two filled cells followed by a row with at
// least two.
func startsSubTable(sheet domain.RawSheet, i int) bool {
	if nonEmptyCount(sheet[i]) <= 2 || i+1 >= len(sheet) {
		return false
	}
	return nonEmptyCount(sheet[i+1]) >= 2
}

// extractSubTable reads rows below the header at headerIdx until an empty
// first cell or a new section header.
func extractSubTable(sheet domain.RawSheet, headerIdx int) *domain.SubTable {
	table := &domain.SubTable{}
	seen := make(map[string]bool)
	var cols []int
	for idx, c := range sheet[headerIdx] {
		if c.IsEmpty() {
			continue
		}
		header := strings.TrimSpace(c.Text())
		key := NormalizeColumnName(header)
		table.Headers = append(table.Headers, header)
		cols = append(cols, idx)
		if !seen[key] {
			seen[key] = true
			table.Keys = append(table.Keys, key)
		}
	}

	for r := headerIdx + 1; r < len(sheet); r++ {
		first := strings.TrimSpace(sheet.At(r, 0).Text())
		if first == "" || IsHeaderText(first) {
			break
		}

		row := make(domain.Row, len(table.Keys))
		for i, header := range table.Headers {
			key := NormalizeColumnName(header)
			if _, dup := row[key]; !dup {
				row[key] = sheet.At(r, cols[i])
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
