package dataprocessing

import (
	"strconv"
	"strings"

	"sheetsight/pkg/contracts/domain"
)

const (
	detectionScanRows     = 30
	verticalRatioCutoff   = 0.5
	sectionCountThreshold = 2
)

var reportIndicators = []string{
	"report", "summary", "statistics", "generated", "date range",
	"total", "metric", "value", "performance", "breakdown",
}

// FormatDecision is the detector's verdict together with the counters it
// was based on. Rule names the rule that fired.
type FormatDecision struct {
	Format             domain.Format `json:"format"`
	Rule               string        `json:"rule"`
	HasReportIndicator bool          `json:"has_report_indicator"`
	LabelCount         int           `json:"label_count"`
	ValueCount         int           `json:"value_count"`
	SectionCount       int           `json:"section_count"`
	VerticalRatio      float64       `json:"vertical_ratio"`
}

// formatRule classifies a sheet as vertical when match returns true
type formatRule struct {
	name  string
	match func(d FormatDecision) bool
}

// formatRules are evaluated in order; the first match wins
var formatRules = []formatRule{
	{name: "report_indicator", match: func(d FormatDecision) bool { return d.HasReportIndicator }},
	{name: "section_headers", match: func(d FormatDecision) bool { return d.SectionCount >= sectionCountThreshold }},
	{name: "label_value_ratio", match: func(d FormatDecision) bool { return d.VerticalRatio > verticalRatioCutoff }},
}

// Detect classifies a sheet as horizontal, vertical or report. It never
// fails; borderline sheets are horizontal.
func Detect(sheet domain.RawSheet) FormatDecision {
	if len(sheet) < 2 {
		return FormatDecision{Format: domain.FormatHorizontal, Rule: "too_few_rows"}
	}

	d := countSignals(sheet)
	for _, rule := range formatRules {
		if !rule.match(d) {
			continue
		}
		d.Rule = rule.name
		d.Format = domain.FormatVertical
		if d.SectionCount >= sectionCountThreshold {
			d.Format = domain.FormatReport
		}
		return d
	}

	d.Rule = "default"
	d.Format = domain.FormatHorizontal
	return d
}

func countSignals(sheet domain.RawSheet) FormatDecision {
	var d FormatDecision

	first := strings.ToLower(sheet.At(0, 0).Text())
	d.HasReportIndicator = ContainsAny(first, reportIndicators...)

	limit := min(detectionScanRows, len(sheet))
	for i := 0; i < limit; i++ {
		colA := strings.TrimSpace(sheet.At(i, 0).Text())
		colB := sheet.At(i, 1)

		if colA != "" && IsHeaderText(colA) {
			d.SectionCount++
		}
		if !isLabelText(colA) {
			continue
		}
		d.LabelCount++
		if isValueCell(colB) {
			d.ValueCount++
		}
	}

	d.VerticalRatio = float64(d.ValueCount) / float64(max(d.LabelCount, 1))
	return d
}

// isLabelText is non-empty text that does not start with a number. Dates
// such as 2024-01-31 and codes such as 12abc start with one and are not labels.
func isLabelText(s string) bool {
	if s == "" {
		return false
	}
	_, numeric := leadingNumber(s)
	return !numeric
}

// leadingNumber parses the longest decimal prefix of s: optional sign,
// digits with at most one point, and an optional exponent. Leading blanks
// are skipped. It reports false when no digit starts the text.
func leadingNumber(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		if exp < len(s) && isDigit(s[exp]) {
			for exp < len(s) && isDigit(s[exp]) {
				exp++
			}
			end = exp
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// isValueCell is a cell that reads as a number once %, $ and , are removed,
// or that carries a percent sign.
func isValueCell(c domain.Cell) bool {
	if c.IsEmpty() {
		return false
	}
	if _, ok := c.Number(); ok {
		return true
	}
	text := c.Text()
	if _, ok := ParseDecorated(text); ok {
		return true
	}
	return strings.Contains(text, "%")
}
