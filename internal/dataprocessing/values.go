package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"sheetsight/pkg/contracts/domain"
)

// Units assigned by the value parser
const (
	UnitNone     = ""
	UnitPercent  = "%"
	UnitCurrency = "$"
	UnitUnits    = "units"
)

// ParsedValue is the numeric reading of a report cell
type ParsedValue struct {
	Numeric float64
	Unit    string
}

// ParseNumber parses s as a float. Surrounding whitespace and thousands
// separators are ignored; anything else that is not a finite number fails.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CellNumber reads a cell as a number. Text cells are parsed with ParseNumber.
func CellNumber(c domain.Cell) (float64, bool) {
	if f, ok := c.Number(); ok {
		return f, true
	}
	if c.Kind() == domain.CellString {
		return ParseNumber(c.Text())
	}
	return 0, false
}

// CellNumberOrZero reads a cell as a number, substituting 0 when it does not parse
func CellNumberOrZero(c domain.Cell) float64 {
	f, _ := CellNumber(c)
	return f
}

// ParseDecorated parses text after removing percent and currency signs
func ParseDecorated(s string) (float64, bool) {
	return ParseNumber(strings.NewReplacer("%", "", "$", "").Replace(s))
}

// ParseValue reads a report value cell into a number and a unit. Values
// that do not parse yield zero with no unit.
func ParseValue(c domain.Cell) ParsedValue {
	if f, ok := c.Number(); ok {
		return ParsedValue{Numeric: f}
	}
	if c.IsNull() {
		return ParsedValue{}
	}

	s := strings.TrimSpace(c.Text())
	switch {
	case strings.Contains(s, "%"):
		f, _ := ParseNumber(strings.ReplaceAll(s, "%", ""))
		return ParsedValue{Numeric: f, Unit: UnitPercent}
	case strings.Contains(s, "$"):
		f, _ := ParseNumber(strings.ReplaceAll(s, "$", ""))
		return ParsedValue{Numeric: f, Unit: UnitCurrency}
	default:
		f, _ := ParseNumber(s)
		return ParsedValue{Numeric: f}
	}
}

// NormalizeColumnName lowercases a header, trims it and joins whitespace
// runs with a single underscore.
func NormalizeColumnName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}

// FormatColumnName turns a normalized column name into a display name,
// e.g. "unit_price" becomes "Unit Price".
func FormatColumnName(col string) string {
	words := strings.Split(col, "_")
	for i, w := range words {
		words[i] = upperFirst(w)
	}
	return strings.Join(words, " ")
}

// SectionSlug converts a section header into a section name
func SectionSlug(s string) string {
	s = strings.TrimSuffix(strings.TrimSpace(s), ":")
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}

// IsAllCaps reports whether s has at least one letter and no lowercase letters
func IsAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// IsHeaderText is the section header text rule: all caps and longer than
// three characters, or ending with a colon.
func IsHeaderText(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ":") {
		return true
	}
	return IsAllCaps(s) && utf8.RuneCountInString(s) > 3
}

// DisplayLabel title-cases labels written in all caps and keeps others as they are
func DisplayLabel(s string) string {
	s = strings.TrimSpace(s)
	if !IsAllCaps(s) {
		return s
	}
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = upperFirst(w)
	}
	return strings.Join(words, " ")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ContainsAny reports whether s contains any of the keywords
func ContainsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
