package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// CellKind identifies which variant a Cell holds
type CellKind uint8

const (
	CellNull CellKind = iota
	CellString
	CellNumber
)

// Cell is a single spreadsheet value: a string, a number or null.
// The zero value is null.
type Cell struct {
	kind CellKind
	str  string
	num  float64
}

// NullCell returns an empty cell
func NullCell() Cell { return Cell{} }

// StringCell returns a text cell
func StringCell(s string) Cell { return Cell{kind: CellString, str: s} }

// NumberCell returns a numeric cell. Non-finite numbers become null.
func NumberCell(f float64) Cell {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Cell{}
	}
	return Cell{kind: CellNumber, num: f}
}

// Kind returns the variant held by the cell
func (c Cell) Kind() CellKind { return c.kind }

// IsNull reports whether the cell holds no value
func (c Cell) IsNull() bool { return c.kind == CellNull }

// IsEmpty reports whether the cell is null or an empty string
func (c Cell) IsEmpty() bool {
	return c.kind == CellNull || (c.kind == CellString && c.str == "")
}

// Number returns the numeric value if the cell is a number
func (c Cell) Number() (float64, bool) {
	if c.kind != CellNumber {
		return 0, false
	}
	return c.num, true
}

// Text renders the cell as it would appear in the sheet. Null renders as "".
func (c Cell) Text() string {
	switch c.kind {
	case CellString:
		return c.str
	case CellNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	default:
		return ""
	}
}

// String implements fmt.Stringer
func (c Cell) String() string {
	if c.kind == CellNull {
		return "<null>"
	}
	return c.Text()
}

// MarshalJSON encodes the cell as a JSON string, number or null
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case CellString:
		return json.Marshal(c.str)
	case CellNumber:
		return json.Marshal(c.num)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON string, number or null into the cell
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Cell{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = StringCell(s)
		return nil
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("cell must be a string, number or null: %w", err)
		}
		*c = NumberCell(f)
		return nil
	}
}

// RawSheet is the cell grid of a single worksheet, exactly as read
type RawSheet [][]Cell

// At returns the cell at row r, column c, or null when out of range
func (s RawSheet) At(r, c int) Cell {
	if r < 0 || r >= len(s) || c < 0 || c >= len(s[r]) {
		return Cell{}
	}
	return s[r][c]
}

// Row is one normalized record keyed by column name
type Row map[string]Cell
