package dataprocessing

import (
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"sheetsight/pkg/contracts/domain"
)

// dateLayouts are tried in order. Workbook cells come back formatted, so
// excelize's default short date (mm-dd-yy) is included.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1-2-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"2006-01",
}

// ParseDate reads a cell as a calendar date. Number cells are treated as
// Excel serial dates.
func ParseDate(c domain.Cell) (time.Time, bool) {
	if f, ok := c.Number(); ok {
		if f <= 0 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	s := strings.TrimSpace(c.Text())
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
