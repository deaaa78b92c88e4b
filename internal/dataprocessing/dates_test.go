package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsight/pkg/contracts/domain"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		cell domain.Cell
		want time.Time
		ok   bool
	}{
		{name: "iso", cell: domain.StringCell("2024-03-15"), want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "us slashes", cell: domain.StringCell("3/5/2024"), want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "workbook short date", cell: domain.StringCell("01-05-24"), want: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "month only", cell: domain.StringCell("2024-02"), want: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "excel serial", cell: domain.NumberCell(45292), want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "text", cell: domain.StringCell("soon"), ok: false},
		{name: "null", cell: domain.NullCell(), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.cell)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}
