package exporter

import (
	"strconv"
)

// formatFloat formats a value with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}
