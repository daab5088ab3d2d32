package exporter

import (
	"strconv"
)

// formatFloat formats a float64 with the fewest digits that round-trip, so a
// rate of 100 is written as "100" and 33.33… keeps its full precision.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}
