package exporter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// formatFloat writes the shortest representation that parses back to f.
// Whole values keep a ".0" suffix so float columns read as floats (100.0).
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}

// formatValue renders a table cell for text output
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return formatFloat(val)
	case int:
		return strconv.Itoa(val)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
