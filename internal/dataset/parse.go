package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a numeric cell. Decimal commas from European locale
// exports are accepted when the cell has no decimal point.
func ParseNumber(val string) (float64, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0, fmt.Errorf("empty")
	}
	if !strings.Contains(val, ".") {
		val = strings.ReplaceAll(val, ",", ".")
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%q is not a finite number", val)
	}
	return f, nil
}
