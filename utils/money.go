package utils

import "math"

// Round2 rounds a monetary amount to 2 decimal places. All stored money
// fields are decimal(10,2) columns; rounding happens once per recompute,
// not per read.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
