// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/vto-calculator/pkg/constants"
)

// Round rounds a value to two decimals, the resolution used for display.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// Sign returns -1, 0 or +1 according to the sign of val.
func Sign(val float64) float64 {
	switch {
	case val > 0:
		return 1
	case val < 0:
		return -1
	}
	return 0
}
