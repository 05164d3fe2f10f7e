// Package format renders millimetre values for display.
package format

import (
	"fmt"

	"github.com/iwvelando/vto-calculator/pkg/mathutil"
)

// Millimetres returns a signed value with unit, e.g. "+1.50 mm" or "-0.25 mm".
// Values that round to zero are rendered without a sign.
func Millimetres(value float64) string {
	return Signed(value) + " mm"
}

// Signed returns a signed two-decimal number without unit, e.g. "+1.50".
func Signed(value float64) string {
	rounded := mathutil.Round(value)
	if rounded == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%+.2f", rounded)
}

// Direction describes the sign of a displacement using the patient's frame.
func Direction(value float64) string {
	switch mathutil.Sign(mathutil.Round(value)) {
	case 1:
		return "toward patient's left"
	case -1:
		return "toward patient's right"
	}
	return "no movement"
}
