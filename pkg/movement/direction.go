package movement

import (
	"github.com/iwvelando/vto-calculator/pkg/ledger"
)

// Tooth is the segment type used to pick a direction rule.
type Tooth string

// Segment types.
const (
	ToothMolar   Tooth = "molar"
	ToothCanine  Tooth = "canine"
	ToothIncisor Tooth = "incisor"
)

// outward is the direction away from the midline on each side.
func outward(side ledger.Side) float64 {
	if side == ledger.SideLeft {
		return 1
	}
	return -1
}

// Direction returns +1 (toward patient's left), -1 (toward patient's right)
// or 0.
//
// Crowding moves every tooth outward. Spacing moves molars mesially and
// canines and incisors distally into the vacated space.
func Direction(regime Regime, side ledger.Side, tooth Tooth) float64 {
	switch regime {
	case RegimeCrowding:
		return outward(side)
	case RegimeSpacing:
		if tooth == ToothMolar {
			return -outward(side)
		}
		return outward(side)
	}
	return 0
}
