// Package movement turns a remaining discrepancy into signed per-segment
// tooth displacements.
//
// Output sign convention: positive values move toward the patient's left,
// negative values toward the patient's right.
package movement

import (
	"math"
	"strings"

	"github.com/iwvelando/vto-calculator/pkg/constants"
	"github.com/iwvelando/vto-calculator/pkg/vtoerr"
)

// Goal is the treatment class the case is finished to.
type Goal string

// Supported treatment goals.
const (
	GoalClassI   Goal = "Class I"
	GoalClassII  Goal = "Class II"
	GoalClassIII Goal = "Class III"
)

type goalWeights struct {
	anterior  float64
	posterior float64
}

var weightsByGoal = map[Goal]goalWeights{
	GoalClassI:   {anterior: 0.55, posterior: 0.45},
	GoalClassII:  {anterior: 0.65, posterior: 0.35},
	GoalClassIII: {anterior: 0.45, posterior: 0.55},
}

// ParseGoal accepts "Class II", "class ii" or "II" and rejects anything else.
func ParseGoal(value string) (Goal, error) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(value), " "))
	normalized = strings.TrimPrefix(normalized, "CLASS ")
	switch normalized {
	case "I":
		return GoalClassI, nil
	case "II":
		return GoalClassII, nil
	case "III":
		return GoalClassIII, nil
	}
	return "", vtoerr.InvalidArgument("unknown treatment goal %q", value)
}

// Weights returns the anterior and posterior share of a spacing allocation.
func (g Goal) Weights() (anterior, posterior float64, err error) {
	w, ok := weightsByGoal[g]
	if !ok {
		return 0, 0, vtoerr.InvalidArgument("unknown treatment goal %q", g)
	}
	return w.anterior, w.posterior, nil
}

// Regime distinguishes a side that still needs space from one with excess.
type Regime int

// Allocation regimes.
const (
	RegimeNone Regime = iota
	RegimeCrowding
	RegimeSpacing
)

// String implements fmt.Stringer.
func (r Regime) String() string {
	switch r {
	case RegimeCrowding:
		return "crowding"
	case RegimeSpacing:
		return "spacing"
	}
	return "none"
}

// RegimeOf derives the regime from the sign of a remaining discrepancy.
func RegimeOf(remaining float64) Regime {
	switch {
	case remaining < 0:
		return RegimeCrowding
	case remaining > 0:
		return RegimeSpacing
	}
	return RegimeNone
}

// Magnitudes are unsigned per-segment movements in mm.
type Magnitudes struct {
	Molar   float64
	Canine  float64
	Incisor float64
}

// Allocate distributes |remaining| over molar, canine and incisor segments.
//
// A crowded side moves every segment by the full deficit. A spaced side
// splits the excess by the goal's anterior/posterior weights.
func Allocate(remaining float64, goal Goal) (Magnitudes, error) {
	anteriorWeight, posteriorWeight, err := goal.Weights()
	if err != nil {
		return Magnitudes{}, err
	}
	return allocate(RegimeOf(remaining), math.Abs(remaining), anteriorWeight, posteriorWeight), nil
}

func allocate(regime Regime, magnitude, anteriorWeight, posteriorWeight float64) Magnitudes {
	switch regime {
	case RegimeCrowding:
		return Magnitudes{Molar: magnitude, Canine: magnitude, Incisor: magnitude}
	case RegimeSpacing:
		anterior := magnitude * anteriorWeight
		return Magnitudes{
			Molar:   magnitude * posteriorWeight,
			Canine:  anterior * constants.CanineAnteriorShare,
			Incisor: anterior * constants.IncisorAnteriorShare,
		}
	}
	return Magnitudes{}
}
