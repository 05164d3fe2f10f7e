package movement

import (
	"github.com/iwvelando/vto-calculator/pkg/ledger"
)

// Segment identifies a tooth segment of one arch.
type Segment string

// Segments in diagram order, patient's right to left.
const (
	SegmentRightMolar  Segment = "R6"
	SegmentRightCanine Segment = "R3"
	SegmentIncisor     Segment = "Inc"
	SegmentLeftCanine  Segment = "L3"
	SegmentLeftMolar   Segment = "L6"
)

// SideInput is the allocator input of one side of an arch.
type SideInput struct {
	Remaining float64
	Goal      Goal
}

// Plan holds signed displacements (mm) of one arch.
type Plan struct {
	RightMolar  float64
	RightCanine float64
	Incisor     float64
	LeftCanine  float64
	LeftMolar   float64

	RightRegime Regime
	LeftRegime  Regime

	// MidlineCorrected is set when Incisor comes from the dental midline
	// rather than the averaged allocation.
	MidlineCorrected bool
}

// SegmentValue pairs a segment with its signed displacement.
type SegmentValue struct {
	Segment Segment
	Value   float64
}

// Segments returns the plan in diagram order.
func (p Plan) Segments() []SegmentValue {
	return []SegmentValue{
		{Segment: SegmentRightMolar, Value: p.RightMolar},
		{Segment: SegmentRightCanine, Value: p.RightCanine},
		{Segment: SegmentIncisor, Value: p.Incisor},
		{Segment: SegmentLeftCanine, Value: p.LeftCanine},
		{Segment: SegmentLeftMolar, Value: p.LeftMolar},
	}
}

// PlanArch allocates and signs both sides of one arch. When dentalMidline is
// non-nil the incisor entry is the direct midline correction; otherwise it is
// the average of the two sides' signed incisor allocations.
func PlanArch(right, left SideInput, dentalMidline *float64) (Plan, error) {
	rightMag, err := Allocate(right.Remaining, right.Goal)
	if err != nil {
		return Plan{}, err
	}
	leftMag, err := Allocate(left.Remaining, left.Goal)
	if err != nil {
		return Plan{}, err
	}

	rightRegime := RegimeOf(right.Remaining)
	leftRegime := RegimeOf(left.Remaining)

	plan := Plan{
		RightMolar:  Direction(rightRegime, ledger.SideRight, ToothMolar) * rightMag.Molar,
		RightCanine: Direction(rightRegime, ledger.SideRight, ToothCanine) * rightMag.Canine,
		LeftCanine:  Direction(leftRegime, ledger.SideLeft, ToothCanine) * leftMag.Canine,
		LeftMolar:   Direction(leftRegime, ledger.SideLeft, ToothMolar) * leftMag.Molar,
		RightRegime: rightRegime,
		LeftRegime:  leftRegime,
	}

	if dentalMidline != nil {
		plan.Incisor = IncisorCorrection(*dentalMidline)
		plan.MidlineCorrected = true
	} else {
		rightDir := Direction(rightRegime, ledger.SideRight, ToothIncisor)
		leftDir := Direction(leftRegime, ledger.SideLeft, ToothIncisor)
		plan.Incisor = (rightDir + leftDir) / 2.0 * ((rightMag.Incisor + leftMag.Incisor) / 2.0)
	}

	return plan, nil
}
