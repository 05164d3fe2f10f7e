// Package ledger computes the space-balance ledger of one arch side:
// initial discrepancy, space gained and remaining discrepancy.
//
// Sign convention: crowding is negative and spacing is positive. Space
// gained entries are magnitudes and are added to the initial discrepancy.
package ledger

import (
	"math"

	"github.com/iwvelando/vto-calculator/pkg/constants"
)

// Arch is a dental arch.
type Arch string

// Supported arches.
const (
	ArchUpper Arch = "upper"
	ArchLower Arch = "lower"
)

// Side is the patient's right or left.
type Side string

// Supported sides.
const (
	SideRight Side = "right"
	SideLeft  Side = "left"
)

// ArchSide identifies one of the four independently computed ledgers.
type ArchSide struct {
	Arch Arch
	Side Side
}

// String returns e.g. "lower-right".
func (a ArchSide) String() string {
	return string(a.Arch) + "-" + string(a.Side)
}

// ArchSides lists the four ledgers in display order.
var ArchSides = []ArchSide{
	{Arch: ArchUpper, Side: SideRight},
	{Arch: ArchUpper, Side: SideLeft},
	{Arch: ArchLower, Side: SideRight},
	{Arch: ArchLower, Side: SideLeft},
}

// DiscrepancyComponents are the signed contributions to the initial discrepancy.
type DiscrepancyComponents struct {
	AnteriorCrowding float64
	CurveOfSpee      float64
	Midline          float64
	IncisorPosition  float64
}

// SpaceGained are the planned space-gaining procedures, excluding growth.
type SpaceGained struct {
	Stripping     float64
	Expansion     float64
	Distalization float64
	Extraction    float64
}

// Status classifies a remaining discrepancy.
type Status string

// Remaining discrepancy classifications.
const (
	StatusBalanced Status = "balanced"
	StatusCrowding Status = "crowding remains"
	StatusSpacing  Status = "spacing remains"
)

// Description returns the long form of the status for display.
func (s Status) Description() string {
	switch s {
	case StatusBalanced:
		return "≈ balanced (near 0)"
	case StatusCrowding:
		return "Still short on space (crowding remains)"
	case StatusSpacing:
		return "Excess space (spacing remains)"
	}
	return string(s)
}

// InitialDiscrepancy sums the four components without clamping.
func InitialDiscrepancy(c DiscrepancyComponents) float64 {
	return c.AnteriorCrowding + c.CurveOfSpee + c.Midline + c.IncisorPosition
}

// Remaining adds the gained space and growth to the initial discrepancy.
func Remaining(initial float64, gained SpaceGained, growth float64) (totalGained, remaining float64) {
	totalGained = gained.Stripping + gained.Expansion + gained.Distalization + gained.Extraction + growth
	remaining = initial + totalGained
	return totalGained, remaining
}

// RemainingStatus classifies x with a ±0.05 mm dead-band around zero.
func RemainingStatus(x float64) Status {
	if math.Abs(x) < constants.BalancedTolerance {
		return StatusBalanced
	}
	if x < 0 {
		return StatusCrowding
	}
	return StatusSpacing
}

// Entry is the full ledger of one arch side.
type Entry struct {
	ArchSide    ArchSide
	Components  DiscrepancyComponents
	Initial     float64
	Gained      SpaceGained
	Growth      float64
	TotalGained float64
	Remaining   float64
	Status      Status
}

// Compute builds the ledger entry for one arch side.
func Compute(archSide ArchSide, components DiscrepancyComponents, gained SpaceGained, growth float64) Entry {
	initial := InitialDiscrepancy(components)
	totalGained, remaining := Remaining(initial, gained, growth)
	return Entry{
		ArchSide:    archSide,
		Components:  components,
		Initial:     initial,
		Gained:      gained,
		Growth:      growth,
		TotalGained: totalGained,
		Remaining:   remaining,
		Status:      RemainingStatus(remaining),
	}
}
