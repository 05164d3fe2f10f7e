package config

import (
	"fmt"

	"github.com/iwvelando/vto-calculator/pkg/growth"
	"github.com/iwvelando/vto-calculator/pkg/ledger"
	"github.com/iwvelando/vto-calculator/pkg/movement"
)

// ToGrowthProfile validates the growth keys and converts them to a growth.Profile.
func (g GrowthConfig) ToGrowthProfile() (growth.Profile, error) {
	if g.SpaceEquivalent != nil {
		return growth.Profile{SpaceEquivalent: &growth.SpaceEquivalent{
			Upper: g.SpaceEquivalent.Upper,
			Lower: g.SpaceEquivalent.Lower,
		}}, nil
	}

	stage, err := growth.ParseStage(g.Stage)
	if err != nil {
		return growth.Profile{}, err
	}

	profile := growth.Profile{
		Stage: stage,
		Custom: growth.Rates{
			Sagittal:   g.CustomRates.Sagittal,
			Vertical:   g.CustomRates.Vertical,
			Transverse: g.CustomRates.Transverse,
		},
	}
	if stage == growth.StageCustom {
		return profile, nil
	}

	if profile.Sex, err = growth.ParseSex(g.Sex); err != nil {
		return growth.Profile{}, err
	}
	if profile.Percentile, err = growth.ParsePercentile(g.Percentile); err != nil {
		return growth.Profile{}, err
	}
	return profile, nil
}

// Measurements returns the measurements of the given arch.
func (c Common) Measurements(arch ledger.Arch) ArchMeasurements {
	if arch == ledger.ArchUpper {
		return c.Upper
	}
	return c.Lower
}

// ToComponents converts one side of an arch to ledger components, deriving
// the midline component from the dental midline when requested.
func (a ArchMeasurements) ToComponents(side ledger.Side) ledger.DiscrepancyComponents {
	m := a.Right
	if side == ledger.SideLeft {
		m = a.Left
	}

	components := ledger.DiscrepancyComponents{
		AnteriorCrowding: m.AnteriorCrowding,
		CurveOfSpee:      m.CurveOfSpee,
		Midline:          m.Midline,
		IncisorPosition:  m.IncisorPosition,
	}

	if a.DeriveMidlineComponent {
		dental := 0.0
		if a.DentalMidline != nil {
			dental = *a.DentalMidline
		}
		if side == ledger.SideLeft {
			components.Midline = 0 - dental
		} else {
			components.Midline = dental
		}
	}

	return components
}

// MidlineDelta returns dental minus skeletal midline when both are set.
func (a ArchMeasurements) MidlineDelta() (float64, bool) {
	if a.DentalMidline == nil || a.SkeletalMidline == nil {
		return 0, false
	}
	return *a.DentalMidline - *a.SkeletalMidline, true
}

// Procedures returns the procedures of the given arch side.
func (s Scenario) Procedures(archSide ledger.ArchSide) Procedures {
	arch := s.Lower
	if archSide.Arch == ledger.ArchUpper {
		arch = s.Upper
	}
	if archSide.Side == ledger.SideLeft {
		return arch.Left
	}
	return arch.Right
}

// ToSpaceGained converts procedures to the ledger's space-gained record.
func (p Procedures) ToSpaceGained() ledger.SpaceGained {
	return ledger.SpaceGained{
		Stripping:     p.Stripping,
		Expansion:     p.Expansion,
		Distalization: p.Distalization,
		Extraction:    p.Extraction,
	}
}

// Goals resolves the right and left treatment goals. A side-specific goal
// overrides the case-level TreatTo.
func (s Scenario) Goals() (right, left movement.Goal, err error) {
	resolve := func(sideValue, label string) (movement.Goal, error) {
		value := sideValue
		if value == "" {
			value = s.TreatTo
		}
		goal, err := movement.ParseGoal(value)
		if err != nil {
			return "", fmt.Errorf("scenario %s %s: %w", s.Name, label, err)
		}
		return goal, nil
	}

	if right, err = resolve(s.TreatToRight, "treatToRight"); err != nil {
		return "", "", err
	}
	if left, err = resolve(s.TreatToLeft, "treatToLeft"); err != nil {
		return "", "", err
	}
	return right, left, nil
}
