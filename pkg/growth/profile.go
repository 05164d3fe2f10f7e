// Package growth converts a skeletal maturation profile and a treatment
// horizon into a space-equivalent contribution for each arch.
package growth

import (
	"strings"

	"github.com/iwvelando/vto-calculator/pkg/vtoerr"
)

// Sex is the population segment used to select preset growth rates.
type Sex string

// Supported population segments.
const (
	SexFemale Sex = "female"
	SexMale   Sex = "male"
)

// Stage is a cervical vertebral maturation stage grouping.
type Stage string

// Supported maturation stages. StageCustom switches the profile to its
// explicit custom rates.
const (
	StagePrePeak  Stage = "pre-peak"
	StagePeak     Stage = "peak"
	StagePostPeak Stage = "post-peak"
	StageComplete Stage = "complete"
	StageCustom   Stage = "custom"
)

// Percentile is the growth-rate percentile band within a stage.
type Percentile string

// Supported percentile bands. An empty percentile is treated as average.
const (
	PercentileLow     Percentile = "low"
	PercentileAverage Percentile = "average"
	PercentileHigh    Percentile = "high"
)

// Rates is an annual growth rate triple in mm/year.
type Rates struct {
	Sagittal   float64
	Vertical   float64
	Transverse float64
}

// SpaceEquivalent is a per-arch growth total already expressed as arch
// perimeter (mm), entered directly instead of derived from rates.
type SpaceEquivalent struct {
	Upper float64
	Lower float64
}

// Profile selects either a preset rate triple (Sex, Stage, Percentile) or,
// when Stage is StageCustom, the Custom rates.
//
// A non-nil SpaceEquivalent bypasses both: the entered totals are used as the
// arch space equivalents and no axis growth is derived.
type Profile struct {
	Sex             Sex
	Stage           Stage
	Percentile      Percentile
	Custom          Rates
	SpaceEquivalent *SpaceEquivalent
}

// presetRates are assumed placeholder values, not sourced clinical norms.
// Cases that need measured rates should use StageCustom or SpaceEquivalent.
var presetRates = map[Sex]map[Stage]Rates{
	SexFemale: {
		StagePrePeak:  {Sagittal: 1.5, Vertical: 1.0, Transverse: 0.5},
		StagePeak:     {Sagittal: 2.5, Vertical: 2.0, Transverse: 0.8},
		StagePostPeak: {Sagittal: 1.0, Vertical: 1.0, Transverse: 0.3},
		StageComplete: {},
	},
	SexMale: {
		StagePrePeak:  {Sagittal: 1.8, Vertical: 1.2, Transverse: 0.6},
		StagePeak:     {Sagittal: 3.0, Vertical: 2.5, Transverse: 1.0},
		StagePostPeak: {Sagittal: 1.5, Vertical: 1.5, Transverse: 0.4},
		StageComplete: {},
	},
}

var percentileMultipliers = map[Percentile]float64{
	PercentileLow:     0.75,
	PercentileAverage: 1.0,
	PercentileHigh:    1.25,
}

// ParseSex normalizes a sex key and rejects unknown values.
func ParseSex(value string) (Sex, error) {
	sex := Sex(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := presetRates[sex]; !ok {
		return "", vtoerr.InvalidArgument("unknown sex %q", value)
	}
	return sex, nil
}

// ParseStage normalizes a maturation stage key and rejects unknown values.
func ParseStage(value string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(value)))
	switch stage {
	case StagePrePeak, StagePeak, StagePostPeak, StageComplete, StageCustom:
		return stage, nil
	}
	return "", vtoerr.InvalidArgument("unknown maturation stage %q", value)
}

// ParsePercentile normalizes a percentile key. Empty means average.
func ParsePercentile(value string) (Percentile, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return PercentileAverage, nil
	}
	percentile := Percentile(trimmed)
	if _, ok := percentileMultipliers[percentile]; !ok {
		return "", vtoerr.InvalidArgument("unknown growth percentile %q", value)
	}
	return percentile, nil
}

// AnnualRates resolves the profile to a single annual rate triple.
func (p Profile) AnnualRates() (Rates, error) {
	if p.Stage == StageCustom {
		if p.Custom.Sagittal < 0 || p.Custom.Vertical < 0 || p.Custom.Transverse < 0 {
			return Rates{}, vtoerr.InvalidArgument("custom growth rates must be non-negative, got %+v", p.Custom)
		}
		return p.Custom, nil
	}

	stages, ok := presetRates[p.Sex]
	if !ok {
		return Rates{}, vtoerr.InvalidArgument("unknown sex %q", p.Sex)
	}
	base, ok := stages[p.Stage]
	if !ok {
		return Rates{}, vtoerr.InvalidArgument("unknown maturation stage %q", p.Stage)
	}

	percentile := p.Percentile
	if percentile == "" {
		percentile = PercentileAverage
	}
	multiplier, ok := percentileMultipliers[percentile]
	if !ok {
		return Rates{}, vtoerr.InvalidArgument("unknown growth percentile %q", p.Percentile)
	}

	return Rates{
		Sagittal:   base.Sagittal * multiplier,
		Vertical:   base.Vertical * multiplier,
		Transverse: base.Transverse * multiplier,
	}, nil
}
