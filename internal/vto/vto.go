// Package vto defines the data structures of an evaluated treatment plan and
// includes functions for computing the plans of every scenario in a case.
package vto

import (
	"fmt"

	"github.com/iwvelando/vto-calculator/internal/config"
	"github.com/iwvelando/vto-calculator/pkg/growth"
	"github.com/iwvelando/vto-calculator/pkg/ledger"
	"github.com/iwvelando/vto-calculator/pkg/movement"
	"go.uber.org/zap"
)

// Plan holds all results of one evaluated scenario.
type Plan struct {
	Name             string
	Patient          string
	IncludeGrowth    bool
	DurationMonths   int
	GoalRight        movement.Goal
	GoalLeft         movement.Goal
	InitialPositions config.InitialPositions
	Growth           growth.Prediction
	// GrowthEntered is set when Growth holds typed space equivalents rather
	// than a rate-based prediction.
	GrowthEntered bool
	Ledger        []ledger.Entry
	Upper         movement.Plan
	Lower         movement.Plan
	Midlines      Midlines
}

// Midlines echoes the midline inputs with the derived dental-skeletal delta.
type Midlines struct {
	UpperDental   *float64
	LowerDental   *float64
	LowerSkeletal *float64
	LowerDelta    *float64
}

// Entry returns the ledger entry of the given arch side.
func (p Plan) Entry(archSide ledger.ArchSide) (ledger.Entry, bool) {
	for _, entry := range p.Ledger {
		if entry.ArchSide == archSide {
			return entry, true
		}
	}
	return ledger.Entry{}, false
}

// Movement returns the movement plan of the given arch.
func (p Plan) Movement(arch ledger.Arch) movement.Plan {
	if arch == ledger.ArchUpper {
		return p.Upper
	}
	return p.Lower
}

// GetPlans evaluates every active scenario of the configuration.
func GetPlans(logger *zap.Logger, conf config.Configuration) ([]Plan, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []Plan
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "vto.GetPlans"),
			)
			continue
		}

		plan, err := Evaluate(conf.Common, scenario)
		if err != nil {
			return results, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}

		logger.Debug("evaluated scenario",
			zap.String("op", "vto.GetPlans"),
			zap.String("scenario", scenario.Name),
			zap.Float64("upperSpaceEquiv", plan.Growth.UpperSpaceEquivMM),
			zap.Float64("lowerSpaceEquiv", plan.Growth.LowerSpaceEquivMM),
		)
		results = append(results, plan)
	}

	return results, nil
}

// Evaluate runs growth prediction, the four ledgers and movement allocation
// for a single scenario. It reads only its arguments.
func Evaluate(common config.Common, scenario config.Scenario) (Plan, error) {
	goalRight, goalLeft, err := scenario.Goals()
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{
		Name:             scenario.Name,
		Patient:          common.Patient,
		IncludeGrowth:    scenario.GrowthIncluded(),
		DurationMonths:   scenario.Duration(),
		GoalRight:        goalRight,
		GoalLeft:         goalLeft,
		InitialPositions: common.InitialPositions,
		Midlines:         midlines(common),
	}

	if plan.IncludeGrowth {
		profile, err := common.Growth.ToGrowthProfile()
		if err != nil {
			return Plan{}, err
		}
		if plan.Growth, err = growth.Predict(profile, plan.DurationMonths, true); err != nil {
			return Plan{}, err
		}
		plan.GrowthEntered = profile.SpaceEquivalent != nil
	}

	plan.Ledger = make([]ledger.Entry, 0, len(ledger.ArchSides))
	for _, archSide := range ledger.ArchSides {
		archGrowth := plan.Growth.UpperSpaceEquivMM
		if archSide.Arch == ledger.ArchLower {
			archGrowth = plan.Growth.LowerSpaceEquivMM
		}

		entry := ledger.Compute(
			archSide,
			common.Measurements(archSide.Arch).ToComponents(archSide.Side),
			scenario.Procedures(archSide).ToSpaceGained(),
			growth.PerSide(archGrowth),
		)
		plan.Ledger = append(plan.Ledger, entry)
	}

	for _, arch := range []ledger.Arch{ledger.ArchUpper, ledger.ArchLower} {
		right, _ := plan.Entry(ledger.ArchSide{Arch: arch, Side: ledger.SideRight})
		left, _ := plan.Entry(ledger.ArchSide{Arch: arch, Side: ledger.SideLeft})

		archPlan, err := movement.PlanArch(
			movement.SideInput{Remaining: right.Remaining, Goal: goalRight},
			movement.SideInput{Remaining: left.Remaining, Goal: goalLeft},
			common.Measurements(arch).DentalMidline,
		)
		if err != nil {
			return Plan{}, err
		}
		if arch == ledger.ArchUpper {
			plan.Upper = archPlan
		} else {
			plan.Lower = archPlan
		}
	}

	return plan, nil
}

func midlines(common config.Common) Midlines {
	m := Midlines{
		UpperDental:   common.Upper.DentalMidline,
		LowerDental:   common.Lower.DentalMidline,
		LowerSkeletal: common.Lower.SkeletalMidline,
	}
	if delta, ok := common.Lower.MidlineDelta(); ok {
		m.LowerDelta = &delta
	}
	return m
}
