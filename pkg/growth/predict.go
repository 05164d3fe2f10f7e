package growth

import (
	"github.com/iwvelando/vto-calculator/pkg/constants"
	"github.com/iwvelando/vto-calculator/pkg/vtoerr"
)

// Prediction is the growth expected over a treatment horizon, per axis and as
// arch-perimeter space equivalents.
type Prediction struct {
	SagittalMM        float64
	VerticalMM        float64
	TransverseMM      float64
	UpperSpaceEquivMM float64
	LowerSpaceEquivMM float64
}

// Predict converts a growth profile and a horizon into per-axis growth and
// per-arch space equivalents.
//
// When include is false the profile is not evaluated and the zero Prediction
// is returned. A non-positive duration yields zero growth. Entered space
// equivalents are returned as-is regardless of duration.
func Predict(profile Profile, durationMonths int, include bool) (Prediction, error) {
	if !include {
		return Prediction{}, nil
	}

	if se := profile.SpaceEquivalent; se != nil {
		if se.Upper < 0 || se.Lower < 0 {
			return Prediction{}, vtoerr.InvalidArgument("growth space equivalents must be non-negative, got %+v", *se)
		}
		return Prediction{UpperSpaceEquivMM: se.Upper, LowerSpaceEquivMM: se.Lower}, nil
	}

	rates, err := profile.AnnualRates()
	if err != nil {
		return Prediction{}, err
	}

	if durationMonths <= 0 {
		return Prediction{}, nil
	}

	years := float64(durationMonths) / constants.MonthsPerYear
	prediction := Prediction{
		SagittalMM:   rates.Sagittal * years,
		VerticalMM:   rates.Vertical * years,
		TransverseMM: rates.Transverse * years,
	}

	// Vertical growth deepens the bite but does not add perimeter.
	transverse := prediction.TransverseMM * constants.TransverseBilateralMultiplier
	prediction.UpperSpaceEquivMM = prediction.SagittalMM*constants.UpperSagittalShare + transverse
	prediction.LowerSpaceEquivMM = prediction.SagittalMM*constants.LowerSagittalShare + transverse

	return prediction, nil
}

// PerSide splits an arch space equivalent evenly between the right and left ledgers.
func PerSide(archSpaceEquivMM float64) float64 {
	return archSpaceEquivMM / 2.0
}
