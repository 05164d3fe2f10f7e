// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/vto-calculator/pkg/constants"
)

// ProcedureValues are the space-gaining procedure magnitudes of one arch side.
type ProcedureValues struct {
	Stripping     float64
	Expansion     float64
	Distalization float64
	Extraction    float64
}

// ValidateDuration warns when a growth horizon falls outside the
// clinically recommended range. Out-of-range values are still evaluated.
func ValidateDuration(scenarioName string, months int) string {
	if months < constants.MinRecommendedDurationMonths || months > constants.MaxRecommendedDurationMonths {
		return fmt.Sprintf("Scenario '%s' treatment duration %d months is outside the recommended %d-%d months",
			scenarioName, months, constants.MinRecommendedDurationMonths, constants.MaxRecommendedDurationMonths)
	}
	return ""
}

// ValidateProcedures warns about negative space-gained entries, which
// reduce available space instead of adding it.
func ValidateProcedures(scenarioName, archSide string, values ProcedureValues) []string {
	var warnings []string

	for _, entry := range []struct {
		name  string
		value float64
	}{
		{"stripping", values.Stripping},
		{"expansion", values.Expansion},
		{"distalization", values.Distalization},
		{"extraction", values.Extraction},
	} {
		if entry.value < 0 {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' %s %s is negative (%.2f mm) - space gained entries are expected to be positive",
				scenarioName, archSide, entry.name, entry.value))
		}
	}

	return warnings
}
