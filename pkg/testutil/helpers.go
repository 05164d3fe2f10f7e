// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/vto-calculator/internal/vto"
)

// FindPlan finds a plan by scenario name in the results slice.
// Returns a pointer to the plan if found, nil otherwise.
func FindPlan(results []vto.Plan, name string) *vto.Plan {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}
