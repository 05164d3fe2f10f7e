package movement

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/vto-calculator/pkg/vtoerr"
)

const tolerance = 1e-9

var allGoals = []Goal{GoalClassI, GoalClassII, GoalClassIII}

func TestAllocateCrowdingUniform(t *testing.T) {
	for _, remaining := range []float64{-0.01, -1.5, -4.25} {
		for _, goal := range allGoals {
			got, err := Allocate(remaining, goal)
			if err != nil {
				t.Fatalf("Allocate(%v, %q) error = %v", remaining, goal, err)
			}
			want := math.Abs(remaining)
			if got.Molar != want || got.Canine != want || got.Incisor != want {
				t.Errorf("Allocate(%v, %q) = %+v, expected every segment %v", remaining, goal, got, want)
			}
		}
	}
}

func TestAllocateSpacingWeights(t *testing.T) {
	tests := []struct {
		goal      Goal
		anterior  float64
		posterior float64
	}{
		{GoalClassI, 0.55, 0.45},
		{GoalClassII, 0.65, 0.35},
		{GoalClassIII, 0.45, 0.55},
	}

	for _, tt := range tests {
		t.Run(string(tt.goal), func(t *testing.T) {
			remaining := 4.0
			got, err := Allocate(remaining, tt.goal)
			if err != nil {
				t.Fatalf("Allocate() error = %v", err)
			}
			if math.Abs(got.Molar-tt.posterior*remaining) > tolerance {
				t.Errorf("molar = %v, expected %v", got.Molar, tt.posterior*remaining)
			}
			if math.Abs(got.Incisor-0.55*tt.anterior*remaining) > tolerance {
				t.Errorf("incisor = %v, expected %v", got.Incisor, 0.55*tt.anterior*remaining)
			}
			if math.Abs(got.Canine-0.45*tt.anterior*remaining) > tolerance {
				t.Errorf("canine = %v, expected %v", got.Canine, 0.45*tt.anterior*remaining)
			}
		})
	}
}

func TestAllocateClassIIWeightLaw(t *testing.T) {
	for _, remaining := range []float64{0.2, 1.0, 3.7, 7.5} {
		got, err := Allocate(remaining, GoalClassII)
		if err != nil {
			t.Fatalf("Allocate() error = %v", err)
		}
		if math.Abs(got.Molar-0.35*remaining) > tolerance {
			t.Errorf("molar = %v, expected %v", got.Molar, 0.35*remaining)
		}
		if math.Abs(got.Incisor-0.55*0.65*remaining) > tolerance {
			t.Errorf("incisor = %v, expected %v", got.Incisor, 0.55*0.65*remaining)
		}
	}
}

func TestAllocateZero(t *testing.T) {
	for _, goal := range allGoals {
		got, err := Allocate(0, goal)
		if err != nil {
			t.Fatalf("Allocate() error = %v", err)
		}
		if got != (Magnitudes{}) {
			t.Errorf("Allocate(0, %q) = %+v, expected zero", goal, got)
		}
	}
}

func TestAllocateUnknownGoal(t *testing.T) {
	for _, remaining := range []float64{-1, 0, 1} {
		if _, err := Allocate(remaining, Goal("Class IV")); !errors.Is(err, vtoerr.ErrInvalidArgument) {
			t.Errorf("Allocate(%v, Class IV) expected ErrInvalidArgument, got %v", remaining, err)
		}
	}
}

func TestParseGoal(t *testing.T) {
	tests := []struct {
		input    string
		expected Goal
		wantErr  bool
	}{
		{"Class I", GoalClassI, false},
		{"class  ii", GoalClassII, false},
		{"III", GoalClassIII, false},
		{"Class IV", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseGoal(tt.input)
			if tt.wantErr {
				if !errors.Is(err, vtoerr.ErrInvalidArgument) {
					t.Errorf("ParseGoal(%q) expected ErrInvalidArgument, got %v", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGoal(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseGoal(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRegimeOf(t *testing.T) {
	if RegimeOf(-0.5) != RegimeCrowding {
		t.Errorf("expected crowding regime")
	}
	if RegimeOf(0.5) != RegimeSpacing {
		t.Errorf("expected spacing regime")
	}
	if RegimeOf(0) != RegimeNone {
		t.Errorf("expected no regime")
	}
	if RegimeSpacing.String() != "spacing" {
		t.Errorf("unexpected regime string %q", RegimeSpacing.String())
	}
}
