package movement

import (
	"testing"

	"github.com/iwvelando/vto-calculator/pkg/ledger"
)

func TestDirection(t *testing.T) {
	tests := []struct {
		name     string
		regime   Regime
		side     ledger.Side
		tooth    Tooth
		expected float64
	}{
		{"crowding right molar outward", RegimeCrowding, ledger.SideRight, ToothMolar, -1},
		{"crowding right canine outward", RegimeCrowding, ledger.SideRight, ToothCanine, -1},
		{"crowding left molar outward", RegimeCrowding, ledger.SideLeft, ToothMolar, 1},
		{"crowding left incisor outward", RegimeCrowding, ledger.SideLeft, ToothIncisor, 1},
		{"spacing right molar mesial", RegimeSpacing, ledger.SideRight, ToothMolar, 1},
		{"spacing left molar mesial", RegimeSpacing, ledger.SideLeft, ToothMolar, -1},
		{"spacing right canine distal", RegimeSpacing, ledger.SideRight, ToothCanine, -1},
		{"spacing left canine distal", RegimeSpacing, ledger.SideLeft, ToothCanine, 1},
		{"no regime", RegimeNone, ledger.SideLeft, ToothMolar, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Direction(tt.regime, tt.side, tt.tooth); got != tt.expected {
				t.Errorf("Direction() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestIncisorCorrection(t *testing.T) {
	for _, offset := range []float64{-2.5, -0.1, 0, 0.3, 1.75} {
		if got := IncisorCorrection(offset); got != -offset {
			t.Errorf("IncisorCorrection(%v) = %v, expected %v", offset, got, -offset)
		}
	}
}
