// Package output provides utilities for formatting and displaying treatment plans.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/vto-calculator/internal/vto"
	"github.com/iwvelando/vto-calculator/pkg/constants"
	"github.com/iwvelando/vto-calculator/pkg/format"
	"github.com/iwvelando/vto-calculator/pkg/ledger"
	"github.com/iwvelando/vto-calculator/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	styleHeader   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleBalanced = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	styleCrowding = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
	styleSpacing  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

func styleStatus(status ledger.Status) string {
	switch status {
	case ledger.StatusBalanced:
		return styleBalanced.Render(string(status))
	case ledger.StatusCrowding:
		return styleCrowding.Render(string(status))
	case ledger.StatusSpacing:
		return styleSpacing.Render(string(status))
	}
	return string(status)
}

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, results []vto.Plan) {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		_, _ = fmt.Fprintln(w, styleHeader.Render(fmt.Sprintf("--- Results for scenario %s ---", result.Name)))
		if result.Patient != "" {
			_, _ = p.Fprintf(w, "Patient: %s\n", result.Patient)
		}
		_, _ = p.Fprintf(w, "Treat to: right %s, left %s\n", result.GoalRight, result.GoalLeft)
		pos := result.InitialPositions
		_, _ = p.Fprintf(w, "Initial positions: R6 %.1f | L6 %.1f | D %.1f | S %.1f\n", pos.R6, pos.L6, pos.D, pos.S)

		switch {
		case !result.IncludeGrowth:
			_, _ = fmt.Fprintln(w, "Growth: excluded")
		case result.GrowthEntered:
			_, _ = p.Fprintf(w, "Growth space equivalent (entered): upper %s | lower %s\n",
				format.Millimetres(result.Growth.UpperSpaceEquivMM),
				format.Millimetres(result.Growth.LowerSpaceEquivMM))
		default:
			_, _ = p.Fprintf(w, "Growth over %d months (%.1f years): sagittal %s | vertical %s | transverse %s\n",
				result.DurationMonths,
				float64(result.DurationMonths)/constants.MonthsPerYear,
				format.Millimetres(result.Growth.SagittalMM),
				format.Millimetres(result.Growth.VerticalMM),
				format.Millimetres(result.Growth.TransverseMM))
			_, _ = p.Fprintf(w, "Growth space equivalent: upper %s | lower %s\n",
				format.Millimetres(result.Growth.UpperSpaceEquivMM),
				format.Millimetres(result.Growth.LowerSpaceEquivMM))
		}
		if delta := result.Midlines.LowerDelta; delta != nil {
			_, _ = p.Fprintf(w, "Lower midline delta (dental - skeletal): %s\n", format.Millimetres(*delta))
		}

		_, _ = fmt.Fprintf(w, "\nArch side   | Initial | Gained | Growth | Total  | Remaining | Status\n")
		_, _ = fmt.Fprintf(w, "_________   | _______ | ______ | ______ | _____  | _________ | ______\n")
		for _, entry := range result.Ledger {
			g := entry.Gained
			gained := g.Stripping + g.Expansion + g.Distalization + g.Extraction
			_, _ = p.Fprintf(w, "%-11s | %7s | %6s | %6s | %6s | %9s | %s\n",
				entry.ArchSide,
				format.Signed(entry.Initial),
				format.Signed(gained),
				format.Signed(entry.Growth),
				format.Signed(entry.TotalGained),
				format.Signed(entry.Remaining),
				styleStatus(entry.Status))
		}

		_, _ = fmt.Fprintf(w, "\nMovement (mm, + = toward patient's left)\n")
		_, _ = fmt.Fprintf(w, "Arch  | R6     | R3     | Inc    | L3     | L6\n")
		_, _ = fmt.Fprintf(w, "____  | ______ | ______ | ______ | ______ | ______\n")
		for _, arch := range []ledger.Arch{ledger.ArchUpper, ledger.ArchLower} {
			values := make([]string, 0, 5)
			for _, segment := range result.Movement(arch).Segments() {
				values = append(values, fmt.Sprintf("%6s", format.Signed(segment.Value)))
			}
			_, _ = fmt.Fprintf(w, "%-5s | %s\n", arch, strings.Join(values, " | "))
		}
		for _, arch := range []ledger.Arch{ledger.ArchUpper, ledger.ArchLower} {
			if m := result.Movement(arch); m.MidlineCorrected {
				_, _ = p.Fprintf(w, "%s incisors corrected to the midline: %s %s\n",
					arch, format.Millimetres(m.Incisor), format.Direction(m.Incisor))
			}
		}

		if len(results) > 1 && i < len(results)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

// CsvFormat writes comma-separated values, one row per scenario and arch side.
func CsvFormat(w io.Writer, results []vto.Plan) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, result := range results {
		for _, entry := range result.Ledger {
			movementPlan := result.Movement(entry.ArchSide.Arch)
			molar, canine := movementPlan.RightMolar, movementPlan.RightCanine
			if entry.ArchSide.Side == ledger.SideLeft {
				molar, canine = movementPlan.LeftMolar, movementPlan.LeftCanine
			}

			c := entry.Components
			g := entry.Gained
			row := []string{
				result.Name,
				string(entry.ArchSide.Arch),
				string(entry.ArchSide.Side),
				csvFloat(c.AnteriorCrowding),
				csvFloat(c.CurveOfSpee),
				csvFloat(c.Midline),
				csvFloat(c.IncisorPosition),
				csvFloat(entry.Initial),
				csvFloat(g.Stripping),
				csvFloat(g.Expansion),
				csvFloat(g.Distalization),
				csvFloat(g.Extraction),
				csvFloat(entry.Growth),
				csvFloat(entry.TotalGained),
				csvFloat(entry.Remaining),
				string(entry.Status),
				csvFloat(molar),
				csvFloat(canine),
				csvFloat(movementPlan.Incisor),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// CsvString returns the CSV report as a string.
func CsvString(results []vto.Plan) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, results); err != nil {
		return ""
	}
	return buf.String()
}

var csvHeader = []string{
	"scenario", "arch", "side",
	"anterior_crowding", "curve_of_spee", "midline", "incisor_position", "initial",
	"stripping", "expansion", "distalization", "extraction", "growth", "total_gained",
	"remaining", "status",
	"molar_mm", "canine_mm", "incisor_mm",
}

func csvFloat(value float64) string {
	rounded := mathutil.Round(value)
	if rounded == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", rounded)
}
