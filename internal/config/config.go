// Package config defines the data structures related to configuration and
// includes functions for loading and validating a treatment case.
package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/iwvelando/vto-calculator/pkg/constants"
	"github.com/iwvelando/vto-calculator/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for vto-calculator.
type Configuration struct {
	Common    Common        `yaml:"common"`
	Scenarios []Scenario    `yaml:"scenarios"`
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Common holds the measurements shared by every treatment scenario.
type Common struct {
	Patient          string           `yaml:"patient,omitempty"`
	InitialPositions InitialPositions `yaml:"initialPositions,omitempty"`
	Growth           GrowthConfig     `yaml:"growth"`
	Upper            ArchMeasurements `yaml:"upper"`
	Lower            ArchMeasurements `yaml:"lower"`
}

// InitialPositions are the starting molar positions and vertical factors.
// They are echoed for display and do not feed the ledger.
type InitialPositions struct {
	R6 float64 `yaml:"r6"`
	L6 float64 `yaml:"l6"`
	D  float64 `yaml:"d"`
	S  float64 `yaml:"s"`
}

// GrowthConfig selects a preset growth profile or custom annual rates.
// SpaceEquivalent, when present, replaces both with per-arch totals typed in
// directly, and the stage keys are not read.
type GrowthConfig struct {
	Sex             string                 `yaml:"sex,omitempty"`
	Stage           string                 `yaml:"stage,omitempty"`
	Percentile      string                 `yaml:"percentile,omitempty"`
	CustomRates     RatesConfig            `yaml:"customRates,omitempty"`
	SpaceEquivalent *SpaceEquivalentConfig `yaml:"spaceEquivalent,omitempty"`
}

// SpaceEquivalentConfig is a per-arch growth total in mm of arch perimeter.
type SpaceEquivalentConfig struct {
	Upper float64 `yaml:"upper"`
	Lower float64 `yaml:"lower"`
}

// RatesConfig is an annual growth rate triple in mm/year.
type RatesConfig struct {
	Sagittal   float64 `yaml:"sagittal"`
	Vertical   float64 `yaml:"vertical"`
	Transverse float64 `yaml:"transverse"`
}

// ArchMeasurements holds the midlines and per-side discrepancy components of one arch.
type ArchMeasurements struct {
	DentalMidline   *float64 `yaml:"dentalMidline,omitempty"`
	SkeletalMidline *float64 `yaml:"skeletalMidline,omitempty"`
	// DeriveMidlineComponent replaces the per-side midline components with
	// +dentalMidline on the right and -dentalMidline on the left.
	DeriveMidlineComponent bool             `yaml:"deriveMidlineComponent,omitempty"`
	Right                  SideMeasurements `yaml:"right"`
	Left                   SideMeasurements `yaml:"left"`
}

// SideMeasurements are the initial discrepancy components of one side (mm).
type SideMeasurements struct {
	AnteriorCrowding float64 `yaml:"anteriorCrowding"`
	CurveOfSpee      float64 `yaml:"curveOfSpee"`
	Midline          float64 `yaml:"midline"`
	IncisorPosition  float64 `yaml:"incisorPosition"`
}

// Scenario is one treatment alternative evaluated against the common measurements.
type Scenario struct {
	Name           string         `yaml:"name"`
	Active         bool           `yaml:"active"`
	IncludeGrowth  *bool          `yaml:"includeGrowth,omitempty"`
	DurationMonths *int           `yaml:"durationMonths,omitempty"`
	TreatTo        string         `yaml:"treatTo,omitempty"`
	TreatToRight   string         `yaml:"treatToRight,omitempty"`
	TreatToLeft    string         `yaml:"treatToLeft,omitempty"`
	Upper          ArchProcedures `yaml:"upper"`
	Lower          ArchProcedures `yaml:"lower"`
}

// ArchProcedures holds the planned space-gaining procedures per side.
type ArchProcedures struct {
	Right Procedures `yaml:"right"`
	Left  Procedures `yaml:"left"`
}

// Procedures are space-gaining procedure magnitudes (mm).
type Procedures struct {
	Stripping     float64 `yaml:"stripping"`
	Expansion     float64 `yaml:"expansion"`
	Distalization float64 `yaml:"distalization"`
	Extraction    float64 `yaml:"extraction"`
}

// GrowthIncluded reports whether growth feeds the ledger. Defaults to true.
func (s Scenario) GrowthIncluded() bool {
	if s.IncludeGrowth == nil {
		return true
	}
	return *s.IncludeGrowth
}

// Duration returns the treatment horizon, defaulting only when unset. An
// explicit zero is kept and yields zero growth.
func (s Scenario) Duration() int {
	if s.DurationMonths == nil {
		return constants.DefaultDurationMonths
	}
	return *s.DurationMonths
}

// LoadConfiguration takes a file path as input and loads the configuration
// there. The format follows the file extension and defaults to YAML.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)

	v.SetConfigType(configTypeFor(configPath))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

func configTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	}
	return "yml"
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	active := 0
	seen := make(map[string]struct{})
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			active++
		}
		if _, dup := seen[scenario.Name]; dup {
			warnings = append(warnings, fmt.Sprintf("Scenario name '%s' is used more than once", scenario.Name))
		}
		seen[scenario.Name] = struct{}{}

		if scenario.GrowthIncluded() {
			if warning := validation.ValidateDuration(scenario.Name, scenario.Duration()); warning != "" {
				warnings = append(warnings, warning)
			}
		}

		for _, side := range scenario.sideProcedures() {
			warnings = append(warnings, validation.ValidateProcedures(scenario.Name, side.label, validation.ProcedureValues{
				Stripping:     side.procedures.Stripping,
				Expansion:     side.procedures.Expansion,
				Distalization: side.procedures.Distalization,
				Extraction:    side.procedures.Extraction,
			})...)
		}
	}

	if len(c.Scenarios) > 0 && active == 0 {
		warnings = append(warnings, "No active scenarios - nothing will be evaluated")
	}

	if g := c.Common.Growth; g.SpaceEquivalent != nil && (g.Stage != "" || g.Sex != "") {
		warnings = append(warnings, "Growth space equivalents are entered directly - sex and stage are ignored")
	}

	for _, arch := range []struct {
		label string
		m     ArchMeasurements
	}{{"upper", c.Common.Upper}, {"lower", c.Common.Lower}} {
		if !arch.m.DeriveMidlineComponent {
			continue
		}
		if arch.m.DentalMidline == nil {
			warnings = append(warnings, fmt.Sprintf("Arch '%s' derives its midline component but has no dental midline - using 0", arch.label))
		}
		if arch.m.Right.Midline != 0 || arch.m.Left.Midline != 0 {
			warnings = append(warnings, fmt.Sprintf("Arch '%s' midline components are ignored because they are derived from the dental midline", arch.label))
		}
	}

	return warnings
}

type labelledProcedures struct {
	label      string
	procedures Procedures
}

func (s Scenario) sideProcedures() []labelledProcedures {
	return []labelledProcedures{
		{"upper-right", s.Upper.Right},
		{"upper-left", s.Upper.Left},
		{"lower-right", s.Lower.Right},
		{"lower-left", s.Lower.Left},
	}
}
