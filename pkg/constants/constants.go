// Package constants provides shared constants for the vto-calculator application.
package constants

// Clinical constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for millimetre rounding (2 decimal places)
	DecimalPrecision = 100

	// BalancedTolerance is the dead-band (mm) inside which a remaining
	// discrepancy is reported as balanced.
	BalancedTolerance = 0.05

	// MinRecommendedDurationMonths is the shortest treatment horizon considered clinically sane.
	MinRecommendedDurationMonths = 6

	// MaxRecommendedDurationMonths is the longest treatment horizon considered clinically sane.
	MaxRecommendedDurationMonths = 60

	// DefaultDurationMonths is used when a scenario does not set a duration.
	DefaultDurationMonths = 24
)

// Growth split constants
const (
	// UpperSagittalShare is the fraction of sagittal growth attributed to the maxilla.
	UpperSagittalShare = 0.3

	// LowerSagittalShare is the fraction of sagittal growth attributed to the mandible.
	LowerSagittalShare = 0.7

	// TransverseBilateralMultiplier counts transverse growth once per side.
	TransverseBilateralMultiplier = 2.0
)

// Allocation constants
const (
	// IncisorAnteriorShare is the incisor share of the anterior allocation.
	IncisorAnteriorShare = 0.55

	// CanineAnteriorShare is the canine share of the anterior allocation.
	CanineAnteriorShare = 0.45
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Export format constants
const (
	// ExportFormatYAML serializes editor payloads as YAML
	ExportFormatYAML = "yaml"

	// ExportFormatTOML serializes editor payloads as TOML
	ExportFormatTOML = "toml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "case.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML cases (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Validation constants
const (
	// MillimetreTolerance is the tolerance for millimetre comparisons
	MillimetreTolerance = 0.01
)
