// Package server exposes the treatment planner over a JSON HTTP API.
package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/vto-calculator/internal/config"
	"github.com/iwvelando/vto-calculator/pkg/constants"
	"github.com/iwvelando/vto-calculator/pkg/validation"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters of the plan API.
type Config struct {
	Address       string `yaml:"address"`
	MaxUploadSize string `yaml:"maxUploadSize"`
	// CaseFile is a YAML case evaluated by GET /api/plan. Relative paths resolve
	// against the directory of the server config file.
	CaseFile string `yaml:"caseFile,omitempty"`
	// ExportFormat is used by the export endpoint when a request names none.
	ExportFormat string               `yaml:"exportFormat,omitempty"`
	Logging      config.LoggingConfig `yaml:"logging"`

	uploadLimit int64
}

// DefaultConfig returns the settings used when no server config file exists.
func DefaultConfig() *Config {
	return &Config{
		Address:       constants.DefaultServerAddress,
		MaxUploadSize: strconv.FormatInt(constants.DefaultMaxUploadSizeBytes, 10),
		ExportFormat:  constants.ExportFormatYAML,
		uploadLimit:   constants.DefaultMaxUploadSizeBytes,
	}
}

// LoadConfig reads the server config at path. A missing file or an empty
// path yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.resolve(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("invalid server config %s: %w", path, err)
	}
	return cfg, nil
}

// UploadSizeBytes returns the upload limit in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadLimit
}

// resolve fills defaults, checks the export format and anchors CaseFile to baseDir.
func (c *Config) resolve(baseDir string) error {
	if strings.TrimSpace(c.Address) == "" {
		c.Address = constants.DefaultServerAddress
	}

	limit, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadLimit = limit

	c.ExportFormat = strings.ToLower(strings.TrimSpace(c.ExportFormat))
	if c.ExportFormat == "" {
		c.ExportFormat = constants.ExportFormatYAML
	}
	if err := validation.ValidateExportFormat(c.ExportFormat); err != nil {
		return err
	}

	if c.CaseFile != "" && !filepath.IsAbs(c.CaseFile) {
		c.CaseFile = filepath.Join(baseDir, c.CaseFile)
	}
	return nil
}

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize converts a byte count with an optional binary unit suffix
// ("256K", "2MB") into bytes. Blank input yields the default upload limit.
func ParseSize(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	digits := strings.TrimRightFunc(trimmed, func(r rune) bool { return !unicode.IsDigit(r) })
	unit := strings.TrimSpace(trimmed[len(digits):])
	if digits == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	multiplier, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", unit)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(digits), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	if n > (1<<63-1)/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
