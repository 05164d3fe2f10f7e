package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/vto-calculator/pkg/constants"
)

func writeServerConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig(%q) error = %v", path, err)
		}
		if cfg.Address != constants.DefaultServerAddress {
			t.Errorf("address = %q, expected %q", cfg.Address, constants.DefaultServerAddress)
		}
		if cfg.UploadSizeBytes() != constants.DefaultMaxUploadSizeBytes {
			t.Errorf("upload limit = %d, expected %d", cfg.UploadSizeBytes(), constants.DefaultMaxUploadSizeBytes)
		}
		if cfg.ExportFormat != constants.ExportFormatYAML {
			t.Errorf("export format = %q, expected yaml", cfg.ExportFormat)
		}
		if cfg.CaseFile != "" {
			t.Errorf("expected no default case file, got %q", cfg.CaseFile)
		}
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeServerConfig(t, `address: 127.0.0.1:9000
maxUploadSize: 2M
caseFile: cases/patient.yaml
exportFormat: TOML
logging:
  level: debug
  format: console
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Errorf("address = %q", cfg.Address)
	}
	if cfg.UploadSizeBytes() != 2*1024*1024 {
		t.Errorf("upload limit = %d, expected 2M", cfg.UploadSizeBytes())
	}
	expectedCase := filepath.Join(filepath.Dir(path), "cases", "patient.yaml")
	if cfg.CaseFile != expectedCase {
		t.Errorf("case file = %q, expected %q", cfg.CaseFile, expectedCase)
	}
	if cfg.ExportFormat != constants.ExportFormatTOML {
		t.Errorf("export format = %q, expected toml", cfg.ExportFormat)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadConfigAbsoluteCaseFile(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "case.yaml")
	cfg, err := LoadConfig(writeServerConfig(t, "caseFile: "+abs+"\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.CaseFile != abs {
		t.Errorf("case file = %q, expected %q", cfg.CaseFile, abs)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := map[string]string{
		"invalid size":          "maxUploadSize: invalid\n",
		"unknown export format": "exportFormat: xml\n",
		"malformed yaml":        "address: [\n",
	}

	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeServerConfig(t, contents)); err == nil {
				t.Fatal("expected error but got nil")
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxUploadSizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"2G":        2 * 1024 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("ParseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Errorf("ParseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	for _, input := range []string{"1TB", "abc", "99999999999G"} {
		if _, err := ParseSize(input); err == nil {
			t.Errorf("ParseSize(%q) expected error", input)
		}
	}
}
