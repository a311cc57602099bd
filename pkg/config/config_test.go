// Package config tests for configuration loading and structured error handling.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	serrors "github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skyline.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// -----------------------------------------------------------------------------
// Load Tests with Structured Errors
// -----------------------------------------------------------------------------

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/to/skyline.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}

	se, ok := err.(*serrors.SkylineError)
	if !ok {
		t.Fatalf("expected *serrors.SkylineError, got %T", err)
	}
	if se.Code != serrors.ErrConfigReadFailed {
		t.Errorf("expected code %q, got %q", serrors.ErrConfigReadFailed, se.Code)
	}
	if se.Category != serrors.CategoryConfig {
		t.Errorf("expected category %v, got %v", serrors.CategoryConfig, se.Category)
	}
}

func TestLoad_YAMLParseError(t *testing.T) {
	path := writeConfig(t, `input:
  csv: [buildings.csv
output:
  dir: out
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}

	se, ok := err.(*serrors.SkylineError)
	if !ok {
		t.Fatalf("expected *serrors.SkylineError, got %T", err)
	}
	if se.Code != serrors.ErrConfigParseFailed {
		t.Errorf("expected code %q, got %q", serrors.ErrConfigParseFailed, se.Code)
	}
	if se.Context["line"] == "" {
		t.Error("expected line context for YAML error")
	}
	if len(se.Suggestions) == 0 {
		t.Error("expected suggestions to be attached")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		mention string
	}{
		{
			name:    "negative threshold",
			yaml:    "proximity:\n  threshold_km: -5\n",
			mention: "proximity.threshold_km",
		},
		{
			name:    "zero reference height",
			yaml:    "report:\n  reference_height: 0\n",
			mention: "report.reference_height",
		},
		{
			name:    "unknown color",
			yaml:    "report:\n  country_colors:\n    France: chartreuse-ish\n",
			mention: "report.country_colors[France]",
		},
		{
			name:    "bad log level",
			yaml:    "logging:\n  level: loud\n",
			mention: "logging.level",
		},
		{
			name:    "bad encoding",
			yaml:    "input:\n  encoding: EBCDIC\n",
			mention: "input.encoding",
		},
		{
			name:    "empty output name",
			yaml:    "output:\n  pdf: \"\"\n",
			mention: "output.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !serrors.IsCode(err, serrors.ErrConfigInvalid) {
				t.Fatalf("expected %s, got %v", serrors.ErrConfigInvalid, err)
			}
			if !strings.Contains(err.Error(), tt.mention) {
				t.Errorf("error should mention %s: %v", tt.mention, err)
			}
		})
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `input:
  csv: data/buildings.csv
output:
  dir: out
report:
  country_colors:
    France: "#ff00ff"
proximity:
  threshold_km: 25
logging:
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Input.CSV != "data/buildings.csv" {
		t.Errorf("expected csv override, got %q", cfg.Input.CSV)
	}
	if cfg.Input.Encoding != "ISO-8859-1" {
		t.Errorf("expected default encoding to survive, got %q", cfg.Input.Encoding)
	}
	if cfg.Proximity.ThresholdKm != 25 {
		t.Errorf("expected threshold 25, got %v", cfg.Proximity.ThresholdKm)
	}
	if cfg.Proximity.KmPerDegree != 111 {
		t.Errorf("expected default km_per_degree, got %v", cfg.Proximity.KmPerDegree)
	}
	// Country colors merge into the defaults.
	if cfg.Report.CountryColors["France"] != "#ff00ff" || cfg.Report.CountryColors["China"] != "red" {
		t.Errorf("unexpected country colors: %v", cfg.Report.CountryColors)
	}
	if got := cfg.Output.Path(cfg.Output.PDF); got != filepath.Join("out", "Building_Report.pdf") {
		t.Errorf("unexpected output path %q", got)
	}
}

func TestLoadOrDefault_EmptyPath(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Report.ReferenceHeight != 300 {
		t.Error("expected default config")
	}
}

func TestLoadOrDefault_FileNotFound(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.Workbook != "Buildings_Sorted.xlsx" {
		t.Error("expected default config")
	}
}

// -----------------------------------------------------------------------------
// Environment Tests
// -----------------------------------------------------------------------------

func TestApplyEnv(t *testing.T) {
	t.Setenv("SKYLINE_INPUT_CSV", "/data/tall.csv")
	t.Setenv("SKYLINE_OUTPUT_DIR", "/tmp/reports")
	t.Setenv("SKYLINE_LOG_LEVEL", "debug")
	t.Setenv("SKYLINE_PROXIMITY_THRESHOLD_KM", "12.5")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if cfg.Input.CSV != "/data/tall.csv" {
		t.Errorf("expected csv from env, got %q", cfg.Input.CSV)
	}
	if cfg.Output.Dir != "/tmp/reports" {
		t.Errorf("expected dir from env, got %q", cfg.Output.Dir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level from env, got %q", cfg.Logging.Level)
	}
	if cfg.Proximity.ThresholdKm != 12.5 {
		t.Errorf("expected threshold from env, got %v", cfg.Proximity.ThresholdKm)
	}
}

func TestApplyEnv_InvalidNumber(t *testing.T) {
	t.Setenv("SKYLINE_PROXIMITY_THRESHOLD_KM", "far")

	err := Default().ApplyEnv()
	if !serrors.IsCode(err, serrors.ErrConfigInvalid) {
		t.Fatalf("expected %s, got %v", serrors.ErrConfigInvalid, err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "SKYLINE_TEST_DOTENV_A=from-file\nSKYLINE_TEST_DOTENV_B=from-file\n"
	if err := os.WriteFile(envPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv("SKYLINE_TEST_DOTENV_B", "from-env")
	// Registers cleanup for the variable the file sets.
	t.Setenv("SKYLINE_TEST_DOTENV_A", "")
	os.Unsetenv("SKYLINE_TEST_DOTENV_A")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), envPath); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}

	if got := os.Getenv("SKYLINE_TEST_DOTENV_A"); got != "from-file" {
		t.Errorf("expected value from file, got %q", got)
	}
	if got := os.Getenv("SKYLINE_TEST_DOTENV_B"); got != "from-env" {
		t.Errorf("expected existing env to win, got %q", got)
	}
}

func TestLoadDotEnv_NoFiles(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("expected missing files to be skipped, got %v", err)
	}
}

// -----------------------------------------------------------------------------
// Error Helper Tests
// -----------------------------------------------------------------------------

func TestExtractYAMLErrorLocation(t *testing.T) {
	tests := []struct {
		name        string
		errStr      string
		expectedLn  int
		expectedCol int
	}{
		{
			name:       "yaml v3 line only",
			errStr:     "yaml: line 5: mapping values are not allowed here",
			expectedLn: 5,
		},
		{
			name:        "yaml with line and column",
			errStr:      "yaml: line 10:5: found character that cannot start any token",
			expectedLn:  10,
			expectedCol: 5,
		},
		{
			name:       "unmarshal error with line",
			errStr:     "yaml: unmarshal errors:\n  line 3: cannot unmarshal !!str into float64",
			expectedLn: 3,
		},
		{
			name:       "no line number",
			errStr:     "yaml: some generic error",
			expectedLn: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, col := extractYAMLErrorLocation(tt.errStr)
			if line != tt.expectedLn {
				t.Errorf("expected line %d, got %d", tt.expectedLn, line)
			}
			if col != tt.expectedCol {
				t.Errorf("expected col %d, got %d", tt.expectedCol, col)
			}
		})
	}
}

func TestIsValidColor(t *testing.T) {
	tests := map[string]bool{
		"red":     true,
		"Gray":    true,
		"#00ff00": true,
		"00FF00":  true,
		"#0f0":    false,
		"mauve":   false,
		"":        false,
	}
	for in, want := range tests {
		if got := isValidColor(in); got != want {
			t.Errorf("isValidColor(%q) = %v, want %v", in, got, want)
		}
	}
}

// -----------------------------------------------------------------------------
// Default / Save Tests
// -----------------------------------------------------------------------------

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Proximity.ThresholdKm != 40 || cfg.Proximity.KmPerDegree != 111 || cfg.Proximity.QueryCount != 50 {
		t.Errorf("unexpected proximity defaults: %+v", cfg.Proximity)
	}
	if cfg.Report.YearViewSize != 200 || cfg.Report.PDFRowLimit != 500 || cfg.Report.MapLabelCount != 10 {
		t.Errorf("unexpected report defaults: %+v", cfg.Report)
	}
	if cfg.Report.CountryColors["United Arab Emirates"] != "green" {
		t.Error("expected UAE to default to green")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "skyline.yaml")

	cfg := Default()
	cfg.Input.CSV = "elsewhere.csv"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Input.CSV != "elsewhere.csv" {
		t.Errorf("expected saved value, got %q", loaded.Input.CSV)
	}
}

func TestInitConfig_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skyline.yaml")

	created, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig() error = %v", err)
	}
	if !created {
		t.Error("expected file to be created")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %v", err)
	}
}

func TestInitConfig_SkipsExisting(t *testing.T) {
	path := writeConfig(t, "# custom\n")

	created, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig() error = %v", err)
	}
	if created {
		t.Error("expected existing file to be kept")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "# custom\n" {
		t.Error("existing file was overwritten")
	}
}
