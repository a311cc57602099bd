// Package config handles skyline configuration loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	serrors "github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/errors"
)

// Config is the root configuration structure.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Report    ReportConfig    `yaml:"report"`
	Proximity ProximityConfig `yaml:"proximity"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// InputConfig locates the source files.
type InputConfig struct {
	CSV        string `yaml:"csv"`
	Encoding   string `yaml:"encoding"`
	Boundaries string `yaml:"boundaries"`
}

// OutputConfig names the generated files. Names are relative to Dir.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Workbook string `yaml:"workbook"`
	BarChart string `yaml:"bar_chart"`
	MapImage string `yaml:"map_image"`
	WebMap   string `yaml:"web_map"`
	PDF      string `yaml:"pdf"`
	Manifest string `yaml:"manifest"`
}

// Path joins name onto the output directory.
func (o OutputConfig) Path(name string) string {
	return filepath.Join(o.Dir, name)
}

// ReportConfig holds the constants the exporters use.
type ReportConfig struct {
	// ReferenceHeight normalizes heights into the "% Eiffel Tower" column
	// and positions the reference line on the bar chart.
	ReferenceHeight float64 `yaml:"reference_height"`
	ReferenceLabel  string  `yaml:"reference_label"`

	PreviewRows   int `yaml:"preview_rows"`
	YearViewSize  int `yaml:"year_view_size"`
	PDFRowLimit   int `yaml:"pdf_row_limit"`
	MapLabelCount int `yaml:"map_label_count"`

	CountryColors map[string]string `yaml:"country_colors"`
	FallbackColor string            `yaml:"fallback_color"`
}

// ProximityConfig holds the nearby-count parameters.
type ProximityConfig struct {
	ThresholdKm float64 `yaml:"threshold_km"`
	KmPerDegree float64 `yaml:"km_per_degree"`
	QueryCount  int     `yaml:"query_count"`
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the default configuration. It reproduces the fixed paths
// and constants of the original report script.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			CSV:        "tallest_buildings_in_the_world.csv",
			Encoding:   "ISO-8859-1",
			Boundaries: "ne_50m_admin_0_countries.geojson",
		},
		Output: OutputConfig{
			Dir:      ".",
			Workbook: "Buildings_Sorted.xlsx",
			BarChart: "building_heights.png",
			MapImage: "building_map.png",
			WebMap:   "3d_buildings_map.html",
			PDF:      "Building_Report.pdf",
			Manifest: "run_manifest.json",
		},
		Report: ReportConfig{
			ReferenceHeight: 300,
			ReferenceLabel:  "Eiffel Tower",
			PreviewRows:     10,
			YearViewSize:    200,
			PDFRowLimit:     500,
			MapLabelCount:   10,
			CountryColors: map[string]string{
				"China":                "red",
				"United Arab Emirates": "green",
				"United States":        "blue",
			},
			FallbackColor: "gray",
		},
		Proximity: ProximityConfig{
			ThresholdKm: 40,
			KmPerDegree: 111,
			QueryCount:  50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a file on top of the defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, serrors.ConfigWrap(err, serrors.ErrConfigReadFailed, "failed to read config").
			WithContext(serrors.ContextPath, path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		se := serrors.ConfigWrap(err, serrors.ErrConfigParseFailed, "failed to parse config").
			WithContext(serrors.ContextPath, path)
		line, col := extractYAMLErrorLocation(err.Error())
		if line > 0 {
			se.WithContext("line", strconv.Itoa(line))
		}
		if col > 0 {
			se.WithContext("column", strconv.Itoa(col))
		}
		return nil, se
	}

	if err := cfg.Validate(); err != nil {
		if se, ok := serrors.AsSkylineError(err); ok {
			se.WithContext(serrors.ContextPath, path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads config from path, or returns default if not found.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return serrors.ConfigWrap(err, serrors.ErrConfigWriteFailed, "failed to create config directory").
			WithContext(serrors.ContextPath, dir)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return serrors.InternalWrap(err, serrors.ErrInternalStage, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return serrors.ConfigWrap(err, serrors.ErrConfigWriteFailed, "failed to write config file").
			WithContext(serrors.ContextPath, path)
	}
	return nil
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if _, err := os.Stat("skyline.yaml"); err == nil {
		return "skyline.yaml"
	}
	if _, err := os.Stat("config/skyline.yaml"); err == nil {
		return "config/skyline.yaml"
	}
	return "skyline.yaml"
}

// InitConfig creates a default config file if it doesn't exist.
// It reports whether a file was written.
func InitConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := Default().Save(path); err != nil {
		return false, err
	}
	return true, nil
}

// -----------------------------------------------------------------------------
// Environment
// -----------------------------------------------------------------------------

// LoadDotEnv loads variables from the given .env files without overriding
// variables already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return serrors.ConfigWrap(err, serrors.ErrConfigParseFailed, "failed to load .env file").
			WithContext(serrors.ContextPath, strings.Join(existing, ","))
	}
	return nil
}

type envString struct {
	name   string
	target func(*Config) *string
}

var envStrings = []envString{
	{"SKYLINE_INPUT_CSV", func(c *Config) *string { return &c.Input.CSV }},
	{"SKYLINE_INPUT_ENCODING", func(c *Config) *string { return &c.Input.Encoding }},
	{"SKYLINE_BOUNDARIES", func(c *Config) *string { return &c.Input.Boundaries }},
	{"SKYLINE_OUTPUT_DIR", func(c *Config) *string { return &c.Output.Dir }},
	{"SKYLINE_LOG_LEVEL", func(c *Config) *string { return &c.Logging.Level }},
	{"SKYLINE_LOG_FORMAT", func(c *Config) *string { return &c.Logging.Format }},
}

// ApplyEnv overrides configuration values from SKYLINE_* environment
// variables and re-validates the result.
func (c *Config) ApplyEnv() error {
	for _, e := range envStrings {
		if v, ok := os.LookupEnv(e.name); ok && v != "" {
			*e.target(c) = v
		}
	}

	if v, ok := os.LookupEnv("SKYLINE_PROXIMITY_THRESHOLD_KM"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return serrors.ConfigWrap(err, serrors.ErrConfigInvalid, "invalid SKYLINE_PROXIMITY_THRESHOLD_KM").
				WithContext("value", v)
		}
		c.Proximity.ThresholdKm = f
	}

	return c.Validate()
}

// -----------------------------------------------------------------------------
// Validation
// -----------------------------------------------------------------------------

var (
	validEncodings  = []string{"iso-8859-1", "iso8859-1", "latin1", "latin-1", "utf-8", "utf8"}
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats = []string{"text", "json"}
	validColorNames = []string{"red", "green", "blue", "gray", "grey", "black", "orange", "purple", "yellow", "brown", "pink", "cyan"}

	hexColorPattern = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)
)

// Validate checks that the configuration is usable.
// It returns one error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Input.CSV == "" {
		errs = append(errs, "input.csv is required")
	}
	if c.Input.Boundaries == "" {
		errs = append(errs, "input.boundaries is required")
	}
	if !isValidOption(strings.ToLower(c.Input.Encoding), validEncodings) {
		errs = append(errs, fmt.Sprintf("input.encoding %q must be ISO-8859-1 or UTF-8", c.Input.Encoding))
	}

	for field, name := range map[string]string{
		"output.workbook":  c.Output.Workbook,
		"output.bar_chart": c.Output.BarChart,
		"output.map_image": c.Output.MapImage,
		"output.web_map":   c.Output.WebMap,
		"output.pdf":       c.Output.PDF,
		"output.manifest":  c.Output.Manifest,
	} {
		if name == "" {
			errs = append(errs, field+" is required")
		}
	}

	if c.Report.ReferenceHeight <= 0 {
		errs = append(errs, fmt.Sprintf("report.reference_height (%g) must be positive", c.Report.ReferenceHeight))
	}
	if c.Report.PreviewRows < 0 {
		errs = append(errs, "report.preview_rows must be non-negative")
	}
	if c.Report.YearViewSize < 0 {
		errs = append(errs, "report.year_view_size must be non-negative")
	}
	if c.Report.PDFRowLimit < 0 {
		errs = append(errs, "report.pdf_row_limit must be non-negative")
	}
	if c.Report.MapLabelCount < 0 {
		errs = append(errs, "report.map_label_count must be non-negative")
	}
	for country, color := range c.Report.CountryColors {
		if !isValidColor(color) {
			errs = append(errs, fmt.Sprintf("report.country_colors[%s] %q is not a known color", country, color))
		}
	}
	if !isValidColor(c.Report.FallbackColor) {
		errs = append(errs, fmt.Sprintf("report.fallback_color %q is not a known color", c.Report.FallbackColor))
	}

	if c.Proximity.ThresholdKm <= 0 {
		errs = append(errs, fmt.Sprintf("proximity.threshold_km (%g) must be positive", c.Proximity.ThresholdKm))
	}
	if c.Proximity.KmPerDegree <= 0 {
		errs = append(errs, fmt.Sprintf("proximity.km_per_degree (%g) must be positive", c.Proximity.KmPerDegree))
	}
	if c.Proximity.QueryCount < 0 {
		errs = append(errs, "proximity.query_count must be non-negative")
	}

	if !isValidOption(strings.ToLower(c.Logging.Level), validLogLevels) {
		errs = append(errs, fmt.Sprintf("logging.level %q must be one of %s", c.Logging.Level, strings.Join(validLogLevels, ", ")))
	}
	if !isValidOption(strings.ToLower(c.Logging.Format), validLogFormats) {
		errs = append(errs, fmt.Sprintf("logging.format %q must be text or json", c.Logging.Format))
	}

	if len(errs) == 0 {
		return nil
	}
	// Map iteration above is unordered.
	sort.Strings(errs)
	return serrors.ConfigWrap(errors.New(strings.Join(errs, "; ")), serrors.ErrConfigInvalid, "invalid configuration").
		WithContext("problems", strconv.Itoa(len(errs)))
}

func isValidOption(value string, options []string) bool {
	for _, o := range options {
		if value == o {
			return true
		}
	}
	return false
}

func isValidColor(value string) bool {
	return isValidOption(strings.ToLower(value), validColorNames) || hexColorPattern.MatchString(value)
}

// -----------------------------------------------------------------------------
// YAML error helpers
// -----------------------------------------------------------------------------

var yamlLocationPattern = regexp.MustCompile(`line (\d+)(?::(\d+))?`)

// extractYAMLErrorLocation pulls the first line and column out of a yaml.v3
// error string. Missing values are returned as 0.
func extractYAMLErrorLocation(errStr string) (line, col int) {
	m := yamlLocationPattern.FindStringSubmatch(errStr)
	if m == nil {
		return 0, 0
	}
	line, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		col, _ = strconv.Atoi(m[2])
	}
	return line, col
}
