package errors

import (
	"runtime"
	"sort"
)

// Context keys used to select suggestions.
const (
	// ContextOS is the operating system (e.g., "linux", "darwin", "windows")
	ContextOS = "os"

	// ContextArch is the CPU architecture.
	ContextArch = "arch"

	// ContextPath is the file involved in the failure.
	ContextPath = "path"

	// ContextColumn is the table column involved in the failure.
	ContextColumn = "column"

	// ContextRow is the 1-based data row involved in the failure.
	ContextRow = "row"
)

// OS values for platform-specific suggestions.
const (
	OSLinux   = "linux"
	OSDarwin  = "darwin"
	OSWindows = "windows"
)

// Suggestion is a remediation hint with optional context conditions.
type Suggestion struct {
	// Text is the suggestion message displayed to the user.
	Text string

	// Conditions must all match the error context; empty matches anything.
	Conditions map[string]string

	// Priority orders suggestions, highest first.
	Priority int
}

// Matches returns true if this suggestion's conditions match ctx.
func (s *Suggestion) Matches(ctx map[string]string) bool {
	for key, value := range s.Conditions {
		if ctx[key] != value {
			return false
		}
	}
	return true
}

// Registry maps error codes to their remediation suggestions.
type Registry struct {
	suggestions map[string][]Suggestion
}

// NewRegistry creates an empty suggestion registry.
func NewRegistry() *Registry {
	return &Registry{
		suggestions: make(map[string][]Suggestion),
	}
}

// Register adds an unconditional suggestion for an error code.
func (r *Registry) Register(code, text string) *Registry {
	r.suggestions[code] = append(r.suggestions[code], Suggestion{Text: text})
	return r
}

// RegisterWithCondition adds a suggestion that only applies when ctx matches.
func (r *Registry) RegisterWithCondition(code, text string, conditions map[string]string) *Registry {
	r.suggestions[code] = append(r.suggestions[code], Suggestion{
		Text:       text,
		Conditions: conditions,
	})
	return r
}

// RegisterWithPriority adds a suggestion with explicit priority.
func (r *Registry) RegisterWithPriority(code, text string, priority int) *Registry {
	r.suggestions[code] = append(r.suggestions[code], Suggestion{
		Text:     text,
		Priority: priority,
	})
	return r
}

// Get returns the texts of all suggestions for code matching ctx,
// highest priority first. Registration order breaks ties.
func (r *Registry) Get(code string, ctx map[string]string) []string {
	var matching []Suggestion
	for _, s := range r.suggestions[code] {
		if s.Matches(ctx) {
			matching = append(matching, s)
		}
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].Priority > matching[j].Priority
	})

	result := make([]string, len(matching))
	for i, s := range matching {
		result[i] = s.Text
	}
	return result
}

// HasSuggestions returns true if any suggestions exist for the error code.
func (r *Registry) HasSuggestions(code string) bool {
	return len(r.suggestions[code]) > 0
}

// DefaultContext returns a context map with current platform information.
func DefaultContext() map[string]string {
	return map[string]string{
		ContextOS:   runtime.GOOS,
		ContextArch: runtime.GOARCH,
	}
}

// MergeContext combines context maps; later maps win.
func MergeContext(contexts ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, ctx := range contexts {
		for k, v := range ctx {
			result[k] = v
		}
	}
	return result
}

var defaultRegistry = NewRegistry()

func init() {
	registerParseSuggestions()
	registerIOSuggestions()
	registerDataSuggestions()
	registerConfigSuggestions()
}

func registerParseSuggestions() {
	defaultRegistry.
		RegisterWithPriority(ErrParseFileNotFound, "Check input.csv in the config file or set SKYLINE_INPUT_CSV", 10).
		Register(ErrParseFileNotFound, "The dataset is available as tallest_buildings_in_the_world.csv on Kaggle")

	defaultRegistry.
		Register(ErrParseReadFailed, "Verify the file is comma-delimited text and readable by the current user")

	defaultRegistry.
		Register(ErrParseEmpty, "The first line must be a header row")

	defaultRegistry.
		Register(ErrParseMissingColumn, "Required columns: Name, Height (m), Completion Year, City, Country, Lat, Lon")

	defaultRegistry.
		Register(ErrParseBadNumber, "Height, Lat and Lon must be decimal numbers; Completion Year must be an integer").
		Register(ErrParseBadNumber, "Check input.encoding if the file contains accented characters")

	defaultRegistry.
		Register(ErrParseUnknownEncoding, "Supported encodings: ISO-8859-1, UTF-8")
}

func registerIOSuggestions() {
	defaultRegistry.
		RegisterWithPriority(ErrIOWriteFailed, "Check that output.dir exists and is writable", 10).
		RegisterWithCondition(ErrIOWriteFailed, "Close the file if it is open in Excel or a PDF viewer",
			map[string]string{ContextOS: OSWindows})

	defaultRegistry.
		Register(ErrIOImageMissing, "The chart and map stages must succeed before the PDF stage")

	defaultRegistry.
		Register(ErrIORenderFailed, "Re-run with --log-level debug for details")
}

func registerDataSuggestions() {
	defaultRegistry.
		Register(ErrDataBoundaryNotFound, "Download ne_50m_admin_0_countries.geojson from github.com/nvkelso/natural-earth-vector").
		Register(ErrDataBoundaryNotFound, "Set input.boundaries in the config file")

	defaultRegistry.
		Register(ErrDataBoundaryInvalid, "The boundary file must be a GeoJSON FeatureCollection")

	defaultRegistry.
		Register(ErrDataCRSMismatch, "Reproject the boundary layer to EPSG:4326 (WGS84) first")
}

func registerConfigSuggestions() {
	defaultRegistry.
		Register(ErrConfigParseFailed, "Check the YAML syntax; `skyline init` writes a valid default file")

	defaultRegistry.
		Register(ErrConfigInvalid, "Fix the listed values or delete the file to fall back to defaults")

	defaultRegistry.
		Register(ErrConfigWriteFailed, "Check permissions on the config directory")
}
