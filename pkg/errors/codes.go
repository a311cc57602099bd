package errors

// -----------------------------------------------------------------------------
// Parse Error Codes
// -----------------------------------------------------------------------------
// Raised by the loader while reading the buildings table.

const (
	// ErrParseFileNotFound indicates the input table does not exist.
	ErrParseFileNotFound = "PARSE_FILE_NOT_FOUND"

	// ErrParseReadFailed indicates the input exists but could not be read or tokenized.
	ErrParseReadFailed = "PARSE_READ_FAILED"

	// ErrParseEmpty indicates the input has no header row.
	ErrParseEmpty = "PARSE_EMPTY"

	// ErrParseMissingColumn indicates a required header column is absent.
	ErrParseMissingColumn = "PARSE_MISSING_COLUMN"

	// ErrParseBadNumber indicates a numeric cell could not be parsed.
	ErrParseBadNumber = "PARSE_BAD_NUMBER"

	// ErrParseRaggedRow indicates a data row is shorter than the header.
	ErrParseRaggedRow = "PARSE_RAGGED_ROW"

	// ErrParseUnknownEncoding indicates an unsupported text encoding name.
	ErrParseUnknownEncoding = "PARSE_UNKNOWN_ENCODING"
)

// -----------------------------------------------------------------------------
// IO Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrIOWriteFailed indicates an output file could not be written.
	ErrIOWriteFailed = "IO_WRITE_FAILED"

	// ErrIOImageMissing indicates an image needed by the PDF report is absent.
	ErrIOImageMissing = "IO_IMAGE_MISSING"

	// ErrIORenderFailed indicates a chart or document could not be rendered.
	ErrIORenderFailed = "IO_RENDER_FAILED"
)

// -----------------------------------------------------------------------------
// Data Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrDataBoundaryNotFound indicates the country boundary file is absent.
	ErrDataBoundaryNotFound = "DATA_BOUNDARY_NOT_FOUND"

	// ErrDataBoundaryInvalid indicates the boundary file is not a usable GeoJSON collection.
	ErrDataBoundaryInvalid = "DATA_BOUNDARY_INVALID"

	// ErrDataCRSMismatch indicates the boundary layer is not in EPSG:4326.
	ErrDataCRSMismatch = "DATA_CRS_MISMATCH"
)

// -----------------------------------------------------------------------------
// Configuration Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrConfigReadFailed indicates the config file could not be read.
	ErrConfigReadFailed = "CONFIG_READ_FAILED"

	// ErrConfigParseFailed indicates the config file is not valid YAML.
	ErrConfigParseFailed = "CONFIG_PARSE_FAILED"

	// ErrConfigInvalid indicates config values failed validation.
	ErrConfigInvalid = "CONFIG_INVALID"

	// ErrConfigWriteFailed indicates the config file could not be written.
	ErrConfigWriteFailed = "CONFIG_WRITE_FAILED"
)

// -----------------------------------------------------------------------------
// Internal Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrInternalStage indicates a stage was run without the state it depends on.
	ErrInternalStage = "INTERNAL_STAGE"

	// ErrInternalCancelled indicates the run was interrupted between stages.
	ErrInternalCancelled = "INTERNAL_CANCELLED"
)
