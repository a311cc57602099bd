// Package building holds the tallest-buildings dataset: the record type, the
// CSV loader and the ordered views the reports are built from.
package building

// Column names of the source table.
const (
	ColumnName    = "Name"
	ColumnHeight  = "Height (m)"
	ColumnYear    = "Completion Year"
	ColumnCity    = "City"
	ColumnCountry = "Country"
	ColumnLat     = "Lat"
	ColumnLon     = "Lon"
)

// RequiredColumns lists the header names the loader looks up.
var RequiredColumns = []string{
	ColumnName,
	ColumnHeight,
	ColumnYear,
	ColumnCity,
	ColumnCountry,
	ColumnLat,
	ColumnLon,
}

// Record is one row of the source table.
type Record struct {
	Name           string
	Height         float64 // meters
	CompletionYear int
	City           string
	Country        string
	Lat            float64 // degrees, WGS84
	Lon            float64 // degrees, WGS84

	// Row is the 1-based data row in the source file, header excluded.
	Row int
}

// Table is the dataset as loaded. Records keep source order and are never
// reordered in place; sorts return new slices.
type Table struct {
	// Columns is the header row as read, extra columns included.
	Columns []string

	Records []Record
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}
