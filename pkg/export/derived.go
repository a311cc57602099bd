package export

import (
	"fmt"
	"strconv"

	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/building"
)

// DerivedColumn is a computed workbook column. The workbook stores Formula
// so the value stays live in the spreadsheet; Value is the same computation
// evaluated in Go.
type DerivedColumn struct {
	Header string

	// NumFmt is the spreadsheet number format of the column cells.
	NumFmt string

	// Width is the column width in characters.
	Width float64

	// Value computes the column for a record.
	Value func(building.Record) float64

	// Formula returns the spreadsheet formula for a 1-based sheet row.
	// When nil the workbook stores Value instead.
	Formula func(row int) string
}

// PercentOfReference builds the "% <label>" column: height / reference * 100.
func PercentOfReference(reference float64, label string) DerivedColumn {
	ref := strconv.FormatFloat(reference, 'f', -1, 64)
	return DerivedColumn{
		Header: "% " + label,
		NumFmt: `0.0"%"`,
		Width:  20,
		Value: func(r building.Record) float64 {
			return r.Height / reference * 100
		},
		Formula: func(row int) string {
			return fmt.Sprintf("B%d/%s*100", row, ref)
		},
	}
}
