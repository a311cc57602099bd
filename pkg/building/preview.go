package building

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var previewHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var previewCellStyle = lipgloss.NewStyle().Padding(0, 1)

// Preview writes the first n records as a table followed by the column list.
func Preview(w io.Writer, t *Table, n int) error {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", ColumnName, ColumnHeight, ColumnYear, ColumnCity, ColumnCountry, ColumnLat, ColumnLon).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return previewHeaderStyle
			}
			return previewCellStyle
		})

	for i, r := range Head(recordsOf(t), n) {
		tbl.Row(
			strconv.Itoa(i),
			r.Name,
			formatFloat(r.Height),
			strconv.Itoa(r.CompletionYear),
			r.City,
			r.Country,
			formatFloat(r.Lat),
			formatFloat(r.Lon),
		)
	}

	var columns []string
	if t != nil {
		columns = t.Columns
	}
	_, err := fmt.Fprintf(w, "%s\n%q\n", tbl.String(), columns)
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
