// Skyline builds the tallest-buildings report set from a CSV table.
//
// Outputs, written to the configured output directory:
//   - Buildings_Sorted.xlsx: height-sorted workbook with a derived percentage column
//   - building_heights.png: completion-year bar chart
//   - building_map.png: static world map with building points
//   - 3d_buildings_map.html: interactive map
//   - Building_Report.pdf: charts plus a table of the tallest buildings
//   - run_manifest.json: run id, input and view digests
package main

import (
	"os"

	serrors "github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/errors"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		serrors.Display(err)
		os.Exit(1)
	}
}
