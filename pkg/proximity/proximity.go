// Package proximity counts, for each query building, how many buildings of
// the full table stand within a distance threshold.
//
// Distance is the planar approximation sqrt(dLat² + dLon²) × km-per-degree.
// It ignores the narrowing of longitude degrees away from the equator, so
// east-west distances are overestimated at high latitudes. The counts are
// kept compatible with earlier reports rather than switched to a geodesic.
package proximity

import (
	"fmt"
	"io"
	"math"

	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/building"
)

// Default scan parameters.
const (
	DefaultThresholdKm = 40
	DefaultKmPerDegree = 111
)

// Scanner holds the scan parameters.
type Scanner struct {
	ThresholdKm float64
	KmPerDegree float64
}

// NewScanner returns a Scanner with the default 40 km threshold.
func NewScanner() *Scanner {
	return &Scanner{
		ThresholdKm: DefaultThresholdKm,
		KmPerDegree: DefaultKmPerDegree,
	}
}

// Distance returns the planar distance between a and b in kilometers.
func (s *Scanner) Distance(a, b building.Record) float64 {
	dLat := a.Lat - b.Lat
	dLon := a.Lon - b.Lon
	return math.Sqrt(dLat*dLat+dLon*dLon) * s.KmPerDegree
}

// Count is the nearby total for one query building.
type Count struct {
	Building building.Record
	Nearby   int
}

// Scan counts, for each query, the records of all with 0 < distance <= threshold.
// Zero distance excludes the query itself and exact coordinate duplicates.
// Results follow query order. Cost is O(len(queries) × len(all)).
func (s *Scanner) Scan(all, queries []building.Record) []Count {
	counts := make([]Count, len(queries))
	for i, q := range queries {
		n := 0
		for _, r := range all {
			if d := s.Distance(q, r); d > 0 && d <= s.ThresholdKm {
				n++
			}
		}
		counts[i] = Count{Building: q, Nearby: n}
	}
	return counts
}

// Report writes one "<name> -- <n> buildings nearby" line per count.
func Report(w io.Writer, counts []Count) error {
	for _, c := range counts {
		if _, err := fmt.Fprintf(w, "%s -- %d buildings nearby\n", c.Building.Name, c.Nearby); err != nil {
			return err
		}
	}
	return nil
}
