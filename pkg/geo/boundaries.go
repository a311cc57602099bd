// Package geo loads the country boundary layer drawn under the building map
// and converts building coordinates into the same geographic reference.
package geo

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/building"
	serrors "github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/errors"
)

// WGS84 is the EPSG code of longitude/latitude degrees, the reference of
// both the building table and the boundary layer.
const WGS84 = "EPSG:4326"

// acceptedCRS lists the names GeoJSON writers use for WGS84 lon/lat.
var acceptedCRS = map[string]bool{
	"":                              true,
	"epsg:4326":                     true,
	"urn:ogc:def:crs:epsg::4326":    true,
	"urn:ogc:def:crs:epsg:4326":     true,
	"urn:ogc:def:crs:ogc:1.3:crs84": true,
	"crs84":                         true,
}

// Boundaries is the polygon layer of a country boundary file.
type Boundaries struct {
	// CRS is the declared reference name, empty when the file has none.
	CRS string

	// Polygons holds every polygon; multipolygons are flattened.
	Polygons []orb.Polygon

	// Features is the number of features that contributed polygons.
	Features int
}

// Bound returns the bounding box of all polygons.
func (b *Boundaries) Bound() orb.Bound {
	var mp orb.MultiPolygon = b.Polygons
	return mp.Bound()
}

// crsMember is the legacy GeoJSON 2008 "crs" object, which orb ignores.
type crsMember struct {
	CRS *struct {
		Type       string `json:"type"`
		Properties struct {
			Name string `json:"name"`
		} `json:"properties"`
	} `json:"crs"`
}

// LoadBoundaries reads a GeoJSON FeatureCollection of country polygons and
// checks that it is in WGS84 lon/lat.
func LoadBoundaries(path string) (*Boundaries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, serrors.DataWrap(err, serrors.ErrDataBoundaryNotFound, "boundary file not found").
				WithContext(serrors.ContextPath, path)
		}
		return nil, serrors.DataWrap(err, serrors.ErrDataBoundaryInvalid, "cannot read boundary file").
			WithContext(serrors.ContextPath, path)
	}

	b, err := ParseBoundaries(data)
	if err != nil {
		if se, ok := serrors.AsSkylineError(err); ok {
			se.WithContext(serrors.ContextPath, path)
		}
		return nil, err
	}
	return b, nil
}

// ParseBoundaries decodes a GeoJSON FeatureCollection held in memory.
func ParseBoundaries(data []byte) (*Boundaries, error) {
	var member crsMember
	if err := json.Unmarshal(data, &member); err != nil {
		return nil, serrors.DataWrap(err, serrors.ErrDataBoundaryInvalid, "boundary file is not valid JSON")
	}

	b := &Boundaries{}
	if member.CRS != nil {
		b.CRS = member.CRS.Properties.Name
	}
	if !acceptedCRS[strings.ToLower(b.CRS)] {
		return nil, serrors.Dataf(serrors.ErrDataCRSMismatch,
			"boundary layer uses %s, buildings use %s", b.CRS, WGS84).
			WithContext("crs", b.CRS)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, serrors.DataWrap(err, serrors.ErrDataBoundaryInvalid, "boundary file is not a GeoJSON FeatureCollection")
	}

	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		var added bool
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			b.Polygons = append(b.Polygons, g)
			added = true
		case orb.MultiPolygon:
			b.Polygons = append(b.Polygons, g...)
			added = len(g) > 0
		}
		if added {
			b.Features++
		}
	}
	if len(b.Polygons) == 0 {
		return nil, serrors.Data(serrors.ErrDataBoundaryInvalid, "boundary file contains no polygons")
	}

	// Projected layers without a crs member show up as coordinates far
	// outside the degree range.
	if bound := b.Bound(); !withinDegrees(bound.Min) || !withinDegrees(bound.Max) {
		return nil, serrors.Dataf(serrors.ErrDataCRSMismatch,
			"boundary coordinates span %v to %v, outside lon/lat degrees", bound.Min, bound.Max)
	}
	return b, nil
}

func withinDegrees(p orb.Point) bool {
	return p.Lon() >= -180 && p.Lon() <= 180 && p.Lat() >= -90 && p.Lat() <= 90
}

// PointsFromRecords returns one lon/lat point per record, in record order.
func PointsFromRecords(records []building.Record) []orb.Point {
	points := make([]orb.Point, len(records))
	for i, r := range records {
		points[i] = orb.Point{r.Lon, r.Lat}
	}
	return points
}

// String describes the layer for log lines.
func (b *Boundaries) String() string {
	crs := b.CRS
	if crs == "" {
		crs = WGS84
	}
	return fmt.Sprintf("%d features, %d polygons, %s", b.Features, len(b.Polygons), crs)
}
