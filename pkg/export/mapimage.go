package export

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/building"
	serrors "github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/errors"
	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/geo"
)

// MapImageConfig specifies the static building location map.
type MapImageConfig struct {
	Title  string
	Width  vg.Length
	Height vg.Length

	LandColor   string
	PointColor  string
	PointRadius vg.Length

	// LabelCount is how many leading records get a name label.
	LabelCount  int
	LabelOffset vg.Point
}

// DefaultMapImageConfig returns the layout of building_map.png.
func DefaultMapImageConfig() *MapImageConfig {
	return &MapImageConfig{
		Title:       "Building Locations",
		Width:       15 * vg.Inch,
		Height:      10 * vg.Inch,
		LandColor:   "gray",
		PointColor:  "blue",
		PointRadius: vg.Points(4),
		LabelCount:  10,
		LabelOffset: vg.Point{X: vg.Points(3), Y: vg.Points(3)},
	}
}

// MapImage is a built map with handles on its layers.
type MapImage struct {
	Plot      *plot.Plot
	Land      []*plotter.Polygon
	Buildings *plotter.Scatter
	Labels    *plotter.Labels
}

// MapImageBuilder draws buildings over a boundary layer.
type MapImageBuilder struct {
	config *MapImageConfig
}

// NewMapImageBuilder creates a builder. A nil config uses DefaultMapImageConfig.
func NewMapImageBuilder(config *MapImageConfig) *MapImageBuilder {
	if config == nil {
		config = DefaultMapImageConfig()
	}
	return &MapImageBuilder{config: config}
}

// Build draws the boundary polygons, every record as a point, and labels
// the first LabelCount records with their names.
func (mb *MapImageBuilder) Build(boundaries *geo.Boundaries, records []building.Record) (*MapImage, error) {
	cfg := mb.config

	land, err := ParseColor(cfg.LandColor)
	if err != nil {
		return nil, serrors.IOWrap(err, serrors.ErrIORenderFailed, "invalid land color")
	}
	point, err := ParseColor(cfg.PointColor)
	if err != nil {
		return nil, serrors.IOWrap(err, serrors.ErrIORenderFailed, "invalid point color")
	}

	p := plot.New()
	p.Title.Text = cfg.Title
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	m := &MapImage{Plot: p}

	if boundaries != nil {
		for _, poly := range boundaries.Polygons {
			rings := make([]plotter.XYer, 0, len(poly))
			for _, ring := range poly {
				if len(ring) == 0 {
					continue
				}
				xys := make(plotter.XYs, len(ring))
				for i, pt := range ring {
					xys[i].X, xys[i].Y = pt.Lon(), pt.Lat()
				}
				rings = append(rings, xys)
			}
			if len(rings) == 0 {
				continue
			}
			pg, err := plotter.NewPolygon(rings...)
			if err != nil {
				return nil, serrors.IOWrap(err, serrors.ErrIORenderFailed, "cannot draw boundary polygon")
			}
			pg.Color = land
			pg.LineStyle.Width = 0
			p.Add(pg)
			m.Land = append(m.Land, pg)
		}
	}

	points := geo.PointsFromRecords(records)
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X, xys[i].Y = pt.Lon(), pt.Lat()
	}

	if len(xys) > 0 {
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, serrors.IOWrap(err, serrors.ErrIORenderFailed, "cannot draw building points")
		}
		scatter.GlyphStyle = draw.GlyphStyle{
			Color:  point,
			Radius: cfg.PointRadius,
			Shape:  draw.CircleGlyph{},
		}
		p.Add(scatter)
		m.Buildings = scatter

		top := building.Head(records, cfg.LabelCount)
		if len(top) > 0 {
			names := make([]string, len(top))
			for i, r := range top {
				names[i] = r.Name
			}
			labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys[:len(top)], Labels: names})
			if err != nil {
				return nil, serrors.IOWrap(err, serrors.ErrIORenderFailed, "cannot draw building labels")
			}
			labels.Offset = cfg.LabelOffset
			p.Add(labels)
			m.Labels = labels
		}
	}
	return m, nil
}

// ExportMapImageToFile renders the map to path.
func ExportMapImageToFile(path string, boundaries *geo.Boundaries, records []building.Record, config *MapImageConfig) error {
	mb := NewMapImageBuilder(config)
	m, err := mb.Build(boundaries, records)
	if err != nil {
		return err
	}
	if err := m.Plot.Save(mb.config.Width, mb.config.Height, path); err != nil {
		return serrors.IOWrap(err, serrors.ErrIOWriteFailed, "failed to write map image").
			WithContext(serrors.ContextPath, path)
	}
	return nil
}
