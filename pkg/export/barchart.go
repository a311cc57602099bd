package export

import (
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/building"
	serrors "github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/errors"
)

// BarChartConfig specifies the building height bar chart.
type BarChartConfig struct {
	Title  string
	YLabel string

	// Width and Height are the canvas size.
	Width  vg.Length
	Height vg.Length

	// BarFill is the share of each slot covered by its bar.
	BarFill float64

	Colors CountryColors

	// ReferenceHeight draws a dashed horizontal line when > 0.
	ReferenceHeight float64
	ReferenceLabel  string
	ReferenceColor  string
}

// DefaultBarChartConfig returns the layout of building_heights.png.
func DefaultBarChartConfig() *BarChartConfig {
	return &BarChartConfig{
		Title:           "High Buildings",
		YLabel:          "Height (m)",
		Width:           30 * vg.Inch,
		Height:          20 * vg.Inch,
		BarFill:         0.8,
		Colors:          DefaultCountryColors(),
		ReferenceHeight: 300,
		ReferenceLabel:  "Eiffel Tower",
		ReferenceColor:  "red",
	}
}

// BarChart is a built chart with handles on its parts.
type BarChart struct {
	Plot      *plot.Plot
	Bars      []*plotter.BarChart
	Reference *plotter.Line
}

// BarChartBuilder draws one bar per record.
type BarChartBuilder struct {
	config *BarChartConfig
}

// NewBarChartBuilder creates a builder. A nil config uses DefaultBarChartConfig.
func NewBarChartBuilder(config *BarChartConfig) *BarChartBuilder {
	if config == nil {
		config = DefaultBarChartConfig()
	}
	return &BarChartBuilder{config: config}
}

// Build lays out the records left to right in the given order. Bars are
// colored by country and labelled on the x axis with their completion year.
func (bb *BarChartBuilder) Build(records []building.Record) (*BarChart, error) {
	cfg := bb.config

	p := plot.New()
	p.Title.Text = cfg.Title
	p.Y.Label.Text = cfg.YLabel
	p.Y.Min = 0

	chart := &BarChart{Plot: p}

	slot := bb.slotWidth(len(records))
	years := make([]string, len(records))
	for i, r := range records {
		fill, err := cfg.Colors.RGBA(r.Country)
		if err != nil {
			return nil, serrors.IOWrap(err, serrors.ErrIORenderFailed, "invalid bar color").
				WithContext("country", r.Country)
		}

		bars, err := plotter.NewBarChart(plotter.Values{r.Height}, vg.Length(cfg.BarFill)*slot)
		if err != nil {
			return nil, serrors.IOWrap(err, serrors.ErrIORenderFailed, "cannot draw bar").
				WithContext("building", r.Name).
				WithContext(serrors.ContextRow, strconv.Itoa(r.Row))
		}
		bars.XMin = float64(i)
		bars.Color = fill
		bars.LineStyle.Width = 0
		p.Add(bars)

		chart.Bars = append(chart.Bars, bars)
		years[i] = strconv.Itoa(r.CompletionYear)
	}

	// NominalX needs at least one name.
	if len(years) > 0 {
		p.NominalX(years...)
	}
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	if cfg.ReferenceHeight > 0 {
		line, err := bb.referenceLine(len(records))
		if err != nil {
			return nil, err
		}
		p.Add(line)
		p.Legend.Add(cfg.ReferenceLabel, line)
		p.Legend.Top = true
		chart.Reference = line
	}
	return chart, nil
}

// slotWidth is the canvas width available to one category.
func (bb *BarChartBuilder) slotWidth(n int) vg.Length {
	if n < 1 {
		n = 1
	}
	// Leave room for the y axis and margins.
	return bb.config.Width * 0.9 / vg.Length(n)
}

func (bb *BarChartBuilder) referenceLine(n int) (*plotter.Line, error) {
	cfg := bb.config
	c, err := ParseColor(cfg.ReferenceColor)
	if err != nil {
		return nil, serrors.IOWrap(err, serrors.ErrIORenderFailed, "invalid reference line color")
	}

	right := float64(n) - 0.5
	if n == 0 {
		right = 0.5
	}
	line, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: cfg.ReferenceHeight},
		{X: right, Y: cfg.ReferenceHeight},
	})
	if err != nil {
		return nil, serrors.IOWrap(err, serrors.ErrIORenderFailed, "cannot draw reference line")
	}
	line.LineStyle.Color = color.Color(c)
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Dashes = []vg.Length{vg.Points(8), vg.Points(5)}
	return line, nil
}

// ExportBarChartToFile renders the chart to path. The image format follows
// the file extension.
func ExportBarChartToFile(path string, records []building.Record, config *BarChartConfig) error {
	bb := NewBarChartBuilder(config)
	chart, err := bb.Build(records)
	if err != nil {
		return err
	}
	if err := chart.Plot.Save(bb.config.Width, bb.config.Height, path); err != nil {
		return serrors.IOWrap(err, serrors.ErrIOWriteFailed, "failed to write bar chart").
			WithContext(serrors.ContextPath, path)
	}
	return nil
}
