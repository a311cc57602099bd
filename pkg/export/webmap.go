package export

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/building"
	serrors "github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/errors"
	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/geo"
)

// WebMapConfig specifies the interactive map page. The page carries its
// own markup, styles and script; it loads nothing at view time.
type WebMapConfig struct {
	PageTitle string
	Title     string

	// Width and Height are the SVG view box in pixels. Longitude spans the
	// full width and latitude the full height (equirectangular).
	Width  int
	Height int

	PointRadius float64

	OceanColor string
	LandColor  string
	CoastColor string

	// ColorRange is the sequential scale from lowest to tallest building.
	ColorRange []string
}

// DefaultWebMapConfig returns the layout of 3d_buildings_map.html.
func DefaultWebMapConfig() *WebMapConfig {
	return &WebMapConfig{
		PageTitle:   "Tallest Buildings",
		Title:       "Tallest Buildings by Height",
		Width:       1200,
		Height:      600,
		PointRadius: 5,
		OceanColor:  "#eef4f8",
		LandColor:   "#d0d0d0",
		CoastColor:  "#ffffff",
		ColorRange:  []string{"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"},
	}
}

// WebMapBuilder lays out buildings over the boundary layer as an SVG page.
type WebMapBuilder struct {
	config *WebMapConfig
}

// NewWebMapBuilder creates a builder. A nil config uses DefaultWebMapConfig.
func NewWebMapBuilder(config *WebMapConfig) *WebMapBuilder {
	if config == nil {
		config = DefaultWebMapConfig()
	}
	return &WebMapBuilder{config: config}
}

// Build lays out the page. Each building is a circle colored by height with
// a "Name (Height m)" hover title; boundaries may be nil.
func (wb *WebMapBuilder) Build(boundaries *geo.Boundaries, records []building.Record) (templ.Component, error) {
	scale, err := newHeightScale(wb.config.ColorRange, records)
	if err != nil {
		return nil, serrors.IOWrap(err, serrors.ErrIORenderFailed, "invalid web map color range")
	}

	var sb strings.Builder
	wb.writeHead(&sb)
	wb.writeMap(&sb, boundaries, records, scale)
	wb.writeLegend(&sb, scale)
	wb.writeTail(&sb)

	page := sb.String()
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, page)
		return err
	}), nil
}

// Render writes the page to w.
func (wb *WebMapBuilder) Render(ctx context.Context, w io.Writer, boundaries *geo.Boundaries, records []building.Record) error {
	page, err := wb.Build(boundaries, records)
	if err != nil {
		return err
	}
	if err := page.Render(ctx, w); err != nil {
		return serrors.IOWrap(err, serrors.ErrIORenderFailed, "failed to render web map")
	}
	return nil
}

func (wb *WebMapBuilder) writeHead(sb *strings.Builder) {
	cfg := wb.config
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(sb, "<title>%s</title>\n", templ.EscapeString(cfg.PageTitle))
	sb.WriteString("<style>\n")
	sb.WriteString("body { font-family: sans-serif; margin: 16px; }\n")
	fmt.Fprintf(sb, "#map { width: 100%%; max-width: %dpx; border: 1px solid #ccc; cursor: grab; background: %s; }\n",
		cfg.Width, cfg.OceanColor)
	sb.WriteString("#map circle:hover { stroke: #000; stroke-width: 1.5; }\n")
	sb.WriteString("</style>\n</head>\n<body>\n")
	fmt.Fprintf(sb, "<h1>%s</h1>\n", templ.EscapeString(cfg.Title))
}

func (wb *WebMapBuilder) writeMap(sb *strings.Builder, boundaries *geo.Boundaries, records []building.Record, scale *heightScale) {
	cfg := wb.config
	fmt.Fprintf(sb, "<svg id=\"map\" xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\">\n", cfg.Width, cfg.Height)

	if boundaries != nil && len(boundaries.Polygons) > 0 {
		fmt.Fprintf(sb, "<g id=\"land\" fill=\"%s\" stroke=\"%s\" stroke-width=\"0.5\" fill-rule=\"evenodd\">\n",
			cfg.LandColor, cfg.CoastColor)
		for _, poly := range boundaries.Polygons {
			var d strings.Builder
			for _, ring := range poly {
				for i, pt := range ring {
					x, y := wb.project(pt.Lon(), pt.Lat())
					if i == 0 {
						d.WriteString("M")
					} else {
						d.WriteString(" L")
					}
					d.WriteString(formatCoord(x) + "," + formatCoord(y))
				}
				if len(ring) > 0 {
					d.WriteString(" Z ")
				}
			}
			if d.Len() > 0 {
				fmt.Fprintf(sb, "<path d=\"%s\"/>\n", strings.TrimSpace(d.String()))
			}
		}
		sb.WriteString("</g>\n")
	}

	// Tallest last so they stay on top where points overlap.
	sb.WriteString("<g id=\"buildings\" fill-opacity=\"0.9\">\n")
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		x, y := wb.project(r.Lon, r.Lat)
		fmt.Fprintf(sb, "<circle cx=\"%s\" cy=\"%s\" r=\"%s\" fill=\"%s\"><title>%s</title></circle>\n",
			formatCoord(x), formatCoord(y), formatCoord(cfg.PointRadius),
			hexColor(scale.color(r.Height)), templ.EscapeString(hoverText(r)))
	}
	sb.WriteString("</g>\n</svg>\n")
}

func (wb *WebMapBuilder) writeLegend(sb *strings.Builder, scale *heightScale) {
	sb.WriteString("<svg id=\"legend\" xmlns=\"http://www.w3.org/2000/svg\" width=\"320\" height=\"44\">\n")
	sb.WriteString("<defs><linearGradient id=\"height-scale\">")
	n := len(scale.stops)
	for i, c := range scale.stops {
		offset := 0.0
		if n > 1 {
			offset = float64(i) / float64(n-1) * 100
		}
		fmt.Fprintf(sb, "<stop offset=\"%s%%\" stop-color=\"%s\"/>", formatCoord(offset), hexColor(c))
	}
	sb.WriteString("</linearGradient></defs>\n")
	sb.WriteString("<rect x=\"10\" y=\"4\" width=\"300\" height=\"14\" fill=\"url(#height-scale)\"/>\n")
	fmt.Fprintf(sb, "<text x=\"10\" y=\"36\" font-size=\"12\">%s m</text>\n", formatHeight(scale.lo))
	fmt.Fprintf(sb, "<text x=\"310\" y=\"36\" font-size=\"12\" text-anchor=\"end\">%s m</text>\n", formatHeight(scale.hi))
	sb.WriteString("</svg>\n")
}

func (wb *WebMapBuilder) writeTail(sb *strings.Builder) {
	sb.WriteString("<p>Scroll to zoom, drag to pan, double-click to reset. Hover a point for its name and height.</p>\n")
	sb.WriteString("<script>\n")
	sb.WriteString(panZoomScript)
	sb.WriteString("</script>\n</body>\n</html>\n")
}

// project maps lon/lat degrees to view box pixels.
func (wb *WebMapBuilder) project(lon, lat float64) (x, y float64) {
	cfg := wb.config
	x = (lon + 180) / 360 * float64(cfg.Width)
	y = (90 - lat) / 180 * float64(cfg.Height)
	return x, y
}

// panZoomScript zooms the map view box around the cursor and pans it by drag.
const panZoomScript = `(function () {
  var svg = document.getElementById("map");
  var vb = svg.viewBox.baseVal;
  var W = vb.width, H = vb.height, drag = null;
  function point(e) {
    var r = svg.getBoundingClientRect();
    return { x: vb.x + (e.clientX - r.left) / r.width * vb.width,
             y: vb.y + (e.clientY - r.top) / r.height * vb.height };
  }
  svg.addEventListener("wheel", function (e) {
    e.preventDefault();
    var p = point(e);
    var w = Math.min(W, Math.max(W / 32, vb.width * (e.deltaY < 0 ? 0.8 : 1.25)));
    var h = w * H / W;
    vb.x = p.x - (p.x - vb.x) * w / vb.width;
    vb.y = p.y - (p.y - vb.y) * h / vb.height;
    vb.width = w;
    vb.height = h;
  }, { passive: false });
  svg.addEventListener("mousedown", function (e) { drag = { x: e.clientX, y: e.clientY }; });
  window.addEventListener("mouseup", function () { drag = null; });
  window.addEventListener("mousemove", function (e) {
    if (!drag) { return; }
    var r = svg.getBoundingClientRect();
    vb.x -= (e.clientX - drag.x) * vb.width / r.width;
    vb.y -= (e.clientY - drag.y) * vb.height / r.height;
    drag = { x: e.clientX, y: e.clientY };
  });
  svg.addEventListener("dblclick", function () {
    vb.x = 0; vb.y = 0; vb.width = W; vb.height = H;
  });
})();
`

// heightScale interpolates evenly spaced color stops over [lo, hi].
type heightScale struct {
	lo, hi float64
	stops  []color.RGBA
}

func newHeightScale(colors []string, records []building.Record) (*heightScale, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("no colors in range")
	}
	s := &heightScale{stops: make([]color.RGBA, len(colors))}
	for i, c := range colors {
		rgba, err := ParseColor(c)
		if err != nil {
			return nil, err
		}
		s.stops[i] = rgba
	}
	s.lo, s.hi = heightRange(records)
	return s, nil
}

func (s *heightScale) color(h float64) color.RGBA {
	n := len(s.stops)
	if n == 1 || s.hi <= s.lo {
		return s.stops[0]
	}
	t := (h - s.lo) / (s.hi - s.lo)
	if t <= 0 {
		return s.stops[0]
	}
	if t >= 1 {
		return s.stops[n-1]
	}
	pos := t * float64(n-1)
	i := int(pos)
	f := pos - float64(i)
	a, b := s.stops[i], s.stops[i+1]
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*f + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

// heightRange returns the smallest and largest height, or 0, 0 for no records.
func heightRange(records []building.Record) (lo, hi float64) {
	for i, r := range records {
		if i == 0 || r.Height < lo {
			lo = r.Height
		}
		if i == 0 || r.Height > hi {
			hi = r.Height
		}
	}
	return lo, hi
}

func hoverText(r building.Record) string {
	return r.Name + " (" + formatHeight(r.Height) + " m)"
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatHeight(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ExportWebMapToFile renders the page and writes it to path.
func ExportWebMapToFile(ctx context.Context, path string, boundaries *geo.Boundaries, records []building.Record, config *WebMapConfig) error {
	var buf bytes.Buffer
	if err := NewWebMapBuilder(config).Render(ctx, &buf, boundaries, records); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return serrors.IOWrap(err, serrors.ErrIOWriteFailed, "failed to write web map").
			WithContext(serrors.ContextPath, path)
	}
	return nil
}
