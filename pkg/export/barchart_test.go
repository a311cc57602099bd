package export

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/building"
	serrors "github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/errors"
)

// yearView is the fixture ordered by completion year.
func yearView() []building.Record {
	r := fixtureRecords()
	return []building.Record{r[2], r[1], r[0]}
}

func TestBarChartBuilder_Build(t *testing.T) {
	chart, err := NewBarChartBuilder(nil).Build(yearView())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if chart.Plot.Title.Text != "High Buildings" {
		t.Errorf("unexpected title %q", chart.Plot.Title.Text)
	}
	if len(chart.Bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(chart.Bars))
	}

	wantColors := []string{"gray", "red", "green"} // France, China, UAE
	for i, bar := range chart.Bars {
		if bar.XMin != float64(i) {
			t.Errorf("bar %d: XMin = %v", i, bar.XMin)
		}
		if bar.Color != NamedColors[wantColors[i]] {
			t.Errorf("bar %d: color %v, want %s", i, bar.Color, wantColors[i])
		}
	}
	if chart.Bars[0].Values[0] != 300 {
		t.Errorf("expected first bar to be 300 m, got %v", chart.Bars[0].Values[0])
	}
}

func TestBarChartBuilder_ReferenceLine(t *testing.T) {
	chart, err := NewBarChartBuilder(nil).Build(yearView())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	line := chart.Reference
	if line == nil {
		t.Fatal("expected a reference line")
	}
	for _, xy := range line.XYs {
		if xy.Y != 300 {
			t.Errorf("reference line point at y=%v, want 300", xy.Y)
		}
	}
	if line.LineStyle.Color != color.Color(NamedColors["red"]) {
		t.Errorf("expected red reference line, got %v", line.LineStyle.Color)
	}
	if len(line.LineStyle.Dashes) == 0 {
		t.Error("expected a dashed reference line")
	}
}

func TestBarChartBuilder_NoReference(t *testing.T) {
	cfg := DefaultBarChartConfig()
	cfg.ReferenceHeight = 0

	chart, err := NewBarChartBuilder(cfg).Build(yearView())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if chart.Reference != nil {
		t.Error("expected no reference line")
	}
}

func TestBarChartBuilder_BadColor(t *testing.T) {
	cfg := DefaultBarChartConfig()
	cfg.Colors = CountryColors{Colors: map[string]string{"France": "not-a-color"}, Fallback: "gray"}

	_, err := NewBarChartBuilder(cfg).Build(yearView())
	if !serrors.IsCode(err, serrors.ErrIORenderFailed) {
		t.Fatalf("expected %s, got %v", serrors.ErrIORenderFailed, err)
	}
}

func TestExportBarChartToFile(t *testing.T) {
	cfg := DefaultBarChartConfig()
	cfg.Width, cfg.Height = cfg.Width/10, cfg.Height/10

	path := filepath.Join(t.TempDir(), "building_heights.png")
	if err := ExportBarChartToFile(path, yearView(), cfg); err != nil {
		t.Fatalf("ExportBarChartToFile() error = %v", err)
	}
	fileHasPrefix(t, path, "\x89PNG")
}

func TestExportBarChartToFile_Unwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "chart.png")
	err := ExportBarChartToFile(path, yearView(), nil)
	if !serrors.IsCode(err, serrors.ErrIOWriteFailed) {
		t.Fatalf("expected %s, got %v", serrors.ErrIOWriteFailed, err)
	}
}

func TestBarChartBuilder_Empty(t *testing.T) {
	chart, err := NewBarChartBuilder(nil).Build(nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(chart.Bars) != 0 {
		t.Errorf("expected no bars, got %d", len(chart.Bars))
	}
	if chart.Reference == nil {
		t.Error("expected the reference line on an empty chart")
	}

	path := filepath.Join(t.TempDir(), "building_heights.png")
	if err := ExportBarChartToFile(path, nil, nil); err != nil {
		t.Fatalf("ExportBarChartToFile() error = %v", err)
	}
	fileHasPrefix(t, path, "\x89PNG")
}
