package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/config"
	serrors "github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/errors"
	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/export"
)

const runCSV = "Rank,Name,Height (m),Completion Year,Country,City,Lat,Lon\n" +
	"1,Burj Khalifa,828,2010,United Arab Emirates,Dubai,25.1972,55.2744\n" +
	"2,Eiffel Tower,300,1889,France,Paris,48.8584,2.2945\n" +
	"3,Jin Mao Tower,600,1998,China,Shanghai,31.2376,121.5012\n" +
	"4,Shanghai Tower,632,2015,China,Shanghai,31.2335,121.5056\n"

const runWorld = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "properties": {"NAME": "World"},
   "geometry": {"type": "Polygon", "coordinates": [[[-170,-60],[170,-60],[170,75],[-170,75],[-170,-60]]]}}
]}`

// testConfig writes the fixtures and points a default config at them.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Input.CSV = filepath.Join(dir, "tallest_buildings_in_the_world.csv")
	cfg.Input.Boundaries = filepath.Join(dir, "ne_50m_admin_0_countries.geojson")
	cfg.Output.Dir = filepath.Join(dir, "out")

	if err := os.WriteFile(cfg.Input.CSV, []byte(runCSV), 0644); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	if err := os.WriteFile(cfg.Input.Boundaries, []byte(runWorld), 0644); err != nil {
		t.Fatalf("failed to write boundaries: %v", err)
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		t.Fatalf("failed to create output dir: %v", err)
	}
	return cfg
}

func TestRun_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	var stdout bytes.Buffer

	state, err := New(cfg, Options{Stdout: &stdout, Version: "test"}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := cfg.Output
	for _, name := range []string{out.Workbook, out.BarChart, out.MapImage, out.WebMap, out.PDF, out.Manifest} {
		if info, err := os.Stat(out.Path(name)); err != nil || info.Size() == 0 {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}

	// Views keep every row; the year view is capped by year_view_size.
	if len(state.ByHeight) != 4 || state.ByHeight[0].Name != "Burj Khalifa" || state.ByHeight[3].Name != "Eiffel Tower" {
		t.Errorf("unexpected height view %v", state.ByHeight)
	}
	if len(state.ByYear) != 4 || state.ByYear[0].CompletionYear != 1889 {
		t.Errorf("unexpected year view %v", state.ByYear)
	}

	console := stdout.String()
	if !strings.Contains(console, `"Completion Year"`) {
		t.Error("expected the column list in the console preview")
	}
	// Jin Mao and Shanghai Tower are about 0.6 km apart.
	for _, want := range []string{
		"Burj Khalifa -- 0 buildings nearby",
		"Shanghai Tower -- 1 buildings nearby",
		"Jin Mao Tower -- 1 buildings nearby",
		"Eiffel Tower -- 0 buildings nearby",
	} {
		if !strings.Contains(console, want) {
			t.Errorf("expected console to contain %q:\n%s", want, console)
		}
	}

	m, err := export.ReadManifest(out.Path(out.Manifest))
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if m.RunID != state.RunID {
		t.Errorf("manifest run id %q, state run id %q", m.RunID, state.RunID)
	}
	if m.InputRows != 4 || len(m.Outputs) != 5 {
		t.Errorf("unexpected manifest %+v", m)
	}
}

func TestRun_Reproducible(t *testing.T) {
	cfg := testConfig(t)
	first, err := New(cfg, Options{Stdout: &bytes.Buffer{}}).Run(context.Background())
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	a, err := export.ReadManifest(cfg.Output.Path(cfg.Output.Manifest))
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}

	second, err := New(cfg, Options{Stdout: &bytes.Buffer{}}).Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	b, err := export.ReadManifest(cfg.Output.Path(cfg.Output.Manifest))
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}

	if first.RunID == second.RunID {
		t.Error("expected a new run id per run")
	}
	if !a.SameResults(b) || a.InputDigest != b.InputDigest {
		t.Error("expected identical digests across runs")
	}
}

func TestRun_MissingBoundariesStopsBeforePDF(t *testing.T) {
	cfg := testConfig(t)
	os.Remove(cfg.Input.Boundaries)

	_, err := New(cfg, Options{Stdout: &bytes.Buffer{}}).Run(context.Background())
	if !serrors.IsCode(err, serrors.ErrDataBoundaryNotFound) {
		t.Fatalf("expected %s, got %v", serrors.ErrDataBoundaryNotFound, err)
	}
	se, _ := serrors.AsSkylineError(err)
	if se.Context["stage"] != StageMapImage {
		t.Errorf("expected failing stage %q, got %v", StageMapImage, se.Context)
	}

	out := cfg.Output
	if _, err := os.Stat(out.Path(out.Workbook)); err != nil {
		t.Error("expected earlier outputs to remain")
	}
	if _, err := os.Stat(out.Path(out.PDF)); !os.IsNotExist(err) {
		t.Error("expected later stages not to run")
	}
}

func TestRun_EmptyViews(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		adjust func(*config.Config)
	}{
		{
			name: "header only",
			csv:  "Name,Height (m),Completion Year,City,Country,Lat,Lon\n",
		},
		{
			name:   "year view size zero",
			csv:    runCSV,
			adjust: func(c *config.Config) { c.Report.YearViewSize = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			if err := os.WriteFile(cfg.Input.CSV, []byte(tt.csv), 0644); err != nil {
				t.Fatalf("failed to write csv: %v", err)
			}
			if tt.adjust != nil {
				tt.adjust(cfg)
			}

			state, err := New(cfg, Options{Stdout: &bytes.Buffer{}}).Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(state.ByYear) != 0 {
				t.Errorf("expected an empty year view, got %d rows", len(state.ByYear))
			}
			out := cfg.Output
			for _, name := range []string{out.BarChart, out.PDF, out.Manifest} {
				if _, err := os.Stat(out.Path(name)); err != nil {
					t.Errorf("expected %s to be written: %v", name, err)
				}
			}
		})
	}
}

func TestRun_MissingInput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Input.CSV = filepath.Join(t.TempDir(), "missing.csv")

	_, err := New(cfg, Options{Stdout: &bytes.Buffer{}}).Run(context.Background())
	if !serrors.IsCode(err, serrors.ErrParseFileNotFound) {
		t.Fatalf("expected %s, got %v", serrors.ErrParseFileNotFound, err)
	}
}

func TestBarChartConfig_FromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Report.CountryColors = map[string]string{"France": "purple"}
	cfg.Report.ReferenceHeight = 324

	bc := barChartConfig(cfg)
	if bc.Colors.For("France") != "purple" || bc.Colors.For("China") != "gray" {
		t.Errorf("unexpected colors %+v", bc.Colors)
	}
	if bc.ReferenceHeight != 324 {
		t.Errorf("expected reference height 324, got %v", bc.ReferenceHeight)
	}
}
