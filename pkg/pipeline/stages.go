package pipeline

import (
	"context"
	"strconv"

	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/building"
	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/config"
	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/export"
	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/geo"
	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/logging"
	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/proximity"
)

// Stage names, also used as manifest output labels.
const (
	StageLoad      = "load"
	StageSort      = "sort"
	StageWorkbook  = "workbook"
	StageBarChart  = "bar_chart"
	StageMapImage  = "map_image"
	StageWebMap    = "web_map"
	StagePDF       = "pdf"
	StageProximity = "proximity"
	StageManifest  = "manifest"
)

// View names recorded in the manifest.
const (
	ViewByHeight = "by_height"
	ViewByYear   = "by_year"
)

// DefaultStages returns the full report run. The PDF stage embeds the two
// images, so it follows the chart and map stages.
func DefaultStages() []Stage {
	return []Stage{
		{Name: StageLoad, Run: loadStage},
		{Name: StageSort, Run: sortStage},
		{Name: StageWorkbook, Run: workbookStage},
		{Name: StageBarChart, Run: barChartStage},
		{Name: StageMapImage, Run: mapImageStage},
		{Name: StageWebMap, Run: webMapStage},
		{Name: StagePDF, Run: pdfStage},
		{Name: StageProximity, Run: proximityStage},
		{Name: StageManifest, Run: manifestStage},
	}
}

func loadStage(ctx context.Context, s *State) error {
	in := s.Config.Input
	enc, err := building.ParseEncoding(in.Encoding)
	if err != nil {
		return err
	}
	t, err := building.Load(in.CSV, enc)
	if err != nil {
		return err
	}
	s.Table = t
	s.Manifest.WithInput(in.CSV, t.Len())

	logging.FromContext(ctx).Info("table loaded", "path", in.CSV, "rows", t.Len(), "columns", len(t.Columns))
	return building.Preview(s.Stdout, t, s.Config.Report.PreviewRows)
}

func sortStage(_ context.Context, s *State) error {
	s.ByHeight = building.SortByHeightDescending(s.Table)
	s.ByYear = building.SortFirstNByYearAscending(s.Table, s.Config.Report.YearViewSize)
	s.Manifest.
		WithView(ViewByHeight, s.ByHeight).
		WithView(ViewByYear, s.ByYear)
	return nil
}

func workbookStage(_ context.Context, s *State) error {
	path := s.Config.Output.Path(s.Config.Output.Workbook)
	if err := export.ExportWorkbookToFile(path, s.ByHeight, workbookConfig(s.Config)); err != nil {
		return err
	}
	s.Manifest.WithOutput(StageWorkbook, path)
	return nil
}

func barChartStage(_ context.Context, s *State) error {
	path := s.Config.Output.Path(s.Config.Output.BarChart)
	if err := export.ExportBarChartToFile(path, s.ByYear, barChartConfig(s.Config)); err != nil {
		return err
	}
	s.Manifest.WithOutput(StageBarChart, path)
	return nil
}

func mapImageStage(ctx context.Context, s *State) error {
	b, err := geo.LoadBoundaries(s.Config.Input.Boundaries)
	if err != nil {
		return err
	}
	s.Boundaries = b
	logging.FromContext(ctx).Debug("boundaries loaded", "path", s.Config.Input.Boundaries, "layer", b.String())

	cfg := export.DefaultMapImageConfig()
	cfg.LabelCount = s.Config.Report.MapLabelCount

	path := s.Config.Output.Path(s.Config.Output.MapImage)
	if err := export.ExportMapImageToFile(path, b, s.ByHeight, cfg); err != nil {
		return err
	}
	s.Manifest.WithOutput(StageMapImage, path)
	return nil
}

func webMapStage(ctx context.Context, s *State) error {
	path := s.Config.Output.Path(s.Config.Output.WebMap)
	if err := export.ExportWebMapToFile(ctx, path, s.Boundaries, s.ByHeight, nil); err != nil {
		return err
	}
	s.Manifest.WithOutput(StageWebMap, path)
	return nil
}

func pdfStage(_ context.Context, s *State) error {
	out := s.Config.Output
	cfg := export.DefaultPDFReportConfig()
	cfg.RowLimit = s.Config.Report.PDFRowLimit
	cfg.CreatedAt = s.StartedAt

	path := out.Path(out.PDF)
	err := export.ExportPDFReportToFile(path, out.Path(out.BarChart), out.Path(out.MapImage), s.ByHeight, cfg)
	if err != nil {
		return err
	}
	s.Manifest.WithOutput(StagePDF, path)
	return nil
}

func proximityStage(_ context.Context, s *State) error {
	p := s.Config.Proximity
	scanner := &proximity.Scanner{ThresholdKm: p.ThresholdKm, KmPerDegree: p.KmPerDegree}

	s.Counts = scanner.Scan(s.ByHeight, building.Head(s.ByHeight, p.QueryCount))
	return proximity.Report(s.Stdout, s.Counts)
}

func manifestStage(ctx context.Context, s *State) error {
	cfg := s.Config
	s.Manifest.
		WithParameter("input.encoding", cfg.Input.Encoding).
		WithParameter("report.reference_height", formatFloat(cfg.Report.ReferenceHeight)).
		WithParameter("report.year_view_size", strconv.Itoa(cfg.Report.YearViewSize)).
		WithParameter("report.pdf_row_limit", strconv.Itoa(cfg.Report.PDFRowLimit)).
		WithParameter("report.map_label_count", strconv.Itoa(cfg.Report.MapLabelCount)).
		WithParameter("proximity.threshold_km", formatFloat(cfg.Proximity.ThresholdKm)).
		WithParameter("proximity.km_per_degree", formatFloat(cfg.Proximity.KmPerDegree)).
		WithParameter("proximity.query_count", strconv.Itoa(cfg.Proximity.QueryCount))

	m := s.Manifest.Build()
	path := cfg.Output.Path(cfg.Output.Manifest)
	if err := export.ExportManifestToFile(path, m); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("manifest written", "path", path,
		"input_digest", export.ShortDigest(m.InputDigest),
		"parameters_digest", export.ShortDigest(m.ParametersDigest))
	return nil
}

func workbookConfig(c *config.Config) *export.WorkbookConfig {
	cfg := export.DefaultWorkbookConfig()
	cfg.Derived = []export.DerivedColumn{
		export.PercentOfReference(c.Report.ReferenceHeight, c.Report.ReferenceLabel),
	}
	return cfg
}

func barChartConfig(c *config.Config) *export.BarChartConfig {
	cfg := export.DefaultBarChartConfig()
	cfg.Colors = export.CountryColors{
		Colors:   c.Report.CountryColors,
		Fallback: c.Report.FallbackColor,
	}
	cfg.ReferenceHeight = c.Report.ReferenceHeight
	cfg.ReferenceLabel = c.Report.ReferenceLabel
	return cfg
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
