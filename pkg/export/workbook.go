package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/building"
	serrors "github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/errors"
)

// workbookColumns are the record fields written to columns A to G.
var workbookColumns = []string{
	building.ColumnName,
	building.ColumnHeight,
	building.ColumnYear,
	building.ColumnCity,
	building.ColumnCountry,
	building.ColumnLat,
	building.ColumnLon,
}

// WorkbookConfig specifies the sorted spreadsheet.
type WorkbookConfig struct {
	SheetName string

	// Derived columns follow the record columns, starting at H.
	Derived []DerivedColumn

	// ColorScale holds the min, mid and max colors of the height gradient.
	ColorScale [3]string

	ChartTitle string
	YAxisTitle string
	SeriesName string

	// SeriesBorder is the RGB outline color of the chart bars; the fill
	// stays the workbook theme color.
	SeriesBorder      string
	SeriesBorderWidth float64 // points

	// ChartAnchor is the top-left cell of the chart, offset by ChartOffsetX/Y pixels.
	ChartAnchor  string
	ChartOffsetX int
	ChartOffsetY int
}

// DefaultWorkbookConfig returns the layout of Buildings_Sorted.xlsx.
func DefaultWorkbookConfig() *WorkbookConfig {
	return &WorkbookConfig{
		SheetName:    "Buildings",
		Derived:      []DerivedColumn{PercentOfReference(300, "Eiffel Tower")},
		ColorScale:   [3]string{"#F8696B", "#FFEB84", "#63BE7B"},
		ChartTitle:   "Building Heights",
		YAxisTitle:   "Height (m)",
		SeriesName:   "Buildings",
		SeriesBorder: "0000FF",
		ChartAnchor:  "P5",
		ChartOffsetX: 25,
		ChartOffsetY: 10,

		SeriesBorderWidth: 0.75,
	}
}

// WorkbookBuilder writes records into an excelize workbook.
type WorkbookBuilder struct {
	config *WorkbookConfig
}

// NewWorkbookBuilder creates a builder. A nil config uses DefaultWorkbookConfig.
func NewWorkbookBuilder(config *WorkbookConfig) *WorkbookBuilder {
	if config == nil {
		config = DefaultWorkbookConfig()
	}
	return &WorkbookBuilder{config: config}
}

// Build creates the workbook: one row per record in the given order, the
// color scale over the populated height cells, the derived formula columns
// and the column chart. The caller owns the returned file.
func (wb *WorkbookBuilder) Build(records []building.Record) (*excelize.File, error) {
	cfg := wb.config
	f := excelize.NewFile()

	if err := wb.build(f, records); err != nil {
		f.Close()
		return nil, serrors.IOWrap(err, serrors.ErrIORenderFailed, "failed to build workbook").
			WithContext("sheet", cfg.SheetName)
	}
	return f, nil
}

func (wb *WorkbookBuilder) build(f *excelize.File, records []building.Record) error {
	cfg := wb.config
	sheet := cfg.SheetName

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	header := make([]interface{}, 0, len(workbookColumns)+len(cfg.Derived))
	for _, c := range workbookColumns {
		header = append(header, c)
	}
	for _, d := range cfg.Derived {
		header = append(header, d.Header)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range records {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []interface{}{r.Name, r.Height, r.CompletionYear, r.City, r.Country, r.Lat, r.Lon}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		for j, d := range cfg.Derived {
			cell, _ := excelize.CoordinatesToCellName(len(workbookColumns)+1+j, row)
			if d.Formula == nil {
				if err := f.SetCellValue(sheet, cell, d.Value(r)); err != nil {
					return err
				}
				continue
			}
			if err := f.SetCellFormula(sheet, cell, d.Formula(row)); err != nil {
				return err
			}
		}
	}

	lastRow := len(records) + 1
	for j, d := range cfg.Derived {
		col, _ := excelize.ColumnNumberToName(len(workbookColumns) + 1 + j)
		if err := wb.formatDerived(f, col, d, lastRow); err != nil {
			return fmt.Errorf("format column %s: %w", col, err)
		}
	}

	if len(records) == 0 {
		return nil
	}
	if err := wb.addColorScale(f, lastRow); err != nil {
		return fmt.Errorf("color scale: %w", err)
	}
	if err := wb.addChart(f, lastRow); err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	if cfg.SeriesBorder != "" {
		setSeriesBorder(f, cfg.SeriesBorder, cfg.SeriesBorderWidth)
	}
	return nil
}

func (wb *WorkbookBuilder) formatDerived(f *excelize.File, col string, d DerivedColumn, lastRow int) error {
	sheet := wb.config.SheetName
	numFmt := d.NumFmt
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}
	if d.Width > 0 {
		if err := f.SetColWidth(sheet, col, col, d.Width); err != nil {
			return err
		}
	}
	if err := f.SetColStyle(sheet, col, style); err != nil {
		return err
	}
	if lastRow < 2 {
		return nil
	}
	return f.SetCellStyle(sheet, fmt.Sprintf("%s2", col), fmt.Sprintf("%s%d", col, lastRow), style)
}

// addColorScale applies the three-color gradient to the populated height
// cells only.
func (wb *WorkbookBuilder) addColorScale(f *excelize.File, lastRow int) error {
	cfg := wb.config
	return f.SetConditionalFormat(cfg.SheetName, fmt.Sprintf("B2:B%d", lastRow),
		[]excelize.ConditionalFormatOptions{{
			Type:     "3_color_scale",
			Criteria: "=",
			MinType:  "min",
			MidType:  "percentile",
			MidValue: "50",
			MaxType:  "max",
			MinColor: cfg.ColorScale[0],
			MidColor: cfg.ColorScale[1],
			MaxColor: cfg.ColorScale[2],
		}})
}

func (wb *WorkbookBuilder) addChart(f *excelize.File, lastRow int) error {
	cfg := wb.config
	return f.AddChart(cfg.SheetName, cfg.ChartAnchor, &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       cfg.SeriesName,
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", cfg.SheetName, lastRow),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", cfg.SheetName, lastRow),
		}},
		Title: []excelize.RichTextRun{{Text: cfg.ChartTitle}},
		YAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: cfg.YAxisTitle}}},
		Format: excelize.GraphicOptions{
			OffsetX: cfg.ChartOffsetX,
			OffsetY: cfg.ChartOffsetY,
		},
	})
}

// excelize styles series fills but not their outlines, so the outline is
// written into the stored chart parts after AddChart.
var (
	chartSeriesPattern = regexp.MustCompile(`(?s)<c:ser>.*?</c:ser>`)
	shapeLinePattern   = regexp.MustCompile(`(?s)<a:ln\b[^>]*?(?:/>|>.*?</a:ln>)`)
)

const (
	spPrOpen  = "<c:spPr>"
	spPrClose = "</c:spPr>"
	emuPerPt  = 12700
)

// setSeriesBorder gives every series of every chart in f a solid outline.
func setSeriesBorder(f *excelize.File, rgb string, widthPt float64) {
	ln := []byte(fmt.Sprintf(`<a:ln w="%d"><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:ln>`,
		int(widthPt*emuPerPt), strings.ToUpper(strings.TrimPrefix(rgb, "#"))))

	f.Pkg.Range(func(key, value any) bool {
		name, _ := key.(string)
		data, ok := value.([]byte)
		if !ok || !strings.HasPrefix(name, "xl/charts/chart") {
			return true
		}
		f.Pkg.Store(name, chartSeriesPattern.ReplaceAllFunc(data, func(ser []byte) []byte {
			return withSeriesLine(ser, ln)
		}))
		return true
	})
}

// withSeriesLine puts ln into the series shape properties, the spPr that
// comes before a c:ser's data points, labels and values, replacing any
// outline already there. The outline goes after the fill and before any
// effects, as the drawing schema orders them.
func withSeriesLine(ser, ln []byte) []byte {
	limit := bytes.Index(ser, []byte("</c:ser>"))
	if limit < 0 {
		return ser
	}
	for _, tag := range seriesTailTags {
		if i := bytes.Index(ser, []byte(tag)); i >= 0 && i < limit {
			limit = i
		}
	}
	start := bytes.Index(ser[:limit], []byte(spPrOpen))
	if start < 0 {
		return join(ser[:limit], []byte(spPrOpen), ln, []byte(spPrClose), ser[limit:])
	}
	bodyStart := start + len(spPrOpen)
	end := bytes.Index(ser[bodyStart:], []byte(spPrClose))
	if end < 0 {
		return ser
	}
	end += bodyStart
	body := ser[bodyStart:end]

	if loc := shapeLinePattern.FindIndex(body); loc != nil {
		body = join(body[:loc[0]], ln, body[loc[1]:])
	} else {
		at := len(body)
		for _, tag := range []string{"<a:effectLst", "<a:effectDag", "<a:scene3d", "<a:sp3d", "<a:extLst"} {
			if i := bytes.Index(body, []byte(tag)); i >= 0 && i < at {
				at = i
			}
		}
		body = join(body[:at], ln, body[at:])
	}
	return join(ser[:bodyStart], body, ser[end:])
}

// seriesTailTags are the c:ser children that follow its shape properties.
var seriesTailTags = []string{
	"<c:dPt", "<c:dLbls", "<c:trendline", "<c:errBars", "<c:marker", "<c:invertIfNegative",
	"<c:cat", "<c:val", "<c:xVal", "<c:yVal", "<c:smooth", "<c:bubbleSize", "<c:bubble3D", "<c:extLst",
}

func join(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// ExportWorkbookToFile builds the workbook and saves it to path, replacing
// any existing file.
func ExportWorkbookToFile(path string, records []building.Record, config *WorkbookConfig) error {
	f, err := NewWorkbookBuilder(config).Build(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return serrors.IOWrap(err, serrors.ErrIOWriteFailed, "failed to write workbook").
			WithContext(serrors.ContextPath, path)
	}
	return nil
}
