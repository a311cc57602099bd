package export

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/building"
	serrors "github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/errors"
)

// PDF page geometry in millimeters.
const (
	pdfImageX     = 10
	pdfImageY     = 20
	pdfImageWidth = 180
	pdfTitleWidth = 200
	pdfTitleLine  = 10
	pdfRowHeight  = 8
)

// PDFTableColumn is one column of the summary table.
type PDFTableColumn struct {
	Header string
	Width  float64 // mm
	Align  string  // fpdf alignment: "L", "C" or "R"
	Value  func(building.Record) string
}

// PDFReportConfig specifies the paginated summary document.
type PDFReportConfig struct {
	ChartTitle string
	MapTitle   string

	// TableTitle is a format string receiving the number of listed rows.
	TableTitle string
	Columns    []PDFTableColumn

	// RowLimit caps the table rows.
	RowLimit int

	FontFamily string
	Author     string

	// CreatedAt is stamped into the document info; zero means now.
	CreatedAt time.Time
}

// DefaultPDFReportConfig returns the layout of Building_Report.pdf.
func DefaultPDFReportConfig() *PDFReportConfig {
	return &PDFReportConfig{
		ChartTitle: "Building Heights Comparison",
		MapTitle:   "Map of Building Locations",
		TableTitle: "Top %d Tallest Buildings",
		Columns: []PDFTableColumn{
			{Header: "Name", Width: 50, Align: "L", Value: func(r building.Record) string { return r.Name }},
			{Header: "Height (m)", Width: 25, Align: "C", Value: func(r building.Record) string {
				return strconv.FormatFloat(r.Height, 'f', -1, 64)
			}},
			{Header: "Year Built", Width: 25, Align: "C", Value: func(r building.Record) string {
				return strconv.Itoa(r.CompletionYear)
			}},
			{Header: "City", Width: 35, Align: "L", Value: func(r building.Record) string { return r.City }},
			{Header: "Country", Width: 35, Align: "L", Value: func(r building.Record) string { return r.Country }},
		},
		RowLimit:   500,
		FontFamily: "Arial",
		Author:     "skyline",
	}
}

// PDFReportBuilder assembles the summary document with go-pdf/fpdf.
type PDFReportBuilder struct {
	config *PDFReportConfig
	pdf    *fpdf.Fpdf
	tr     func(string) string
}

// NewPDFReportBuilder creates a builder. A nil config uses DefaultPDFReportConfig.
func NewPDFReportBuilder(config *PDFReportConfig) *PDFReportBuilder {
	if config == nil {
		config = DefaultPDFReportConfig()
	}
	return &PDFReportBuilder{config: config}
}

// Build lays out the chart page, the map page and the table pages. Both
// images must already exist.
func (pb *PDFReportBuilder) Build(chartImage, mapImage string, records []building.Record) (*fpdf.Fpdf, error) {
	for _, img := range []struct{ kind, path string }{{"chart", chartImage}, {"map", mapImage}} {
		if _, err := os.Stat(img.path); err != nil {
			state := "not readable"
			if errors.Is(err, os.ErrNotExist) {
				state = "not found"
			}
			return nil, serrors.IOWrapf(err, serrors.ErrIOImageMissing, "%s image %s", img.kind, state).
				WithContext(serrors.ContextPath, img.path)
		}
	}

	cfg := pb.config
	pb.pdf = fpdf.New("P", "mm", "A4", "")
	pb.pdf.SetCatalogSort(true)
	pb.pdf.SetAuthor(cfg.Author, true)
	pb.pdf.SetTitle(cfg.ChartTitle, true)
	if !cfg.CreatedAt.IsZero() {
		pb.pdf.SetCreationDate(cfg.CreatedAt)
		pb.pdf.SetModificationDate(cfg.CreatedAt)
	}
	// Core fonts are cp1252; names with accents need translating.
	pb.tr = pb.pdf.UnicodeTranslatorFromDescriptor("")

	pb.imagePage(cfg.ChartTitle, chartImage)
	pb.imagePage(cfg.MapTitle, mapImage)
	pb.tablePages(building.Head(records, cfg.RowLimit))

	if err := pb.pdf.Error(); err != nil {
		return nil, serrors.IOWrap(err, serrors.ErrIORenderFailed, "failed to build PDF report")
	}
	return pb.pdf, nil
}

func (pb *PDFReportBuilder) imagePage(title, image string) {
	pdf := pb.pdf
	pdf.AddPage()
	pdf.SetFont(pb.config.FontFamily, "", 12)
	pdf.CellFormat(pdfTitleWidth, pdfTitleLine, pb.tr(title), "", 1, "C", false, 0, "")
	pdf.ImageOptions(image, pdfImageX, pdfImageY, pdfImageWidth, 0, false,
		fpdf.ImageOptions{ReadDpi: true}, 0, "")
}

func (pb *PDFReportBuilder) tablePages(rows []building.Record) {
	pdf := pb.pdf
	cfg := pb.config

	pdf.AddPage()
	pdf.SetFont(cfg.FontFamily, "B", 14)
	pdf.CellFormat(pdfTitleWidth, pdfTitleLine, fmt.Sprintf(cfg.TableTitle, len(rows)), "", 1, "C", false, 0, "")
	pdf.Ln(5)
	pb.tableHeader()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()

	pdf.SetFont(cfg.FontFamily, "", 10)
	for _, r := range rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-bottom {
			pdf.AddPage()
			pb.tableHeader()
			pdf.SetFont(cfg.FontFamily, "", 10)
		}
		for _, col := range cfg.Columns {
			text := pb.fit(pb.tr(col.Value(r)), col.Width)
			pdf.CellFormat(col.Width, pdfRowHeight, text, "1", 0, col.Align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func (pb *PDFReportBuilder) tableHeader() {
	pdf := pb.pdf
	pdf.SetFont(pb.config.FontFamily, "B", 10)
	for _, col := range pb.config.Columns {
		pdf.CellFormat(col.Width, pdfRowHeight, pb.tr(col.Header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
}

// fit shortens s with a trailing "..." until it fits in width mm.
func (pb *PDFReportBuilder) fit(s string, width float64) string {
	const pad = 2
	if pb.pdf.GetStringWidth(s) <= width-pad {
		return s
	}
	r := []byte(s) // translated text is single-byte cp1252
	for len(r) > 0 && pb.pdf.GetStringWidth(string(r)+"...") > width-pad {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// ExportPDFReportToFile builds the report and writes it to path.
func ExportPDFReportToFile(path, chartImage, mapImage string, records []building.Record, config *PDFReportConfig) error {
	pdf, err := NewPDFReportBuilder(config).Build(chartImage, mapImage, records)
	if err != nil {
		return err
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return serrors.IOWrap(err, serrors.ErrIOWriteFailed, "failed to write PDF report").
			WithContext(serrors.ContextPath, path)
	}
	return nil
}
