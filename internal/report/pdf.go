package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/healthlens/healthlens/pkg/models"
	"github.com/healthlens/healthlens/pkg/utils"
)

// Table and heading colors.
var (
	colorTableHeader = [3]int{128, 128, 128} // grey header fill
	colorTableBody   = [3]int{245, 245, 220} // beige body fill
	colorHeaderText  = [3]int{255, 255, 255}
	colorBodyText    = [3]int{0, 0, 0}
	colorGrid        = [3]int{0, 0, 0}
)

// Relative column widths for the anomaly table, in canonical column order.
var tableColWidths = []float64{0.18, 0.14, 0.23, 0.22, 0.23}

// PDFConfig holds document layout settings.
type PDFConfig struct {
	PageSize string // "Letter" or "A4"
	Author   string // document metadata author
}

// DefaultPDFConfig returns sensible defaults for PDF assembly.
func DefaultPDFConfig() PDFConfig {
	return PDFConfig{
		PageSize: "Letter",
		Author:   "HealthLens",
	}
}

// BuildPDF assembles the health report document: title, section headings,
// the anomaly table, bulleted recommendations and the chart image, in that
// order. It returns the complete document bytes. Layout failures surface
// unmodified; there are no retries.
func BuildPDF(name string, age int, subset []models.MetricRecord, advisories []string, chartPNG []byte, cfg PDFConfig) ([]byte, error) {
	if cfg.PageSize == "" {
		cfg = DefaultPDFConfig()
	}

	pdf := fpdf.New("P", "mm", cfg.PageSize, "")
	pdf.SetTitle("Health Report", false)
	pdf.SetAuthor(cfg.Author, false)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	writeTitle(pdf, name, age)
	writeHeading(pdf, "Data Summary:", 14)
	writeHeading(pdf, "Anomalies Detected:", 12)
	writeAnomalyTable(pdf, subset)
	writeHeading(pdf, "Recommendations:", 14)
	writeRecommendations(pdf, advisories)

	if err := writeChart(pdf, chartPNG); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTitle(pdf *fpdf.Fpdf, name string, age int) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(colorBodyText[0], colorBodyText[1], colorBodyText[2])
	pdf.CellFormat(0, 12, fmt.Sprintf("Health Report for %s, Age: %d", name, age),
		"", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func writeHeading(pdf *fpdf.Fpdf, text string, size float64) {
	pdf.SetFont("Helvetica", "B", size)
	pdf.SetTextColor(colorBodyText[0], colorBodyText[1], colorBodyText[2])
	pdf.CellFormat(0, 9, text, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

// writeAnomalyTable renders the header row plus one body row per flagged
// record, in subset order. The header row is always present, even when no
// rows were flagged.
func writeAnomalyTable(pdf *fpdf.Fpdf, subset []models.MetricRecord) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	widths := make([]float64, len(tableColWidths))
	for i, frac := range tableColWidths {
		widths[i] = usable * frac
	}

	pdf.SetDrawColor(colorGrid[0], colorGrid[1], colorGrid[2])
	pdf.SetLineWidth(0.3)

	// Header row
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(colorTableHeader[0], colorTableHeader[1], colorTableHeader[2])
	pdf.SetTextColor(colorHeaderText[0], colorHeaderText[1], colorHeaderText[2])
	for i, col := range models.RequiredColumns() {
		pdf.CellFormat(widths[i], 8, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// Body rows
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetFillColor(colorTableBody[0], colorTableBody[1], colorTableBody[2])
	pdf.SetTextColor(colorBodyText[0], colorBodyText[1], colorBodyText[2])
	for _, rec := range subset {
		cells := []string{
			rec.Date,
			strconv.Itoa(rec.Steps),
			utils.FormatMetric(rec.HeartRate),
			utils.FormatMetric(rec.Calories),
			utils.FormatMetric(rec.SleepHours),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
}

func writeRecommendations(pdf *fpdf.Fpdf, advisories []string) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(colorBodyText[0], colorBodyText[1], colorBodyText[2])
	for _, adv := range advisories {
		pdf.MultiCell(0, 6, "- "+adv, "", "L", false)
	}
	pdf.Ln(4)
}

func writeChart(pdf *fpdf.Fpdf, chartPNG []byte) error {
	if len(chartPNG) == 0 {
		return fmt.Errorf("chart image is empty")
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("metrics-chart", opts, bytes.NewReader(chartPNG))
	if pdf.Err() {
		return fmt.Errorf("embedding chart image: %w", pdf.Error())
	}

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	// Full usable width, height scaled to preserve aspect ratio.
	pdf.ImageOptions("metrics-chart", left, pdf.GetY(), usable, 0, true, opts, 0, "")
	if pdf.Err() {
		return fmt.Errorf("placing chart image: %w", pdf.Error())
	}
	return nil
}
