package report

import (
	"bytes"
	"fmt"
	"image/png"
	"testing"

	"github.com/healthlens/healthlens/pkg/models"
)

// ── Test Helpers ──

func sampleDataset(n int) models.Dataset {
	ds := make(models.Dataset, n)
	for i := range ds {
		ds[i] = models.MetricRecord{
			Date:       fmt.Sprintf("2024-01-%02d", i+1),
			Steps:      6000 + i*250,
			HeartRate:  65 + float64(i%10),
			Calories:   2000 + float64(i*30),
			SleepHours: 6.5 + float64(i%3)*0.5,
		}
	}
	return ds
}

func anomalousDataset() models.Dataset {
	ds := sampleDataset(5)
	ds[1].Steps = 500      // low steps
	ds[3].HeartRate = 112  // high heart rate
	ds[4].SleepHours = 4.0 // low sleep
	return ds
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// ── Chart rendering ──

func TestRenderCharts(t *testing.T) {
	data, err := RenderCharts(sampleDataset(7), DefaultChartConfig())
	if err != nil {
		t.Fatalf("RenderCharts: %v", err)
	}
	if !bytes.HasPrefix(data, pngSignature) {
		t.Fatal("chart output does not start with the PNG signature")
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding chart PNG: %v", err)
	}

	cfg := DefaultChartConfig()
	bounds := img.Bounds()
	if bounds.Dx() != 2*cfg.PanelWidth || bounds.Dy() != 2*cfg.PanelHeight {
		t.Errorf("grid size: got %dx%d, want %dx%d",
			bounds.Dx(), bounds.Dy(), 2*cfg.PanelWidth, 2*cfg.PanelHeight)
	}
}

func TestRenderChartsSingleRecord(t *testing.T) {
	data, err := RenderCharts(sampleDataset(1), DefaultChartConfig())
	if err != nil {
		t.Fatalf("RenderCharts with one record: %v", err)
	}
	if !bytes.HasPrefix(data, pngSignature) {
		t.Fatal("chart output does not start with the PNG signature")
	}
}

func TestRenderChartsZeroConfigUsesDefaults(t *testing.T) {
	data, err := RenderCharts(sampleDataset(3), ChartConfig{})
	if err != nil {
		t.Fatalf("RenderCharts: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding chart PNG: %v", err)
	}
	cfg := DefaultChartConfig()
	if img.Bounds().Dx() != 2*cfg.PanelWidth {
		t.Errorf("width: got %d, want %d", img.Bounds().Dx(), 2*cfg.PanelWidth)
	}
}

func TestRenderChartsEmptyDataset(t *testing.T) {
	data, err := RenderCharts(nil, DefaultChartConfig())
	if err != nil {
		t.Fatalf("RenderCharts with empty dataset: %v", err)
	}
	if !bytes.HasPrefix(data, pngSignature) {
		t.Fatal("blank grid is not a PNG")
	}
}

// ── PDF assembly ──

func TestBuildPDF(t *testing.T) {
	ds := anomalousDataset()
	chartPNG, err := RenderCharts(ds, DefaultChartConfig())
	if err != nil {
		t.Fatalf("RenderCharts: %v", err)
	}

	subset := []models.MetricRecord{ds[1], ds[3], ds[4]}
	advisories := []string{
		"Consider consulting a doctor about high heart rate readings.",
		"Increase daily steps to at least 1000 for better health.",
		"Ensure to get at least 5-7 hours of sleep daily.",
	}

	doc, err := BuildPDF("Asha", 34, subset, advisories, chartPNG, DefaultPDFConfig())
	if err != nil {
		t.Fatalf("BuildPDF: %v", err)
	}
	if len(doc) == 0 {
		t.Fatal("empty PDF output")
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Fatalf("PDF output does not start with %%PDF signature: %q", doc[:8])
	}
}

func TestBuildPDFEmptySubset(t *testing.T) {
	chartPNG, err := RenderCharts(sampleDataset(3), DefaultChartConfig())
	if err != nil {
		t.Fatalf("RenderCharts: %v", err)
	}

	doc, err := BuildPDF("Ravi", 28, nil,
		[]string{"No anomalies detected. Keep up the good work!"}, chartPNG, DefaultPDFConfig())
	if err != nil {
		t.Fatalf("BuildPDF: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Fatal("PDF output does not start with %PDF signature")
	}
}

func TestBuildPDFEmptyChart(t *testing.T) {
	if _, err := BuildPDF("X", 30, nil, []string{"ok"}, nil, DefaultPDFConfig()); err == nil {
		t.Fatal("expected error for empty chart image")
	}
}

// ── Full pipeline ──

func TestGenerate(t *testing.T) {
	res, err := Generate(Params{Name: "Asha", Age: 34, Dataset: anomalousDataset()}, DefaultConfig())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(res.Anomalies) != 3 {
		t.Errorf("anomalies: got %d, want 3", len(res.Anomalies))
	}
	if len(res.Advisories) != 3 {
		t.Errorf("advisories: got %d, want 3", len(res.Advisories))
	}
	if !bytes.HasPrefix(res.ChartPNG, pngSignature) {
		t.Error("chart is not a PNG")
	}
	if !bytes.HasPrefix(res.PDF, []byte("%PDF")) {
		t.Error("document is not a PDF")
	}
}

func TestGenerateCleanDataset(t *testing.T) {
	res, err := Generate(Params{Name: "Ravi", Age: 28, Dataset: sampleDataset(4)}, DefaultConfig())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(res.Anomalies) != 0 {
		t.Errorf("anomalies on clean data: got %v", res.Anomalies)
	}
	want := "No anomalies detected. Keep up the good work!"
	if len(res.Advisories) != 1 || res.Advisories[0] != want {
		t.Errorf("advisories: got %v, want [%q]", res.Advisories, want)
	}
}

func TestGenerateDeterministicStructure(t *testing.T) {
	// Re-running on identical input must reproduce the same anomaly and
	// advisory counts. Byte-identity is not required.
	p := Params{Name: "Asha", Age: 34, Dataset: anomalousDataset()}

	first, err := Generate(p, DefaultConfig())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Generate(p, DefaultConfig())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(first.Anomalies) != len(second.Anomalies) {
		t.Errorf("anomaly counts differ: %d vs %d", len(first.Anomalies), len(second.Anomalies))
	}
	if len(first.Advisories) != len(second.Advisories) {
		t.Errorf("advisory counts differ: %d vs %d", len(first.Advisories), len(second.Advisories))
	}
}
