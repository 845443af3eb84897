// Package report renders the metric chart grid and assembles the final
// health report document.
//
// Generate runs the whole pipeline for one upload: threshold detection,
// recommendation mapping, chart rendering and PDF assembly, strictly in
// that order. Every run works on fresh buffers; nothing is cached or
// shared between runs.
package report

import (
	"fmt"

	"github.com/healthlens/healthlens/internal/anomaly"
	"github.com/healthlens/healthlens/pkg/models"
)

// Config controls report generation behaviour.
type Config struct {
	Chart ChartConfig
	PDF   PDFConfig
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Chart: DefaultChartConfig(),
		PDF:   DefaultPDFConfig(),
	}
}

// Params are the inputs for one pipeline run.
type Params struct {
	Name    string
	Age     int
	Dataset models.Dataset
}

// Result holds every artifact of a completed pipeline run.
type Result struct {
	Anomalies  []models.MetricRecord
	Advisories []string
	ChartPNG   []byte
	PDF        []byte
}

// Generate runs detection, recommendation, chart rendering and PDF
// assembly on the given dataset. The first failure aborts the run; there
// is no partial success.
func Generate(p Params, cfg Config) (*Result, error) {
	subset := anomaly.Detect(p.Dataset)
	advisories := anomaly.Recommend(subset)

	chartPNG, err := RenderCharts(p.Dataset, cfg.Chart)
	if err != nil {
		return nil, fmt.Errorf("rendering charts: %w", err)
	}

	doc, err := BuildPDF(p.Name, p.Age, subset, advisories, chartPNG, cfg.PDF)
	if err != nil {
		return nil, fmt.Errorf("assembling report: %w", err)
	}

	return &Result{
		Anomalies:  subset,
		Advisories: advisories,
		ChartPNG:   chartPNG,
		PDF:        doc,
	}, nil
}
