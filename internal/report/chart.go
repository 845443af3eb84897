package report

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/healthlens/healthlens/pkg/models"
)

// ChartConfig holds rendering parameters for the metric chart grid.
type ChartConfig struct {
	PanelWidth  int // width of each panel in pixels
	PanelHeight int // height of each panel in pixels
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		PanelWidth:  500,
		PanelHeight: 300,
	}
}

// Panel colors: default blue for steps, then red, green and purple
// matching the other metrics.
var (
	colorSteps    = chart.ColorBlue
	colorHeart    = chart.ColorRed
	colorCalories = chart.ColorGreen
	colorSleep    = drawing.Color{R: 128, G: 0, B: 128, A: 255}
)

// RenderCharts draws the four metric panels (steps, heart rate, calories,
// sleep) from the full dataset and composes them into a single 2x2 PNG.
// Styling is fixed, so identical input produces an identical layout.
func RenderCharts(ds models.Dataset, cfg ChartConfig) ([]byte, error) {
	if cfg.PanelWidth <= 0 || cfg.PanelHeight <= 0 {
		cfg = DefaultChartConfig()
	}

	// A valid header-only upload has no rows to plot; emit a blank grid
	// instead of failing the whole run.
	if len(ds) == 0 {
		return composeGrid(nil, cfg)
	}

	dates := ds.Dates()
	panels := []struct {
		title  string
		values []float64
		color  drawing.Color
	}{
		{"Steps Over Time", ds.StepSeries(), colorSteps},
		{"Heart Rate Over Time", ds.HeartRateSeries(), colorHeart},
		{"Calories Burned Over Time", ds.CalorieSeries(), colorCalories},
		{"Sleep Duration Over Time", ds.SleepSeries(), colorSleep},
	}

	images := make([]image.Image, 0, len(panels))
	for _, p := range panels {
		img, err := renderPanel(p.title, dates, p.values, p.color, cfg)
		if err != nil {
			return nil, fmt.Errorf("rendering %q: %w", p.title, err)
		}
		images = append(images, img)
	}

	return composeGrid(images, cfg)
}

// renderPanel draws one line-with-markers panel with rotated date labels.
func renderPanel(title string, labels []string, values []float64, color drawing.Color, cfg ChartConfig) (image.Image, error) {
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}

	ticks := make([]chart.Tick, len(labels))
	for i, label := range labels {
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}

	// go-chart needs at least two X values to establish a range.
	if len(xs) == 1 {
		xs = append(xs, 1)
		values = append(values, values[0])
		ticks = append(ticks, chart.Tick{Value: 1, Label: labels[0]})
	}

	ch := chart.Chart{
		Title:  title,
		Width:  cfg.PanelWidth,
		Height: cfg.PanelHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 30, Left: 12, Right: 12, Bottom: 40},
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
			TickStyle: chart.Style{
				TextRotationDegrees: 45,
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: values,
				Style: chart.Style{
					StrokeColor: color,
					StrokeWidth: 2,
					DotColor:    color,
					DotWidth:    4,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// composeGrid stitches four equally-sized panels into a 2x2 PNG.
func composeGrid(panels []image.Image, cfg ChartConfig) ([]byte, error) {
	w, h := cfg.PanelWidth, cfg.PanelHeight
	grid := image.NewRGBA(image.Rect(0, 0, 2*w, 2*h))
	draw.Draw(grid, grid.Bounds(), image.White, image.Point{}, draw.Src)

	offsets := []image.Point{
		{0, 0},
		{w, 0},
		{0, h},
		{w, h},
	}
	for i, panel := range panels {
		r := image.Rect(offsets[i].X, offsets[i].Y, offsets[i].X+w, offsets[i].Y+h)
		draw.Draw(grid, r, panel, panel.Bounds().Min, draw.Over)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, grid); err != nil {
		return nil, fmt.Errorf("encoding chart grid: %w", err)
	}
	return buf.Bytes(), nil
}
