// Package models defines the core data structures used throughout HealthLens.
package models

// Canonical column headers expected in an uploaded activity CSV.
// Header matching is case- and text-exact.
const (
	ColumnDate      = "Date"
	ColumnSteps     = "Steps"
	ColumnHeartRate = "Heart Rate (bpm)"
	ColumnCalories  = "Calories Burned"
	ColumnSleep     = "Sleep Duration (hours)"
)

// RequiredColumns returns the five required CSV columns in canonical order.
func RequiredColumns() []string {
	return []string{ColumnDate, ColumnSteps, ColumnHeartRate, ColumnCalories, ColumnSleep}
}

// MetricRecord is one day of smartwatch activity data.
type MetricRecord struct {
	Date       string  `json:"date"`        // calendar date or date-like label, e.g., "2024-01-01"
	Steps      int     `json:"steps"`       // total step count, non-negative
	HeartRate  float64 `json:"heart_rate"`  // average heart rate in bpm
	Calories   float64 `json:"calories"`    // calories burned
	SleepHours float64 `json:"sleep_hours"` // sleep duration in hours
}

// Dataset is an ordered sequence of daily metric records. Order follows the
// uploaded file; dates are not required to be unique. A Dataset is built once
// per pipeline run and never mutated afterwards.
type Dataset []MetricRecord

// Dates returns the date labels in dataset order.
func (d Dataset) Dates() []string {
	out := make([]string, len(d))
	for i, rec := range d {
		out[i] = rec.Date
	}
	return out
}

// StepSeries returns the step counts as floats, for plotting.
func (d Dataset) StepSeries() []float64 {
	out := make([]float64, len(d))
	for i, rec := range d {
		out[i] = float64(rec.Steps)
	}
	return out
}

// HeartRateSeries returns the heart rate values in dataset order.
func (d Dataset) HeartRateSeries() []float64 {
	out := make([]float64, len(d))
	for i, rec := range d {
		out[i] = rec.HeartRate
	}
	return out
}

// CalorieSeries returns the calories-burned values in dataset order.
func (d Dataset) CalorieSeries() []float64 {
	out := make([]float64, len(d))
	for i, rec := range d {
		out[i] = rec.Calories
	}
	return out
}

// SleepSeries returns the sleep durations in dataset order.
func (d Dataset) SleepSeries() []float64 {
	out := make([]float64, len(d))
	for i, rec := range d {
		out[i] = rec.SleepHours
	}
	return out
}
