// Package anomaly flags metric records that breach fixed health thresholds
// and derives advisory recommendations from which thresholds were breached.
package anomaly

import "github.com/healthlens/healthlens/pkg/models"

// Health thresholds. A record is anomalous when it breaches at least one.
const (
	MaxHeartRate  = 100.0 // bpm
	MinDailySteps = 1000
	MinSleepHours = 5.0
)

// FallbackAdvisory is returned when no record breaches any threshold.
const FallbackAdvisory = "No anomalies detected. Keep up the good work!"

// Rule pairs a threshold predicate with its advisory sentence.
type Rule struct {
	Name     string
	Breached func(models.MetricRecord) bool
	Advisory string
}

// Rules returns the threshold rules in evaluation and advisory order:
// heart rate, steps, sleep.
func Rules() []Rule {
	return []Rule{
		{
			Name:     "high_heart_rate",
			Breached: func(r models.MetricRecord) bool { return r.HeartRate > MaxHeartRate },
			Advisory: "Consider consulting a doctor about high heart rate readings.",
		},
		{
			Name:     "low_steps",
			Breached: func(r models.MetricRecord) bool { return r.Steps < MinDailySteps },
			Advisory: "Increase daily steps to at least 1000 for better health.",
		},
		{
			Name:     "low_sleep",
			Breached: func(r models.MetricRecord) bool { return r.SleepHours < MinSleepHours },
			Advisory: "Ensure to get at least 5-7 hours of sleep daily.",
		},
	}
}

// Detect returns the records breaching at least one rule, preserving
// dataset order. An empty dataset yields an empty result.
func Detect(ds models.Dataset) []models.MetricRecord {
	rules := Rules()

	var out []models.MetricRecord
	for _, rec := range ds {
		for _, rule := range rules {
			if rule.Breached(rec) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// Recommend maps an anomaly subset to advisory sentences. Each rule
// contributes its advisory at most once, when any record in the subset
// breaches it; advisories follow rule order. An empty subset yields
// exactly the fallback advisory.
func Recommend(subset []models.MetricRecord) []string {
	if len(subset) == 0 {
		return []string{FallbackAdvisory}
	}

	var advisories []string
	for _, rule := range Rules() {
		for _, rec := range subset {
			if rule.Breached(rec) {
				advisories = append(advisories, rule.Advisory)
				break
			}
		}
	}
	return advisories
}
