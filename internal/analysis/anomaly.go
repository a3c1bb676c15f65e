package analysis

import (
	"math"

	"auditlens/pkg/contracts/domain"
)

// anomalyNote is the fixed text emitted when trailing revenue breaks the
// two-sigma band.
const anomalyNote = "Revenue is more than two standard deviations from its 3-period mean"

// anomalyWindow is the number of trailing periods examined.
const anomalyWindow = 3

// DetectAnomalies flags statistical outliers in trailing revenue. With fewer
// than three periods it reports nothing. Otherwise it takes the last three
// revenues (missing treated as 0), computes the population standard
// deviation over exactly those values, and emits a note when the most recent
// value sits more than two deviations from the window mean.
//
// A zero deviation never triggers, so three identical values are always
// quiet.
func DetectAnomalies(periods []domain.PeriodDatum) domain.AnomalySummary {
	summary := domain.AnomalySummary{Notes: []string{}}
	if len(periods) < anomalyWindow {
		return summary
	}

	window := periods[len(periods)-anomalyWindow:]
	revenues := make([]float64, 0, anomalyWindow)
	for _, p := range window {
		revenues = append(revenues, valueOrZero(p.Revenue))
	}

	mean := average(revenues)
	std := populationStdDev(revenues, mean)
	last := revenues[len(revenues)-1]

	if std > 0 && math.Abs(last-mean) > 2*std {
		summary.Notes = append(summary.Notes, anomalyNote)
	}
	return summary
}

// populationStdDev divides by N, not N-1. The window is the whole population
// under test, not a sample of it.
func populationStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
