package ewaste

import (
	"github.com/shopspring/decimal"

	"trashify/internal/dto"
)

// BreakdownLine is a BreakdownEntry with its display name.
type BreakdownLine struct {
	BreakdownEntry
	DisplayName string `json:"displayName"`
}

// StatsReport is everything the statistics page shows.
type StatsReport struct {
	TotalProcessedImages int             `json:"totalProcessedImages"`
	TotalDetections      int             `json:"totalDetections"`
	CategoryCount        int             `json:"categoryCount"`
	AvgProcessingSeconds float64         `json:"avgProcessingSeconds"`
	AvgProcessingTime    string          `json:"avgProcessingTime"`
	Breakdown            []BreakdownLine `json:"breakdown"`
	Impact               ImpactMetrics   `json:"impact"`
	ImpactLines          []ImpactLine    `json:"impactLines"`
}

// Reporter builds StatsReports.
type Reporter struct {
	estimator *Estimator
}

// NewReporter returns a reporter that estimates impact with e.
func NewReporter(e *Estimator) *Reporter {
	return &Reporter{estimator: e}
}

// Report derives breakdown shares and impact from s. Impact is based on
// TotalDetections, not on the breakdown sum.
func (r *Reporter) Report(s dto.StatsSummary) StatsReport {
	entries := Aggregate(s.DetectionBreakdown, s.TotalDetections)
	lines := make([]BreakdownLine, len(entries))
	for i, e := range entries {
		lines[i] = BreakdownLine{BreakdownEntry: e, DisplayName: DisplayName(e.Category)}
	}

	impact := r.estimator.Estimate(s.TotalDetections)

	return StatsReport{
		TotalProcessedImages: s.TotalProcessedImages,
		TotalDetections:      s.TotalDetections,
		CategoryCount:        len(s.DetectionBreakdown),
		AvgProcessingSeconds: s.ProcessingTimeAvgSeconds,
		AvgProcessingTime:    decimal.NewFromFloat(s.ProcessingTimeAvgSeconds).StringFixed(2) + "s",
		Breakdown:            lines,
		Impact:               impact,
		ImpactLines:          impact.Lines(),
	}
}
