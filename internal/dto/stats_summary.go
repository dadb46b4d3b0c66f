package dto

// StatsSummary mirrors the aggregate counters served by /api/stats.
// The breakdown and TotalDetections are independent counters and may disagree.
type StatsSummary struct {
	TotalProcessedImages     int            `json:"total_processed_images"`
	TotalDetections          int            `json:"total_detections"`
	DetectionBreakdown       map[string]int `json:"detection_breakdown"`
	ProcessingTimeAvgSeconds float64        `json:"processing_time_avg"`
}
