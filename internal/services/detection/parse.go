package detection

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"trashify/internal/dto"
)

// ErrMalformedInput is returned when a payload from the detection service
// breaks the data model: a detection without a numeric confidence, a
// confidence outside [0,1], an empty label or a negative counter.
var ErrMalformedInput = errors.New("malformed detection payload")

type wireDetection struct {
	Class                *string   `json:"class"`
	Confidence           *float64  `json:"confidence"`
	BBox                 []float64 `json:"bbox"`
	RecyclingSuggestions []string  `json:"recycling_suggestions"`
	ReuseIdeas           []string  `json:"reuse_ideas"`
}

type wireDetectionResponse struct {
	Detections     *[]wireDetection `json:"detections"`
	AnnotatedImage string           `json:"annotated_image"`
	OriginalImage  string           `json:"original_image"`
	Timestamp      int64            `json:"timestamp"`
}

type wireStatsSummary struct {
	TotalProcessedImages int            `json:"total_processed_images"`
	TotalDetections      int            `json:"total_detections"`
	DetectionBreakdown   map[string]int `json:"detection_breakdown"`
	ProcessingTimeAvg    float64        `json:"processing_time_avg"`
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}

// ParseDetectionResponse decodes and validates a /api/detect body.
func ParseDetectionResponse(data []byte) (*dto.DetectionResponse, error) {
	var wire wireDetectionResponse
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, malformed("invalid json: %v", err)
	}
	if wire.Detections == nil {
		return nil, malformed("missing detections")
	}

	resp := &dto.DetectionResponse{
		Detections:        make([]dto.Detection, 0, len(*wire.Detections)),
		AnnotatedImageRef: wire.AnnotatedImage,
		OriginalImageRef:  wire.OriginalImage,
		Timestamp:         wire.Timestamp,
	}

	for i, d := range *wire.Detections {
		if d.Class == nil || strings.TrimSpace(*d.Class) == "" {
			return nil, malformed("detection %d: empty class", i)
		}
		if d.Confidence == nil {
			return nil, malformed("detection %d: missing confidence", i)
		}
		c := *d.Confidence
		if math.IsNaN(c) || c < 0 || c > 1 {
			return nil, malformed("detection %d: confidence %v out of range", i, c)
		}

		resp.Detections = append(resp.Detections, dto.Detection{
			Label:                *d.Class,
			Confidence:           c,
			BBox:                 d.BBox,
			RecyclingSuggestions: d.RecyclingSuggestions,
			ReuseIdeas:           d.ReuseIdeas,
		})
	}

	return resp, nil
}

// ParseStatsSummary decodes and validates a /api/stats body. Missing counters
// read as zero.
func ParseStatsSummary(data []byte) (*dto.StatsSummary, error) {
	var wire wireStatsSummary
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, malformed("invalid json: %v", err)
	}

	if wire.TotalProcessedImages < 0 {
		return nil, malformed("negative total_processed_images")
	}
	if wire.TotalDetections < 0 {
		return nil, malformed("negative total_detections")
	}
	if wire.ProcessingTimeAvg < 0 {
		return nil, malformed("negative processing_time_avg")
	}

	breakdown := make(map[string]int, len(wire.DetectionBreakdown))
	for category, count := range wire.DetectionBreakdown {
		if count < 0 {
			return nil, malformed("negative count for %q", category)
		}
		breakdown[category] = count
	}

	return &dto.StatsSummary{
		TotalProcessedImages:     wire.TotalProcessedImages,
		TotalDetections:          wire.TotalDetections,
		DetectionBreakdown:       breakdown,
		ProcessingTimeAvgSeconds: wire.ProcessingTimeAvg,
	}, nil
}
