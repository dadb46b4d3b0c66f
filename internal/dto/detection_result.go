package dto

// Detection is one object found in an uploaded image, as returned by the
// detection service. Label and Confidence are guaranteed by the boundary parser.
type Detection struct {
	Label                string    `json:"class"`
	Confidence           float64   `json:"confidence"`
	BBox                 []float64 `json:"bbox,omitempty"`
	RecyclingSuggestions []string  `json:"recycling_suggestions,omitempty"`
	ReuseIdeas           []string  `json:"reuse_ideas,omitempty"`
}

// DetectionResponse is a decoded /api/detect payload. Detections keep the order
// in which the service returned them.
type DetectionResponse struct {
	Detections        []Detection `json:"detections"`
	AnnotatedImageRef string      `json:"annotated_image,omitempty"`
	OriginalImageRef  string      `json:"original_image,omitempty"`
	Timestamp         int64       `json:"timestamp,omitempty"`
}
