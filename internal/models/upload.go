package models

import "time"

// Upload represents one processed image in the ledger.
type Upload struct {
	ID                int64     `json:"id"`
	Filename          string    `json:"filename"`
	ReceivedAt        time.Time `json:"received_at"`
	AnnotatedRef      string    `json:"annotated_ref"`
	DetectionCount    int       `json:"detection_count"`
	ProcessingSeconds float64   `json:"processing_seconds"`
}

// UploadFilter contains filtering options for listing uploads.
type UploadFilter struct {
	Label  string
	Since  time.Time
	Until  time.Time
	Limit  int
	Offset int
}
