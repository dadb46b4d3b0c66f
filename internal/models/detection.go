package models

// Detection is one ledger row: a label and its confidence for an upload.
type Detection struct {
	ID         int64   `json:"id"`
	UploadID   int64   `json:"upload_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}
