package dto

import "time"

// LedgerEntry holds one processed upload before it is flushed to the ledger.
type LedgerEntry struct {
	Filename          string
	ReceivedAt        time.Time
	AnnotatedImageRef string
	ProcessingTime    time.Duration
	Detections        []Detection
}
