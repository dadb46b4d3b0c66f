package repository

import (
	"trashify/internal/dto"
	"trashify/internal/models"
)

// UploadRepository defines the interface for ledger upload operations.
type UploadRepository interface {
	// Create operations
	Insert(u *models.Upload) (int64, error)
	RecordBatch(entries []dto.LedgerEntry) error

	// Read operations
	GetByID(id int64) (*models.Upload, error)
	GetAll(filter *models.UploadFilter) ([]models.Upload, error)
	GetTotalCount(filter *models.UploadFilter) (int, error)
	GetStats() (*dto.StatsSummary, error)

	// Delete operations
	DeleteAll() error
}

// DetectionRepository defines the interface for ledger detection operations.
type DetectionRepository interface {
	// Create operations
	InsertBatch(detections []models.Detection) error

	// Read operations
	GetByUploadID(uploadID int64) ([]models.Detection, error)
	GetBreakdown() (map[string]int, error)
	GetAllLabels() ([]string, error)
}
