package sqlite

import (
	"database/sql"
	"fmt"

	"trashify/internal/dto"
	"trashify/internal/models"
)

// UploadRepository implements repository.UploadRepository for SQLite.
type UploadRepository struct {
	db *DB
}

// NewUploadRepository creates a new SQLite upload repository.
func NewUploadRepository(db *DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// Insert adds a new upload record to the database.
func (r *UploadRepository) Insert(u *models.Upload) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO uploads (filename, received_at, annotated_ref, detection_count, processing_seconds)
		VALUES (?, ?, ?, ?, ?)
	`, u.Filename, u.ReceivedAt.UTC(), u.AnnotatedRef, u.DetectionCount, u.ProcessingSeconds)
	if err != nil {
		return 0, fmt.Errorf("failed to insert upload: %w", err)
	}

	return result.LastInsertId()
}

// RecordBatch stores buffered uploads and their detections in a single
// transaction.
func (r *UploadRepository) RecordBatch(entries []dto.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	uploadStmt, err := tx.Prepare(`
		INSERT INTO uploads (filename, received_at, annotated_ref, detection_count, processing_seconds)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer uploadStmt.Close()

	detectionStmt, err := tx.Prepare(`
		INSERT INTO detections (upload_id, label, confidence)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer detectionStmt.Close()

	for _, e := range entries {
		result, err := uploadStmt.Exec(e.Filename, e.ReceivedAt.UTC(), e.AnnotatedImageRef, len(e.Detections), e.ProcessingTime.Seconds())
		if err != nil {
			return fmt.Errorf("failed to insert upload: %w", err)
		}
		uploadID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read upload id: %w", err)
		}

		for _, d := range e.Detections {
			if _, err := detectionStmt.Exec(uploadID, d.Label, d.Confidence); err != nil {
				return fmt.Errorf("failed to insert detection: %w", err)
			}
		}
	}

	return tx.Commit()
}

// GetByID retrieves an upload by its ID.
func (r *UploadRepository) GetByID(id int64) (*models.Upload, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var u models.Upload
	err := r.db.Conn().QueryRow(`
		SELECT id, filename, received_at, annotated_ref, detection_count, processing_seconds
		FROM uploads WHERE id = ?
	`, id).Scan(&u.ID, &u.Filename, &u.ReceivedAt, &u.AnnotatedRef, &u.DetectionCount, &u.ProcessingSeconds)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}
	return &u, nil
}

func uploadFilterClause(filter *models.UploadFilter) (string, []interface{}) {
	clause := ""
	args := []interface{}{}
	if filter == nil {
		return clause, args
	}

	if filter.Label != "" {
		clause += " AND d.label = ?"
		args = append(args, filter.Label)
	}

	if !filter.Since.IsZero() {
		clause += " AND u.received_at >= ?"
		args = append(args, filter.Since.UTC())
	}

	if !filter.Until.IsZero() {
		clause += " AND u.received_at <= ?"
		args = append(args, filter.Until.UTC())
	}

	return clause, args
}

// GetAll retrieves uploads matching the filter, newest first.
func (r *UploadRepository) GetAll(filter *models.UploadFilter) ([]models.Upload, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	clause, args := uploadFilterClause(filter)
	query := `
		SELECT DISTINCT u.id, u.filename, u.received_at, u.annotated_ref, u.detection_count, u.processing_seconds
		FROM uploads u
		LEFT JOIN detections d ON u.id = d.upload_id
		WHERE 1=1` + clause + `
		ORDER BY u.received_at DESC, u.id DESC`

	if filter != nil && filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)

		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	uploads := []models.Upload{}
	for rows.Next() {
		var u models.Upload
		if err := rows.Scan(&u.ID, &u.Filename, &u.ReceivedAt, &u.AnnotatedRef, &u.DetectionCount, &u.ProcessingSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		uploads = append(uploads, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate uploads: %w", err)
	}

	return uploads, nil
}

// GetTotalCount returns the number of uploads matching the filter.
func (r *UploadRepository) GetTotalCount(filter *models.UploadFilter) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	clause, args := uploadFilterClause(filter)
	query := `
		SELECT COUNT(DISTINCT u.id)
		FROM uploads u
		LEFT JOIN detections d ON u.id = d.upload_id
		WHERE 1=1` + clause

	var count int
	if err := r.db.Conn().QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count uploads: %w", err)
	}

	return count, nil
}

// GetStats rebuilds the detection service's statistics summary from the
// ledger. Breakdown keys are the raw labels.
func (r *UploadRepository) GetStats() (*dto.StatsSummary, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	stats := &dto.StatsSummary{
		DetectionBreakdown: make(map[string]int),
	}

	if err := r.db.Conn().QueryRow(`
		SELECT COUNT(*), COALESCE(AVG(processing_seconds), 0) FROM uploads
	`).Scan(&stats.TotalProcessedImages, &stats.ProcessingTimeAvgSeconds); err != nil {
		return nil, fmt.Errorf("failed to count uploads: %w", err)
	}

	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM detections`).Scan(&stats.TotalDetections); err != nil {
		return nil, fmt.Errorf("failed to count detections: %w", err)
	}

	rows, err := r.db.Conn().Query(`SELECT label, COUNT(*) FROM detections GROUP BY label`)
	if err != nil {
		return nil, fmt.Errorf("failed to query breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("failed to scan breakdown: %w", err)
		}
		stats.DetectionBreakdown[label] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate breakdown: %w", err)
	}

	return stats, nil
}

// DeleteAll removes all uploads and their detections.
func (r *UploadRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM detections`); err != nil {
		return fmt.Errorf("failed to delete detections: %w", err)
	}

	if _, err := r.db.Conn().Exec(`DELETE FROM uploads`); err != nil {
		return fmt.Errorf("failed to delete uploads: %w", err)
	}

	return nil
}
