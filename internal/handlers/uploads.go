package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"trashify/internal/logger"
	"trashify/internal/models"
	"trashify/internal/services"
)

const (
	defaultPageSize = 24
	maxPageSize     = 100
)

// UploadsData is a paginated page of the upload ledger.
type UploadsData struct {
	Uploads     []models.Upload `json:"uploads"`
	Length      int             `json:"length"`
	TotalPages  int             `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
	Limit       int             `json:"pageSize"`
}

// ListUploadsHandler pages through recorded uploads, newest first.
// Query parameters: page, limit, label, dateAfter, dateBefore (YYYY-MM-DD).
func ListUploadsHandler(manager *services.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet) {
			return
		}

		q := r.URL.Query()
		page := atoiDefault(q.Get("page"), 1)
		limit := min(atoiDefault(q.Get("limit"), defaultPageSize), maxPageSize)

		filter := &models.UploadFilter{
			Label:  q.Get("label"),
			Since:  parseDate(q.Get("dateAfter")),
			Until:  endOfDay(parseDate(q.Get("dateBefore"))),
			Limit:  limit,
			Offset: (page - 1) * limit,
		}

		uploads, total, err := manager.ListUploads(filter)
		if err != nil {
			ledgerError(w, logger, "Error querying uploads", err)
			return
		}
		if uploads == nil {
			uploads = []models.Upload{}
		}

		data := UploadsData{
			Uploads:     uploads,
			Length:      total,
			TotalPages:  (total + limit - 1) / limit,
			CurrentPage: page,
			Limit:       limit,
		}
		if err := writeJSON(w, http.StatusOK, data); err != nil {
			logger.Error("Error encoding JSON response: %v", err)
		}
	}
}

// UploadDetailHandler returns one upload and its detections, selected by the
// "id" query parameter.
func UploadDetailHandler(manager *services.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet) {
			return
		}

		id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "Valid id parameter is required")
			return
		}

		detail, err := manager.GetUpload(id)
		if errors.Is(err, services.ErrUploadNotFound) {
			writeError(w, http.StatusNotFound, "Upload not found")
			return
		}
		if err != nil {
			ledgerError(w, logger, "Error reading upload", err)
			return
		}

		if err := writeJSON(w, http.StatusOK, detail); err != nil {
			logger.Error("Error encoding JSON response: %v", err)
		}
	}
}

// UploadLabelsHandler returns the labels available for filtering.
func UploadLabelsHandler(manager *services.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet) {
			return
		}

		labels, err := manager.Labels()
		if err != nil {
			ledgerError(w, logger, "Failed to get labels", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string][]string{"labels": labels})
	}
}

// ClearUploadsHandler deletes the whole ledger.
func ClearUploadsHandler(manager *services.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodPost) {
			return
		}

		if err := manager.ClearLedger(); err != nil {
			ledgerError(w, logger, "Error clearing ledger", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ledgerError(w http.ResponseWriter, logger *logger.Logger, action string, err error) {
	if errors.Is(err, services.ErrLedgerDisabled) {
		writeError(w, http.StatusServiceUnavailable, "Upload ledger is disabled")
		return
	}
	logger.Error("%s: %v", action, err)
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}

// atoiDefault converts string to int or returns a default when conversion fails or value <= 0.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

// parseDate parses a date string in the format "2006-01-02" (HTML date input).
func parseDate(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// endOfDay makes a date filter inclusive of the whole day.
func endOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.Add(24*time.Hour - time.Nanosecond)
}
