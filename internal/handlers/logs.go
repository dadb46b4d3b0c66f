package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"trashify/internal/logger"
)

// ShowLogsHandler serves the log file of one level as plain text.
func ShowLogsHandler(logger *logger.Logger, level string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet) {
			return
		}

		filePath, ok := logger.Path(level)
		if !ok {
			http.Error(w, "Unknown log level: "+level, http.StatusNotFound)
			return
		}
		if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
			http.Error(w, "Log file not found: "+filepath.Base(filePath), http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, filePath)
	}
}

// ClearLogsHandler truncates the log file of one level.
func ClearLogsHandler(logger *logger.Logger, level string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodPost) {
			return
		}
		if err := logger.CleanLogs(level); err != nil {
			writeError(w, http.StatusInternalServerError, "Unable to clear "+level+" logs")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
