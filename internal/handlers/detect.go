package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/apex/log"
	"github.com/gabriel-vasile/mimetype"

	"trashify/internal/config"
	"trashify/internal/logger"
	"trashify/internal/metrics"
	"trashify/internal/services"
	"trashify/internal/services/detection"
)

// uploadField is the multipart field carrying the image.
const uploadField = "file"

var acceptedImageTypes = []string{"image/png", "image/jpeg"}

// DetectHandler accepts one image upload, forwards it to the detection service
// and answers with the presented results.
func DetectHandler(manager *services.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	allowed := strings.Join(cfg.AllowedExtensions, ", ")

	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodPost) {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes())
		if err := r.ParseMultipartForm(cfg.MaxUploadBytes()); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				logger.Warning("⚠️  Upload rejected: larger than %d MB", cfg.MaxUploadMB)
				rejectUpload(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large. Maximum size is %d MB", cfg.MaxUploadMB))
				return
			}
			rejectUpload(w, http.StatusBadRequest, "No file part")
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile(uploadField)
		if err != nil {
			// A part sent with an empty filename is parsed as a plain value.
			if _, ok := r.MultipartForm.Value[uploadField]; ok {
				rejectUpload(w, http.StatusBadRequest, "No selected file")
				return
			}
			rejectUpload(w, http.StatusBadRequest, "No file part")
			return
		}
		defer file.Close()

		filename := filepath.Base(header.Filename)
		if filename == "" || filename == "." {
			rejectUpload(w, http.StatusBadRequest, "No selected file")
			return
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
		if !slices.Contains(cfg.AllowedExtensions, ext) {
			rejectUpload(w, http.StatusBadRequest, "File type not allowed. Allowed types: "+allowed)
			return
		}

		image, err := io.ReadAll(file)
		if err != nil {
			logger.Error("Error reading upload %s: %v", filename, err)
			rejectUpload(w, http.StatusBadRequest, "Could not read uploaded file")
			return
		}

		mtype := mimetype.Detect(image)
		if !isAcceptedImage(mtype) {
			logger.Warning("⚠️  Upload %s rejected: content is %s", filename, mtype.String())
			rejectUpload(w, http.StatusBadRequest, "File content is not a PNG or JPEG image")
			return
		}

		logger.WithFields(log.Fields{
			"filename": filename,
			"bytes":    len(image),
			"mime":     mtype.String(),
		}).Info("upload received")

		view, err := manager.Detect(r.Context(), filename, image)
		if err != nil {
			writeError(w, http.StatusBadGateway, upstreamMessage(err))
			return
		}

		if err := writeJSON(w, http.StatusOK, view); err != nil {
			logger.Error("Error encoding JSON response: %v", err)
		}
	}
}

// rejectUpload answers an invalid upload before it reaches the detection service.
func rejectUpload(w http.ResponseWriter, status int, message string) {
	metrics.DetectRequestsTotal.WithLabelValues("rejected").Inc()
	writeError(w, status, message)
}

func isAcceptedImage(mtype *mimetype.MIME) bool {
	for _, accepted := range acceptedImageTypes {
		if mtype.Is(accepted) {
			return true
		}
	}
	return false
}

// upstreamMessage describes a detection service failure for the browser.
func upstreamMessage(err error) string {
	var statusErr *detection.StatusError
	switch {
	case errors.As(err, &statusErr):
		return "Detection service error: " + statusErr.Message
	case errors.Is(err, detection.ErrMalformedInput):
		return "Detection service returned an invalid response"
	default:
		return "Detection service unavailable"
	}
}
