package handlers

import (
	"net/http"

	"trashify/internal/logger"
	"trashify/internal/services"
)

// StatsHandler returns the statistics report, from the detection service when
// it answers and from the local ledger otherwise.
func StatsHandler(manager *services.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet) {
			return
		}

		result, err := manager.Stats(r.Context())
		if err != nil {
			logger.Error("Failed to get stats: %v", err)
			writeError(w, http.StatusBadGateway, "Statistics unavailable")
			return
		}

		if err := writeJSON(w, http.StatusOK, result); err != nil {
			logger.Error("Error encoding JSON response: %v", err)
		}
	}
}

// HealthHandler reports on the server and the detection service. The server
// answers 200 while it runs; a degraded detection service shows in the body.
func HealthHandler(manager *services.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
			return
		}
		writeJSON(w, http.StatusOK, manager.Health(r.Context()))
	}
}
