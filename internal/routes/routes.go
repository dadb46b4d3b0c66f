package routes

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"trashify/internal/config"
	"trashify/internal/handlers"
	"trashify/internal/logger"
	"trashify/internal/metrics"
	"trashify/internal/middleware"
	"trashify/internal/services"
)

// dynamicHTMLHandler serves /path as {staticDir}/path.html if the file exists; otherwise 404.
func dynamicHTMLHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/" {
			path = "/index"
		}

		filePath := filepath.Join(staticDir, filepath.Clean("/"+path)+".html")

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// SetupRoutes registers the API, log, metrics and static endpoints and wraps
// the mux with the CORS middleware. detectorURL is the base of the detection
// service, used to proxy result images.
func SetupRoutes(manager *services.Manager, detectorURL *url.URL, cfg *config.Config, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDirectory))))

	api := func(route string, h http.Handler) {
		mux.Handle(route, middleware.Instrument(route, h))
	}

	// API endpoints
	api("/api/detect", handlers.DetectHandler(manager, cfg, log))
	api("/api/stats", handlers.StatsHandler(manager, log))
	api("/api/health", handlers.HealthHandler(manager))
	api("/api/images/", handlers.ImageProxyHandler(detectorURL, log))
	api("/api/uploads", handlers.ListUploadsHandler(manager, log))
	api("/api/uploads/detail", handlers.UploadDetailHandler(manager, log))
	api("/api/uploads/labels", handlers.UploadLabelsHandler(manager, log))
	api("/api/uploads/clear", handlers.ClearUploadsHandler(manager, log))
	mux.HandleFunc("/api/view", handlers.ViewWebsocketHandler(manager, cfg, log))

	// Log endpoints
	for level := range logger.Levels {
		mux.HandleFunc("/logs/"+level, handlers.ShowLogsHandler(log, level))
		mux.HandleFunc("/logs/"+level+"/clear", handlers.ClearLogsHandler(log, level))
	}

	mux.Handle("/metrics", metrics.Handler())

	// Automatic HTML handler mapping for example: /stats -> {static}/stats.html
	mux.HandleFunc("/", dynamicHTMLHandler(cfg.StaticDirectory))

	return middleware.CORS(cfg.AllowedOrigin, mux)
}
