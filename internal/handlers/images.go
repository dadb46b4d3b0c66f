package handlers

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"trashify/internal/logger"
)

const imagesPrefix = "/api/images/"

// ImageProxyHandler forwards /api/images/{name} to the detection service, so
// the image references in detection results resolve against this server.
func ImageProxyHandler(target *url.URL, logger *logger.Logger) http.HandlerFunc {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.Header.Del("Cookie")
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("Image proxy error for %s: %v", r.URL.Path, err)
			writeError(w, http.StatusBadGateway, "Image unavailable")
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
			return
		}

		name := strings.TrimPrefix(r.URL.Path, imagesPrefix)
		if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
			writeError(w, http.StatusBadRequest, "Invalid image name")
			return
		}

		proxy.ServeHTTP(w, r)
	}
}
