package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AssetServer creates a handler serving static files from assetDir.
// routePrefix is the mount point whose trailing wildcard carries the
// filename, e.g. "/api/thumbnails/".
func AssetServer(routePrefix, assetDir string) http.HandlerFunc {
	cleanAssetDir := filepath.Clean(assetDir)

	return func(w http.ResponseWriter, r *http.Request) {
		relativePath := strings.TrimPrefix(r.URL.Path, routePrefix)
		if relativePath == "" || strings.Contains(relativePath, "..") {
			http.Error(w, "Invalid asset path", http.StatusBadRequest)
			return
		}

		assetPath := filepath.Clean(filepath.Join(cleanAssetDir, relativePath))
		if !strings.HasPrefix(assetPath, cleanAssetDir) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if _, err := os.Stat(assetPath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		cacheDuration := 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))

		http.ServeFile(w, r, assetPath)
	}
}
