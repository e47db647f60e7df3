//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
)

// Dev reports whether assets are served from disk.
const Dev = true

func staticDir() string {
	dir, err := Dir()
	if err != nil {
		return StaticDirectoryPath
	}
	return filepath.Join(dir, "static")
}

// Handler serves the bundle from the filesystem so rebuilds show up on
// reload.
func Handler() http.Handler {
	dir := staticDir()
	slog.Info("static assets served from filesystem", "path", dir)
	return http.StripPrefix("/static/", http.FileServer(http.FS(os.DirFS(dir))))
}

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return "/static/" + path
}
