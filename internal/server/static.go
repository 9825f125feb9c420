package server

import (
	"io/fs"
	"net/http"
	"os"
)

// StaticHandler serves static assets for every path not claimed by another route.
type StaticHandler struct {
	files http.Handler
}

// NewStaticHandler serves dir when it is an existing directory, and fallback otherwise.
func NewStaticHandler(dir string, fallback fs.FS) *StaticHandler {
	var root http.FileSystem
	if info, err := os.Stat(dir); dir != "" && err == nil && info.IsDir() {
		root = http.Dir(dir)
	} else {
		root = http.FS(fallback)
	}
	return &StaticHandler{files: http.FileServer(root)}
}

// Routes returns the HTTP routes this handler serves.
func (h *StaticHandler) Routes() []string {
	return []string{"/"}
}

// ServeHTTP serves GET and HEAD requests from the asset root; other methods get 404.
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	h.files.ServeHTTP(w, r)
}
