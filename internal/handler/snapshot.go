package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
)

// ViewSnapshotHandler serves a single snapshot file named by the {name} route variable.
func ViewSnapshotHandler(snapshotDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]
		if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".jpg") {
			http.Error(w, "Invalid snapshot name", http.StatusBadRequest)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, filepath.Join(snapshotDir, name))
	}
}
