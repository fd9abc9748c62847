package http

import "net/http"

// NotFound replies with the standard JSON error envelope for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, codeNotFound, "not found")
}
