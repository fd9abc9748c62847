package http

import "net/http"

// HealthHandler reports liveness for probes and load balancers.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
