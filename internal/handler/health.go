package handler

import (
	"net/http"
	"time"

	"imagevault/internal/httputil"
)

// HealthCheck reports liveness; it is served without authentication
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
