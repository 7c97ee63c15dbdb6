package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	applog "foodprint/internal/log"
)

type healthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// Health reports readiness for infrastructure probes. The status degrades
// when the service is running without a database, matching the 503 the
// donation handlers return in that state.
func Health(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "health check requested", "method", r.Method)

	resp := healthResponse{
		Status: "ok",
		Time:   time.Now().UTC(),
	}
	if database == nil || engine == nil {
		resp.Status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		applog.Error(r.Context(), "failed to encode health response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
