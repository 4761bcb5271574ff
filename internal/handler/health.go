package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const healthPingTimeout = 2 * time.Second

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status string `json:"status"`
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the database answers a ping,
// and 503 with {"status":"unavailable"} when it does not.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	status, body := http.StatusOK, healthResponse{Status: "ok"}
	if err := s.db.Ping(ctx); err != nil {
		s.log.WarnContext(r.Context(), "health check failed", slog.String("error", err.Error()))
		status, body = http.StatusServiceUnavailable, healthResponse{Status: "unavailable"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
