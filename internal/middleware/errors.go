// Package middleware provides HTTP middleware for the City Info API server.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/pkordes/cityinfo/internal/model"
)

// writeError writes the standard JSON error body. Middleware rejects requests
// before content negotiation runs, so it always answers in JSON.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.NewErrorResponse(code, message))
}
