package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const (
	supportedVersionsHeader = "api-supported-versions"
	advertisedVersions      = "1.0, 2.0"
)

// supportedVersions lists every accepted spelling of a version segment.
var supportedVersions = map[string]bool{"1": true, "1.0": true, "2": true, "2.0": true}

// advertiseVersions sets api-supported-versions on every API response.
func advertiseVersions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(supportedVersionsHeader, advertisedVersions)
		next.ServeHTTP(w, r)
	})
}

// requireSupportedVersion rejects an explicit version segment that names an
// unknown version. Both versions currently share one behaviour.
func requireSupportedVersion(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := chi.URLParam(r, "version")
		if !supportedVersions[v] {
			writeRequestError(w, r, errUnsupportedVersion(v))
			return
		}
		next.ServeHTTP(w, r)
	})
}
