package handler

import (
	"context"
	"net/http"

	"github.com/munnerz/goautoneg"
)

const (
	mediaJSON    = "application/json"
	mediaXML     = "application/xml"
	mediaTextXML = "text/xml"
)

// offers is in preference order: */* and an absent Accept header pick JSON.
var offers = []string{mediaJSON, mediaXML, mediaTextXML}

type mediaTypeKey struct{}

// negotiate picks the response media type from Accept before any work is
// done. A request accepting none of the offers gets 406.
func negotiate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept := r.Header.Get("Accept")
		mediaType := mediaJSON
		if accept != "" {
			mediaType = goautoneg.Negotiate(accept, offers)
		}
		if mediaType == "" {
			writeRequestError(w, r, errNotAcceptable)
			return
		}
		ctx := context.WithValue(r.Context(), mediaTypeKey{}, mediaType)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// responseType returns the negotiated media type, JSON outside /api.
func responseType(ctx context.Context) string {
	if mt, ok := ctx.Value(mediaTypeKey{}).(string); ok {
		return mt
	}
	return mediaJSON
}
