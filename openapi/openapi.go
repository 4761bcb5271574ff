// Package openapi embeds the OpenAPI description of the City Info API.
// The HTTP server serves it at /openapi.yaml.
package openapi

import (
	_ "embed"
	"net/http"
)

// Document contains the raw bytes of openapi.yaml, embedded at compile time.
// Serving it from the binary keeps the document and the running code in sync.
//
//go:embed openapi.yaml
var Document []byte

// Handler serves Document.
func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(Document)
}
