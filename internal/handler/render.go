package handler

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/pkordes/cityinfo/internal/domain"
)

// render writes v with status in the negotiated representation.
func render(w http.ResponseWriter, r *http.Request, status int, v any) {
	mediaType := responseType(r.Context())
	w.Header().Set("Content-Type", mediaType+"; charset=utf-8")
	w.WriteHeader(status)

	if mediaType == mediaJSON {
		_ = json.NewEncoder(w).Encode(v)
		return
	}
	_, _ = io.WriteString(w, xml.Header)
	_ = xml.NewEncoder(w).Encode(v)
}

// decodeBody reads a JSON or XML request body into dst according to its
// Content-Type. Routes have already rejected other content types with 415.
func decodeBody(r *http.Request, dst any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = mediaJSON
	}

	switch mediaType {
	case mediaXML, mediaTextXML:
		err = xml.NewDecoder(r.Body).Decode(dst)
	default:
		err = json.NewDecoder(r.Body).Decode(dst)
	}
	return bodyError(err)
}

// readBody reads the raw request body, for payloads decoded elsewhere.
func readBody(r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(r.Body)
	return raw, bodyError(err)
}

// bodyError classifies a body read or decode failure: an oversized body keeps
// its *http.MaxBytesError, anything else is a malformed body.
func bodyError(err error) error {
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	if errors.Is(err, io.EOF) {
		return domain.NewValidationError("body", "request body is required")
	}
	return domain.NewValidationError("body", "malformed request body: "+err.Error())
}
