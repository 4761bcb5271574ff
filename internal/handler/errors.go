package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pkordes/cityinfo/internal/domain"
	"github.com/pkordes/cityinfo/internal/model"
)

const internalErrorMessage = "A problem happened while handling your request."

// requestError is a request rejected by the HTTP layer itself, before any
// service call.
type requestError struct {
	status  int
	code    string
	message string
}

func (e *requestError) Error() string { return e.code + ": " + e.message }

var errNotAcceptable = &requestError{
	status:  http.StatusNotAcceptable,
	code:    "not_acceptable",
	message: "supported representations are application/json, application/xml and text/xml",
}

func errUnsupportedVersion(v string) *requestError {
	return &requestError{
		status:  http.StatusBadRequest,
		code:    "unsupported_api_version",
		message: fmt.Sprintf("API version %q is not supported; supported versions: %s", v, advertisedVersions),
	}
}

func errBadParam(name string, err error) *requestError {
	return &requestError{
		status:  http.StatusBadRequest,
		code:    "bad_request",
		message: fmt.Sprintf("invalid %s: %v", name, err),
	}
}

// writeRequestError writes a requestError in the negotiated representation.
func writeRequestError(w http.ResponseWriter, r *http.Request, e *requestError) {
	render(w, r, e.status, model.NewErrorResponse(e.code, e.message))
}

// writeError maps err to a status code and error body. Errors it does not
// recognise are logged in full and answered with a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		reqErr   *requestError
		valErr   *domain.ValidationError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &reqErr):
		writeRequestError(w, r, reqErr)
	case errors.As(err, &valErr):
		body := model.NewErrorResponse("validation_error", "one or more fields are invalid")
		body.Error.Fields = valErr.Fields
		render(w, r, http.StatusBadRequest, body)
	case errors.Is(err, domain.ErrNotFound):
		render(w, r, http.StatusNotFound, model.NewErrorResponse("not_found", "resource not found"))
	case errors.Is(err, domain.ErrForbidden):
		render(w, r, http.StatusForbidden, model.NewErrorResponse("forbidden", "access to this city is not allowed"))
	case errors.As(err, &tooLarge):
		render(w, r, http.StatusRequestEntityTooLarge, model.NewErrorResponse("request_too_large", "request body too large"))
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		render(w, r, http.StatusInternalServerError, model.NewErrorResponse("internal_error", internalErrorMessage))
	}
}
