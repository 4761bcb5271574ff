package model

import (
	"encoding/xml"

	"github.com/pkordes/cityinfo/internal/domain"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	XMLName xml.Name    `json:"-" xml:"ErrorResponse"`
	Error   ErrorDetail `json:"error" xml:"error"`
}

// ErrorDetail is a machine-readable code, a human message, and for
// validation failures the rejected fields.
type ErrorDetail struct {
	Code    string              `json:"code" xml:"code"`
	Message string              `json:"message" xml:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty" xml:"fields>field,omitempty"`
}

// NewErrorResponse builds an ErrorResponse without field details.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}
