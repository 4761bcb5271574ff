// Package validate checks input DTOs against their `validate` struct tags and
// converts failures into a domain.ValidationError with one entry per field.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/cityinfo/internal/domain"
)

// Validator wraps a configured *validator.Validate. It is safe for concurrent
// use and intended to be shared process-wide.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that reports fields by their JSON names and knows
// the custom "notblank" tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("notblank", notBlank)
	return &Validator{v: v}
}

// notBlank rejects strings made only of whitespace; "required" alone accepts them.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Struct validates s. It returns nil, a *domain.ValidationError listing every
// failed field, or a plain error if s is not a struct.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate.Struct: %w", err)
	}

	out := &domain.ValidationError{Fields: make([]domain.FieldError, len(verrs))}
	for i, fe := range verrs {
		out.Fields[i] = domain.FieldError{Field: fe.Field(), Message: messageFor(fe.Tag(), fe.Param())}
	}
	return out
}

func messageFor(tag, param string) string {
	switch tag {
	case "required", "notblank":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", param)
	case "min":
		return fmt.Sprintf("must be at least %s characters", param)
	}
	return "failed " + tag + " validation"
}
