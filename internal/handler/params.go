package handler

import (
	"fmt"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/cityinfo/internal/domain"
)

// pathInt binds the integer path parameter name. Ids are stored as 32-bit
// integers, so an integer outside that range names nothing and is not found.
func pathInt(r *http.Request, name string) (int, error) {
	var v int64
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, errBadParam(name, err)
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%s %d: %w", name, v, domain.ErrNotFound)
	}
	return int(v), nil
}

// queryBool binds the optional boolean query parameter name, false when absent.
func queryBool(r *http.Request, name string) (bool, error) {
	var v bool
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return false, errBadParam(name, err)
	}
	return v, nil
}
