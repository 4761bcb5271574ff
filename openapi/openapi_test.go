package openapi_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pkordes/cityinfo/openapi"
)

func TestHandler_ServesDocument(t *testing.T) {
	rec := httptest.NewRecorder()
	openapi.Handler(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")
	assert.Contains(t, rec.Body.String(), "/api/v{version}/cities/{cityId}/pointsofinterest/{pointOfInterestId}:")
}

func TestDocument_DescribesEveryRoute(t *testing.T) {
	var doc struct {
		OpenAPI string                    `yaml:"openapi"`
		Paths   map[string]map[string]any `yaml:"paths"`
	}
	require.NoError(t, yaml.Unmarshal(openapi.Document, &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)

	const poi = "/api/v{version}/cities/{cityId}/pointsofinterest"
	want := map[string][]string{
		"/healthz":                         {"get"},
		"/api/v{version}/cities":           {"get"},
		"/api/v{version}/cities/{cityId}":  {"get"},
		poi:                                {"get", "post"},
		poi + "/{pointOfInterestId}":       {"get", "put", "patch", "delete"},
	}
	for path, methods := range want {
		ops, ok := doc.Paths[path]
		if !assert.True(t, ok, "path %s missing", path) {
			continue
		}
		for _, m := range methods {
			assert.Contains(t, ops, m, "%s %s", m, path)
		}
	}
}
