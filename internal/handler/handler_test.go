package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/cityinfo/internal/handler"
	"github.com/pkordes/cityinfo/internal/mail"
	"github.com/pkordes/cityinfo/internal/model"
	"github.com/pkordes/cityinfo/internal/service"
	"github.com/pkordes/cityinfo/internal/validate"
	"github.com/pkordes/cityinfo/testutil"
)

// recordingSender is a test double for mail.Sender that records every call.
type recordingSender struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (m *recordingSender) Send(_ context.Context, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, subject+"|"+body)
	return m.err
}

var _ mail.Sender = (*recordingSender)(nil)

// fakePinger is a test double for handler.Pinger.
type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

// testAPI bundles a router wired exactly like main.go with its backing fakes.
type testAPI struct {
	http.Handler
	store  *testutil.MemStore
	mailer *recordingSender
	logs   *bytes.Buffer
}

// newTestAPI wires real services over an in-memory store into a chi router.
func newTestAPI(t *testing.T, middleware ...func(http.Handler) http.Handler) *testAPI {
	t.Helper()
	store := testutil.NewMemStore()
	mailer := &recordingSender{}
	logs := &bytes.Buffer{}
	log := slog.New(slog.NewJSONHandler(logs, nil))

	srv := handler.NewServer(
		service.NewCityService(store.NewRepo),
		service.NewPointOfInterestService(store.NewRepo, mailer, validate.New(), log),
		fakePinger{},
		log,
	)
	r := chi.NewRouter()
	srv.Mount(r, middleware...)

	return &testAPI{Handler: r, store: store, mailer: mailer, logs: logs}
}

// do sends a request and returns the recorder. headers are key/value pairs.
func (a *testAPI) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeJSON[model.ErrorResponse](t, rec).Error.Code
}

var errStorage = errors.New("connection refused")
