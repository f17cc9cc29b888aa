package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/de-tools/blocks/pkg/handlers/request"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestContextAndLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var got domain.RequestContext
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(Logger(&logger))
	router.Use(RequestContext)
	router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		got = request.FromRequest(r)
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(request.TenantHeader, "acme")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "acme", got.TenantID)
	assert.NotEmpty(t, got.RequestID)
	assert.Equal(t, got.RequestID, rec.Header().Get(RequestIDHeader))

	logs := buf.String()
	assert.Contains(t, logs, `"tenant":"acme"`)
	assert.Contains(t, logs, `"request_id":"`+got.RequestID+`"`)
	assert.Contains(t, logs, `"status":418`)
	assert.Contains(t, logs, `"path":"/ping"`)
}
