package middleware

import (
	"net/http"

	"github.com/de-tools/blocks/pkg/handlers/request"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const RequestIDHeader = "X-Request-ID"

// RequestContext resolves the tenant and request id once per request, echoes
// the request id to the client and tags the request logger with the tenant.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rc := domain.RequestContext{
			RequestID: middleware.GetReqID(req.Context()),
			TenantID:  request.Tenant(req),
		}
		if rc.RequestID != "" {
			w.Header().Set(RequestIDHeader, rc.RequestID)
		}

		logger := zerolog.Ctx(req.Context()).With().Str("tenant", rc.TenantID).Logger()
		ctx := request.WithContext(logger.WithContext(req.Context()), rc)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}
