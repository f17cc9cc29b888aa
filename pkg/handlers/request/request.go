package request

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	TenantHeader  = "X-Tenant-ID"
	DefaultTenant = "default"
	maxTenantLen  = 128
)

type contextKey struct{}

// WithContext stores rc in ctx.
func WithContext(ctx context.Context, rc domain.RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// FromRequest returns the request context set by the tenant middleware, or
// one built from the request itself.
func FromRequest(r *http.Request) domain.RequestContext {
	if rc, ok := r.Context().Value(contextKey{}).(domain.RequestContext); ok {
		return rc
	}
	return domain.RequestContext{
		RequestID: middleware.GetReqID(r.Context()),
		TenantID:  Tenant(r),
	}
}

// Tenant returns the caller's tenant id: valid UTF-8, at most maxTenantLen
// bytes and never cut inside a rune.
func Tenant(r *http.Request) string {
	tenant := strings.TrimSpace(strings.ToValidUTF8(r.Header.Get(TenantHeader), ""))
	if len(tenant) > maxTenantLen {
		cut := maxTenantLen
		for cut > 0 && !utf8.RuneStart(tenant[cut]) {
			cut--
		}
		tenant = strings.TrimSpace(tenant[:cut])
	}
	if tenant == "" {
		return DefaultTenant
	}
	return tenant
}

// Day resolves the calendar day of a request: the date query parameter when
// present, otherwise today in UTC.
func Day(r *http.Request, now func() time.Time) (domain.CalendarDay, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return domain.DayOf(now()), nil
	}
	day, err := domain.ParseDay(raw)
	if err != nil {
		return domain.CalendarDay{}, apperrors.Validation("date", "date must be a calendar day", "Use the YYYY-MM-DD format, e.g. date=2025-09-19")
	}
	return day, nil
}
