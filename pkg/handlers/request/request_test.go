package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDay(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 9, 19, 23, 30, 0, 0, time.FixedZone("X", -2*3600)) }

	tests := []struct {
		name        string
		query       string
		expected    domain.CalendarDay
		expectedErr bool
	}{
		{name: "defaults to today in UTC", query: "", expected: domain.CalendarDay{Year: 2025, Month: 9, Day: 20}},
		{name: "explicit date", query: "?date=2024-02-29", expected: domain.CalendarDay{Year: 2024, Month: 2, Day: 29}},
		{name: "bad format", query: "?date=19-09-2025", expectedErr: true},
		{name: "impossible date", query: "?date=2025-02-30", expectedErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/timelines"+tt.query, nil)

			day, err := Day(r, now)

			if tt.expectedErr {
				assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
				assert.Equal(t, "date", apperrors.FieldOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, day)
		})
	}
}

func TestTenant(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, DefaultTenant, Tenant(r))

	r.Header.Set(TenantHeader, "  acme ")
	assert.Equal(t, "acme", Tenant(r))

	r.Header.Set(TenantHeader, strings.Repeat("x", 300))
	assert.Len(t, Tenant(r), maxTenantLen)

	r.Header.Set(TenantHeader, "a"+strings.Repeat("é", 100))
	tenant := Tenant(r)
	assert.True(t, utf8.ValidString(tenant))
	assert.Len(t, tenant, maxTenantLen-1)
	assert.True(t, strings.HasSuffix(tenant, "é"))

	r.Header.Set(TenantHeader, "acme\xff")
	assert.Equal(t, "acme", Tenant(r))
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(TenantHeader, "acme")
	assert.Equal(t, domain.RequestContext{TenantID: "acme"}, FromRequest(r))

	rc := domain.RequestContext{RequestID: "req-1", TenantID: "other"}
	r = r.WithContext(WithContext(r.Context(), rc))
	assert.Equal(t, rc, FromRequest(r))
}
