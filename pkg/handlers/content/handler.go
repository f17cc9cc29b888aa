package content

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/blocks/pkg/adapters"
	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/handlers/render"
	"github.com/de-tools/blocks/pkg/handlers/request"
	"github.com/de-tools/blocks/pkg/metrics"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/de-tools/blocks/pkg/services/recommendations"
)

type RecommendationLister interface {
	List(ctx context.Context, rc domain.RequestContext, day domain.CalendarDay, f recommendations.Filter) (recommendations.Result, error)
}

type ContentGenerator interface {
	Generate(tenantID string, day domain.CalendarDay) (domain.Content, error)
}

type KPIProvider interface {
	KPIs(ctx context.Context, rc domain.RequestContext, day domain.CalendarDay) (domain.Dashboard, error)
}

type Handler struct {
	recommendations RecommendationLister
	generator       ContentGenerator
	kpis            KPIProvider
	metrics         *metrics.Metrics
	now             func() time.Time
}

func NewHandler(
	recs RecommendationLister,
	gen ContentGenerator,
	kpis KPIProvider,
	m *metrics.Metrics,
	now func() time.Time,
) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		recommendations: recs,
		generator:       gen,
		kpis:            kpis,
		metrics:         m,
		now:             now,
	}
}

func (h *Handler) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	rc := request.FromRequest(r)
	day, err := request.Day(r, h.now)
	if err != nil {
		h.fail(w, r, "recommendations", err)
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		h.fail(w, r, "recommendations", err)
		return
	}

	result, err := h.recommendations.List(r.Context(), rc, day, filter)
	if err != nil {
		h.fail(w, r, "recommendations", err)
		return
	}
	h.ok("recommendations")
	render.JSON(w, r, http.StatusOK, adapters.MapRecommendationsResultToApi(rc, result))
}

func (h *Handler) ListTimelines(w http.ResponseWriter, r *http.Request) {
	rc := request.FromRequest(r)
	day, err := request.Day(r, h.now)
	if err != nil {
		h.fail(w, r, "timelines", err)
		return
	}

	content, err := h.generator.Generate(rc.TenantID, day)
	if err != nil {
		h.fail(w, r, "timelines", err)
		return
	}
	h.ok("timelines")
	render.JSON(w, r, http.StatusOK, adapters.MapTimelinesDomainToApi(rc, day, content.Timelines))
}

func (h *Handler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	rc := request.FromRequest(r)
	day, err := request.Day(r, h.now)
	if err != nil {
		h.fail(w, r, "kpis", err)
		return
	}

	dash, err := h.kpis.KPIs(r.Context(), rc, day)
	if err != nil {
		h.fail(w, r, "kpis", err)
		return
	}
	h.ok("kpis")
	render.JSON(w, r, http.StatusOK, adapters.MapDashboardDomainToApi(rc, dash))
}

func (h *Handler) ok(kind string) {
	h.metrics.ContentRequests.WithLabelValues(kind, "OK").Inc()
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, kind string, err error) {
	h.metrics.ContentRequests.WithLabelValues(kind, apperrors.ToPublic(err).Code).Inc()
	render.Error(w, r, err)
}

func parseFilter(r *http.Request) (recommendations.Filter, error) {
	q := r.URL.Query()
	f := recommendations.Filter{
		AccountScope: strings.TrimSpace(q.Get("accountScope")),
		Category:     strings.TrimSpace(q.Get("category")),
		RiskLevel:    domain.RiskLevel(strings.ToLower(strings.TrimSpace(q.Get("riskLevel")))),
	}
	if raw := q.Get("minSavings"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return recommendations.Filter{}, apperrors.Validation("minSavings", "minSavings must be an integer", "Pass a savings amount in cents, e.g. minSavings=5000")
		}
		f.MinSavingsMinor = v
	}
	return f, f.Validate()
}
