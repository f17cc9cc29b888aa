package adapters

import (
	"github.com/de-tools/blocks/pkg/models/api"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/de-tools/blocks/pkg/services/recommendations"
)

func MapRecommendationDomainToApi(r domain.RecommendationStub) api.RecommendationStub {
	return api.RecommendationStub{
		ID:                           r.ID,
		ReferenceID:                  r.ReferenceID,
		Reference:                    r.Ref().String(),
		Title:                        r.Title,
		ShortDescription:             r.ShortDescription,
		ImpactLevel:                  string(r.ImpactLevel),
		Status:                       string(r.Status),
		CTA:                          string(r.Status.CTA()),
		Category:                     r.Category,
		DisplayOrder:                 r.DisplayOrder,
		RationalePreview:             r.RationalePreview,
		EstimatedMonthlySavingsMinor: r.EstimatedMonthlySavingsMinor,
		Currency:                     r.Currency,
		RiskLevel:                    string(r.RiskLevel),
		AccountScope:                 r.AccountScope,
	}
}

func MapRecommendationsResultToApi(rc domain.RequestContext, res recommendations.Result) api.RecommendationsResponse {
	out := api.RecommendationsResponse{
		Recommendations:            make([]api.RecommendationStub, 0, len(res.Recommendations)),
		TotalPotentialSavingsMinor: res.TotalPotentialSavingsMinor,
		Currency:                   res.Currency,
		Meta:                       contentMeta(rc, res.Day, ""),
	}
	for _, r := range res.Recommendations {
		out.Recommendations = append(out.Recommendations, MapRecommendationDomainToApi(r))
	}
	return out
}

func MapTimelineDomainToApi(b domain.TimelineBlock) api.TimelineBlock {
	points := make([]api.DataPoint, 0, len(b.DataPoints))
	for _, p := range b.DataPoints {
		points = append(points, api.DataPoint{Timestamp: p.Timestamp, Value: p.Value})
	}
	return api.TimelineBlock{
		ID:             b.ID,
		Title:          b.Title,
		MetricType:     string(b.MetricType),
		TimeRange:      b.TimeRange,
		DataPoints:     points,
		DisclaimerFlag: b.DisclaimerFlag,
	}
}

func MapTimelinesDomainToApi(rc domain.RequestContext, day domain.CalendarDay, blocks []domain.TimelineBlock) api.TimelinesResponse {
	out := api.TimelinesResponse{
		Blocks: make([]api.TimelineBlock, 0, len(blocks)),
		Meta:   contentMeta(rc, day, ""),
	}
	for _, b := range blocks {
		out.Blocks = append(out.Blocks, MapTimelineDomainToApi(b))
	}
	return out
}

func MapDashboardDomainToApi(rc domain.RequestContext, d domain.Dashboard) api.DashboardResponse {
	out := api.DashboardResponse{
		Cards: make([]api.KPICard, 0, len(d.Cards)),
		Meta:  contentMeta(rc, d.Day, d.DataSource),
	}
	for _, c := range d.Cards {
		out.Cards = append(out.Cards, api.KPICard{
			ID:            c.ID,
			Title:         c.Title,
			ValueMinor:    c.ValueMinor,
			Currency:      c.Currency,
			ChangePercent: c.ChangePercent,
			References:    c.References,
		})
	}
	return out
}

func contentMeta(rc domain.RequestContext, day domain.CalendarDay, dataSource string) api.ContentMeta {
	return api.ContentMeta{
		RequestID:  rc.RequestID,
		TenantID:   rc.TenantID,
		Day:        day.String(),
		DataSource: dataSource,
	}
}
