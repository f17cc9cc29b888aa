package recommendations

import (
	"context"
	"strings"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/rs/zerolog"
)

type ContentGenerator interface {
	Generate(tenantID string, day domain.CalendarDay) (domain.Content, error)
}

// Filter narrows the day's recommendations. Zero values match everything.
type Filter struct {
	AccountScope    string
	Category        string
	MinSavingsMinor int64
	RiskLevel       domain.RiskLevel
}

func (f Filter) Validate() error {
	if f.MinSavingsMinor < 0 {
		return apperrors.Validation("minSavings", "minSavings must not be negative", "Pass a savings amount in cents, e.g. minSavings=5000")
	}
	switch f.RiskLevel {
	case "", domain.RiskLow, domain.RiskMedium, domain.RiskHigh:
	default:
		return apperrors.Validation("riskLevel", "unknown risk level "+string(f.RiskLevel), "Use one of low, medium or high")
	}
	return nil
}

func (f Filter) matches(r domain.RecommendationStub) bool {
	if f.AccountScope != "" && !strings.EqualFold(f.AccountScope, r.AccountScope) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, r.Category) {
		return false
	}
	if f.RiskLevel != "" && f.RiskLevel != r.RiskLevel {
		return false
	}
	return r.EstimatedMonthlySavingsMinor >= f.MinSavingsMinor
}

type Result struct {
	Recommendations            []domain.RecommendationStub
	TotalPotentialSavingsMinor int64
	Currency                   string
	TenantID                   string
	Day                        domain.CalendarDay
}

type Service struct {
	gen ContentGenerator
}

func NewService(gen ContentGenerator) *Service {
	return &Service{gen: gen}
}

// List returns the day's recommendations matching f in display order.
func (s *Service) List(ctx context.Context, rc domain.RequestContext, day domain.CalendarDay, f Filter) (Result, error) {
	if err := f.Validate(); err != nil {
		return Result{}, err
	}

	content, err := s.gen.Generate(rc.TenantID, day)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("request_id", rc.RequestID).Msg("failed to generate recommendations")
		return Result{}, err
	}

	result := Result{
		Recommendations: make([]domain.RecommendationStub, 0, len(content.Recommendations)),
		TenantID:        rc.TenantID,
		Day:             day,
	}
	for _, r := range content.Recommendations {
		if !f.matches(r) {
			continue
		}
		result.Recommendations = append(result.Recommendations, r)
		result.TotalPotentialSavingsMinor += r.EstimatedMonthlySavingsMinor
		result.Currency = r.Currency
	}
	return result, nil
}
