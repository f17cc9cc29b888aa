package recommendations

import (
	"context"
	"testing"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/de-tools/blocks/pkg/services/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	content domain.Content
	err     error
}

func (s stubGenerator) Generate(string, domain.CalendarDay) (domain.Content, error) {
	return s.content, s.err
}

var day = domain.CalendarDay{Year: 2025, Month: 9, Day: 19}

func stubContent() domain.Content {
	return domain.Content{Recommendations: []domain.RecommendationStub{
		{ID: "a", Category: "compute", RiskLevel: domain.RiskHigh, AccountScope: "production", EstimatedMonthlySavingsMinor: 90000, Currency: "USD", DisplayOrder: 1},
		{ID: "b", Category: "storage", RiskLevel: domain.RiskLow, AccountScope: "staging", EstimatedMonthlySavingsMinor: 40000, Currency: "USD", DisplayOrder: 2},
		{ID: "c", Category: "compute", RiskLevel: domain.RiskLow, AccountScope: "production", EstimatedMonthlySavingsMinor: 12000, Currency: "USD", DisplayOrder: 3},
	}}
}

func TestService_List(t *testing.T) {
	tests := []struct {
		name          string
		filter        Filter
		expectedIDs   []string
		expectedTotal int64
	}{
		{name: "no filter", filter: Filter{}, expectedIDs: []string{"a", "b", "c"}, expectedTotal: 142000},
		{name: "category", filter: Filter{Category: "Compute"}, expectedIDs: []string{"a", "c"}, expectedTotal: 102000},
		{name: "account scope", filter: Filter{AccountScope: "staging"}, expectedIDs: []string{"b"}, expectedTotal: 40000},
		{name: "risk", filter: Filter{RiskLevel: domain.RiskLow}, expectedIDs: []string{"b", "c"}, expectedTotal: 52000},
		{name: "min savings", filter: Filter{MinSavingsMinor: 40000}, expectedIDs: []string{"a", "b"}, expectedTotal: 130000},
		{name: "combined", filter: Filter{Category: "compute", RiskLevel: domain.RiskLow}, expectedIDs: []string{"c"}, expectedTotal: 12000},
		{name: "nothing matches", filter: Filter{Category: "network"}, expectedIDs: []string{}, expectedTotal: 0},
	}

	svc := NewService(stubGenerator{content: stubContent()})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.List(context.Background(), domain.RequestContext{TenantID: "t"}, day, tt.filter)

			require.NoError(t, err)
			ids := make([]string, 0, len(result.Recommendations))
			for _, r := range result.Recommendations {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
			assert.Equal(t, tt.expectedTotal, result.TotalPotentialSavingsMinor)
			assert.Equal(t, "t", result.TenantID)
			assert.Equal(t, day, result.Day)
		})
	}
}

func TestService_List_InvalidFilter(t *testing.T) {
	svc := NewService(stubGenerator{content: stubContent()})

	for _, f := range []Filter{{MinSavingsMinor: -1}, {RiskLevel: "extreme"}} {
		_, err := svc.List(context.Background(), domain.RequestContext{}, day, f)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	}
}

func TestService_List_GenerationError(t *testing.T) {
	svc := NewService(stubGenerator{err: apperrors.ContentGeneration("pool too small")})

	_, err := svc.List(context.Background(), domain.RequestContext{}, day, Filter{})

	assert.Equal(t, apperrors.KindContentGeneration, apperrors.KindOf(err))
}

func TestService_List_GeneratedContent(t *testing.T) {
	svc := NewService(generator.New(generator.DefaultSettings()))

	all, err := svc.List(context.Background(), domain.RequestContext{TenantID: "acme"}, day, Filter{})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(all.Recommendations), generator.MinRecommendationsFloor)

	var total int64
	for i, r := range all.Recommendations {
		total += r.EstimatedMonthlySavingsMinor
		assert.Equal(t, i+1, r.DisplayOrder)
	}
	assert.Equal(t, total, all.TotalPotentialSavingsMinor)
	assert.Equal(t, "USD", all.Currency)
}
