package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/de-tools/blocks/pkg/services/cost"
	"github.com/de-tools/blocks/pkg/services/generator"
	"github.com/de-tools/blocks/pkg/services/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Name() string { return cost.AWSSourceName }

func (m *mockSource) Aggregates(ctx context.Context, tenantID string, day domain.CalendarDay) ([]domain.Aggregate, error) {
	args := m.Called(ctx, tenantID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Aggregate), args.Error(1)
}

var day = domain.CalendarDay{Year: 2025, Month: 9, Day: 19}

func TestCards(t *testing.T) {
	aggs := []domain.Aggregate{
		{ID: "2025-09-17", Metric: "daily_spend", AmountMinor: 10000, Currency: "USD"},
		{ID: "2025-09-18", Metric: "daily_spend", AmountMinor: 12000, Currency: "USD"},
		{ID: "2025-09-19", Metric: "daily_spend", AmountMinor: 3000, Currency: "USD"},
		{ID: "2025-09-19T10", Metric: "peak_hour_spend", AmountMinor: 900, Currency: "USD"},
		{ID: "2025-09:ec2", Metric: "month_to_date_spend", AmountMinor: 200000, Currency: "USD"},
		{ID: "2025-09:s3", Metric: "month_to_date_spend", AmountMinor: 50000, Currency: "USD"},
	}
	recs := []domain.RecommendationStub{
		{ReferenceID: "11111111-1111-5111-8111-111111111111", EstimatedMonthlySavingsMinor: 7000, Currency: "USD"},
		{ReferenceID: "22222222-2222-5222-8222-222222222222", EstimatedMonthlySavingsMinor: 3000, Currency: "USD"},
	}

	cards := Cards(day, aggs, recs)

	require.Len(t, cards, 4)

	assert.Equal(t, CardYesterdaySpend, cards[0].ID)
	assert.Equal(t, int64(12000), cards[0].ValueMinor)
	require.NotNil(t, cards[0].ChangePercent)
	assert.InDelta(t, 20.0, *cards[0].ChangePercent, 1e-9)
	assert.Equal(t, []string{"agg:2025-09-18", "agg:2025-09-17"}, cards[0].References)

	assert.Equal(t, CardSevenDaySpend, cards[1].ID)
	assert.Equal(t, int64(25000), cards[1].ValueMinor)
	assert.Len(t, cards[1].References, 3)

	assert.Equal(t, CardMonthToDate, cards[2].ID)
	assert.Equal(t, int64(250000), cards[2].ValueMinor)
	assert.Equal(t, []string{"agg:2025-09:ec2", "agg:2025-09:s3"}, cards[2].References)

	assert.Equal(t, CardPotentialSavings, cards[3].ID)
	assert.Equal(t, int64(10000), cards[3].ValueMinor)
	assert.Equal(t, []string{
		"rec:11111111-1111-5111-8111-111111111111",
		"rec:22222222-2222-5222-8222-222222222222",
	}, cards[3].References)
}

func TestCards_OmitsCardsWithoutInputs(t *testing.T) {
	assert.Empty(t, Cards(day, nil, nil))

	cards := Cards(day, []domain.Aggregate{{ID: "2025-09-19", Metric: "daily_spend", AmountMinor: 1}}, nil)
	require.Len(t, cards, 1)
	assert.Equal(t, CardSevenDaySpend, cards[0].ID)
}

func TestService_KPIs_Generated(t *testing.T) {
	svc := NewService(generator.New(generator.DefaultSettings()), nil)

	dash, err := svc.KPIs(context.Background(), domain.RequestContext{TenantID: "acme"}, day)

	require.NoError(t, err)
	assert.Equal(t, cost.MockSourceName, dash.DataSource)
	require.Len(t, dash.Cards, 4)
	for _, card := range dash.Cards {
		require.NotEmpty(t, card.References, card.ID)
		for _, ref := range card.References {
			assert.True(t, reference.IsValidToken(ref), ref)
		}
	}
}

func TestService_KPIs_ExternalSource(t *testing.T) {
	src := new(mockSource)
	src.On("Aggregates", mock.Anything, "acme", day).
		Return([]domain.Aggregate{{ID: "2025-09-18", Metric: "daily_spend", AmountMinor: 500, Currency: "USD"}}, nil).Once()
	src.On("Aggregates", mock.Anything, "acme", day).
		Return(nil, apperrors.ExternalService("aws", errors.New("throttled"))).Once()
	svc := NewService(generator.New(generator.DefaultSettings()), src)

	dash, err := svc.KPIs(context.Background(), domain.RequestContext{TenantID: "acme"}, day)
	require.NoError(t, err)
	assert.Equal(t, cost.AWSSourceName, dash.DataSource)
	assert.Equal(t, CardYesterdaySpend, dash.Cards[0].ID)
	assert.Equal(t, int64(500), dash.Cards[0].ValueMinor)

	_, err = svc.KPIs(context.Background(), domain.RequestContext{TenantID: "acme"}, day)
	assert.Equal(t, apperrors.KindExternalService, apperrors.KindOf(err))
	src.AssertExpectations(t)
}
