package dashboard

import (
	"context"

	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/de-tools/blocks/pkg/services/cost"
	"github.com/rs/zerolog"
)

const (
	CardYesterdaySpend   = "yesterday_spend"
	CardSevenDaySpend    = "seven_day_spend"
	CardMonthToDate      = "month_to_date_spend"
	CardPotentialSavings = "potential_savings"
)

type ContentGenerator interface {
	Generate(tenantID string, day domain.CalendarDay) (domain.Content, error)
}

type Service struct {
	gen    ContentGenerator
	source cost.AggregateSource
}

// NewService builds the KPI service. A nil source uses the generator's aggregates.
func NewService(gen ContentGenerator, source cost.AggregateSource) *Service {
	return &Service{gen: gen, source: source}
}

func (s *Service) KPIs(ctx context.Context, rc domain.RequestContext, day domain.CalendarDay) (domain.Dashboard, error) {
	logger := zerolog.Ctx(ctx)

	content, err := s.gen.Generate(rc.TenantID, day)
	if err != nil {
		logger.Error().Err(err).Str("request_id", rc.RequestID).Msg("failed to generate dashboard content")
		return domain.Dashboard{}, err
	}

	aggs := content.Aggregates
	dataSource := cost.MockSourceName
	if s.source != nil && s.source.Name() != cost.MockSourceName {
		aggs, err = s.source.Aggregates(ctx, rc.TenantID, day)
		if err != nil {
			return domain.Dashboard{}, err
		}
		dataSource = s.source.Name()
	}

	return domain.Dashboard{
		TenantID:   rc.TenantID,
		Day:        day,
		DataSource: dataSource,
		Cards:      Cards(day, aggs, content.Recommendations),
	}, nil
}

// Cards derives the KPI cards. A card is omitted when none of its inputs are
// present, so every returned card cites at least one reference.
func Cards(day domain.CalendarDay, aggs []domain.Aggregate, recs []domain.RecommendationStub) []domain.KPICard {
	var cards []domain.KPICard

	byID := make(map[string]domain.Aggregate)
	var daily, monthToDate []domain.Aggregate
	for _, a := range aggs {
		switch a.Metric {
		case "daily_spend":
			daily = append(daily, a)
			byID[a.ID] = a
		case "month_to_date_spend":
			monthToDate = append(monthToDate, a)
		}
	}

	if y, ok := byID[day.AddDays(-1).String()]; ok {
		card := domain.KPICard{
			ID:         CardYesterdaySpend,
			Title:      "Yesterday's spend",
			ValueMinor: y.AmountMinor,
			Currency:   y.Currency,
			References: []string{y.Ref().String()},
		}
		if prev, ok := byID[day.AddDays(-2).String()]; ok && prev.AmountMinor != 0 {
			change := float64(y.AmountMinor-prev.AmountMinor) / float64(prev.AmountMinor) * 100
			card.ChangePercent = &change
			card.References = append(card.References, prev.Ref().String())
		}
		cards = append(cards, card)
	}

	if card, ok := sumCard(CardSevenDaySpend, "Last 7 days", daily); ok {
		cards = append(cards, card)
	}
	if card, ok := sumCard(CardMonthToDate, "Month to date", monthToDate); ok {
		cards = append(cards, card)
	}

	if len(recs) > 0 {
		card := domain.KPICard{
			ID:         CardPotentialSavings,
			Title:      "Potential monthly savings",
			Currency:   recs[0].Currency,
			References: make([]string, 0, len(recs)),
		}
		for _, r := range recs {
			card.ValueMinor += r.EstimatedMonthlySavingsMinor
			card.References = append(card.References, r.Ref().String())
		}
		cards = append(cards, card)
	}

	return cards
}

func sumCard(id, title string, aggs []domain.Aggregate) (domain.KPICard, bool) {
	if len(aggs) == 0 {
		return domain.KPICard{}, false
	}
	card := domain.KPICard{
		ID:         id,
		Title:      title,
		Currency:   aggs[0].Currency,
		References: make([]string, 0, len(aggs)),
	}
	for _, a := range aggs {
		card.ValueMinor += a.AmountMinor
		card.References = append(card.References, a.Ref().String())
	}
	return card, true
}
