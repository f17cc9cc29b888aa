// Package generator produces the deterministic mock content shown on the
// dashboard: recommendation stubs, timeline blocks and cost aggregates. Output
// depends only on the tenant id and the calendar day.
package generator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/google/uuid"
)

const (
	MinRecommendationsFloor = 5
	MinTimelinesFloor       = 3

	timelinePoints = 7
	maxIDAttempts  = 8
)

var recommendationNamespace = uuid.MustParse("5d1c9a3e-7b0f-4c1a-9e4e-2f6b8a0d3c71")

type Settings struct {
	MinRecommendations int
	MinTimelines       int
	Currency           string
	Services           []string
	AccountScopes      []string
	Recommendations    []RecommendationTemplate
	Timelines          []TimelineTemplate
}

func DefaultSettings() Settings {
	return Settings{
		MinRecommendations: MinRecommendationsFloor,
		MinTimelines:       MinTimelinesFloor,
		Currency:           "USD",
		Services:           defaultServices,
		AccountScopes:      defaultAccountScopes,
		Recommendations:    defaultRecommendations,
		Timelines:          defaultTimelines,
	}
}

// Generator is safe for concurrent use; it holds no mutable state.
type Generator struct {
	settings Settings
}

func New(settings Settings) *Generator {
	if settings.MinRecommendations < MinRecommendationsFloor {
		settings.MinRecommendations = MinRecommendationsFloor
	}
	if settings.MinTimelines < MinTimelinesFloor {
		settings.MinTimelines = MinTimelinesFloor
	}
	if settings.Currency == "" {
		settings.Currency = "USD"
	}
	if len(settings.Services) == 0 {
		settings.Services = defaultServices
	}
	if len(settings.AccountScopes) == 0 {
		settings.AccountScopes = defaultAccountScopes
	}
	return &Generator{settings: settings}
}

// Generate builds the content for tenantID on day. It fails with a content
// generation error rather than return fewer items than the configured minimums.
func (g *Generator) Generate(tenantID string, day domain.CalendarDay) (domain.Content, error) {
	if n := len(g.settings.Recommendations); n < g.settings.MinRecommendations {
		return domain.Content{}, apperrors.ContentGeneration(fmt.Sprintf(
			"recommendation pool has %d candidates, need at least %d", n, g.settings.MinRecommendations))
	}
	if n := len(g.settings.Timelines); n < g.settings.MinTimelines {
		return domain.Content{}, apperrors.ContentGeneration(fmt.Sprintf(
			"timeline pool has %d candidates, need at least %d", n, g.settings.MinTimelines))
	}

	rng := NewSeed(tenantID, day).Rand()

	aggregates := g.aggregates(rng, day)

	recommendations, err := g.recommendations(rng, tenantID, day)
	if err != nil {
		return domain.Content{}, err
	}

	timelines, err := g.timelines(rng, day, aggregates)
	if err != nil {
		return domain.Content{}, err
	}

	return domain.Content{
		TenantID:        tenantID,
		Day:             day,
		Recommendations: recommendations,
		Timelines:       timelines,
		Aggregates:      aggregates,
	}, nil
}

func (g *Generator) recommendations(
	rng *rand.Rand,
	tenantID string,
	day domain.CalendarDay,
) ([]domain.RecommendationStub, error) {
	pool := g.settings.Recommendations
	count := pick(rng, g.settings.MinRecommendations, len(pool))
	order := rng.Perm(len(pool))[:count]

	seen := make(map[string]struct{}, count)
	stubs := make([]domain.RecommendationStub, 0, count)
	for i, idx := range order {
		tpl := pool[idx]

		id, err := uniqueID(rng, tpl.Slug, i, seen)
		if err != nil {
			return nil, err
		}

		savings := tpl.MinSavingsMinor
		if span := tpl.MaxSavingsMinor - tpl.MinSavingsMinor; span > 0 {
			savings += rng.Int64N(span + 1)
		}

		title := tpl.Slug
		if len(tpl.Titles) > 0 {
			title = tpl.Titles[rng.IntN(len(tpl.Titles))]
		}

		stubs = append(stubs, domain.RecommendationStub{
			ID:                           id,
			ReferenceID:                  referenceID(tenantID, day, id),
			Title:                        title,
			ShortDescription:             tpl.Description,
			ImpactLevel:                  tpl.Impact,
			Status:                       drawStatus(rng),
			Category:                     tpl.Category,
			RationalePreview:             tpl.Rationale,
			EstimatedMonthlySavingsMinor: savings,
			Currency:                     g.settings.Currency,
			RiskLevel:                    tpl.Risk,
			AccountScope:                 g.settings.AccountScopes[rng.IntN(len(g.settings.AccountScopes))],
		})
	}

	sort.SliceStable(stubs, func(i, j int) bool {
		if stubs[i].EstimatedMonthlySavingsMinor != stubs[j].EstimatedMonthlySavingsMinor {
			return stubs[i].EstimatedMonthlySavingsMinor > stubs[j].EstimatedMonthlySavingsMinor
		}
		return stubs[i].ID < stubs[j].ID
	})
	for i := range stubs {
		stubs[i].DisplayOrder = i + 1
	}

	return stubs, nil
}

func (g *Generator) timelines(
	rng *rand.Rand,
	day domain.CalendarDay,
	aggregates []domain.Aggregate,
) ([]domain.TimelineBlock, error) {
	pool := g.settings.Timelines
	count := pick(rng, g.settings.MinTimelines, len(pool))
	order := rng.Perm(len(pool))[:count]
	sort.Ints(order)

	seen := make(map[string]struct{}, count)
	blocks := make([]domain.TimelineBlock, 0, count)
	for i, idx := range order {
		tpl := pool[idx]

		id, err := uniqueID(rng, tpl.Slug, i, seen)
		if err != nil {
			return nil, err
		}

		block := domain.TimelineBlock{
			ID:             id,
			Title:          tpl.Title,
			MetricType:     tpl.MetricType,
			TimeRange:      fmt.Sprintf("Last %d days", timelinePoints),
			DisclaimerFlag: tpl.Disclaimer,
		}
		if tpl.Forward {
			block.TimeRange = fmt.Sprintf("Next %d days", timelinePoints)
		}

		switch {
		case tpl.MetricType == domain.MetricSpend && tpl.Base == 0:
			block.DataPoints = spendPoints(aggregates)
		case tpl.MetricType == domain.MetricProjection:
			block.DataPoints = seriesPoints(rng, day, projectFrom(tpl, aggregates))
		default:
			block.DataPoints = seriesPoints(rng, day, tpl)
		}

		blocks = append(blocks, block)
	}

	return blocks, nil
}

// aggregates returns the daily spend buckets for the seven days ending at day
// (oldest first), the peak hour of day and a month-to-date bucket per service.
func (g *Generator) aggregates(rng *rand.Rand, day domain.CalendarDay) []domain.Aggregate {
	services := g.settings.Services
	baseDaily := 150_000 + rng.Int64N(250_000)

	aggs := make([]domain.Aggregate, 0, timelinePoints+1+len(services))
	for i := timelinePoints - 1; i >= 0; i-- {
		d := day.AddDays(-i)
		amount := jitter(rng, baseDaily, 0.12)
		aggs = append(aggs, domain.Aggregate{
			ID:          d.String(),
			Label:       fmt.Sprintf("Spend on %s", d),
			Metric:      "daily_spend",
			AmountMinor: amount,
			Currency:    g.settings.Currency,
			PeriodStart: d.Time(),
			PeriodEnd:   d.AddDays(1).Time(),
		})
	}

	hour := 8 + rng.IntN(12)
	peakStart := day.Time().Add(time.Duration(hour) * time.Hour)
	aggs = append(aggs, domain.Aggregate{
		ID:          fmt.Sprintf("%sT%02d", day, hour),
		Label:       fmt.Sprintf("Peak hour %02d:00 UTC on %s", hour, day),
		Metric:      "peak_hour_spend",
		AmountMinor: jitter(rng, baseDaily/10, 0.25),
		Currency:    g.settings.Currency,
		PeriodStart: peakStart,
		PeriodEnd:   peakStart.Add(time.Hour),
	})

	monthStart := domain.CalendarDay{Year: day.Year, Month: day.Month, Day: 1}
	shares := rng.Perm(len(services))
	for i, svc := range services {
		share := float64(shares[i]+1) / float64(len(services)*(len(services)+1)/2)
		amount := int64(math.Round(float64(baseDaily*int64(day.Day)) * share))
		aggs = append(aggs, domain.Aggregate{
			ID:          fmt.Sprintf("%04d-%02d:%s", day.Year, int(day.Month), svc),
			Label:       fmt.Sprintf("Month-to-date %s spend", svc),
			Metric:      "month_to_date_spend",
			Service:     svc,
			AmountMinor: amount,
			Currency:    g.settings.Currency,
			PeriodStart: monthStart.Time(),
			PeriodEnd:   day.AddDays(1).Time(),
		})
	}

	return aggs
}

func spendPoints(aggregates []domain.Aggregate) []domain.DataPoint {
	var points []domain.DataPoint
	for _, a := range aggregates {
		if a.Metric != "daily_spend" {
			continue
		}
		points = append(points, domain.DataPoint{
			Timestamp: a.PeriodStart,
			Value:     float64(a.AmountMinor) / 100,
		})
	}
	return points
}

// projectFrom bases a projection on the latest daily spend, in major units.
func projectFrom(tpl TimelineTemplate, aggregates []domain.Aggregate) TimelineTemplate {
	points := spendPoints(aggregates)
	if len(points) > 0 {
		tpl.Base = points[len(points)-1].Value
	}
	return tpl
}

func seriesPoints(rng *rand.Rand, day domain.CalendarDay, tpl TimelineTemplate) []domain.DataPoint {
	points := make([]domain.DataPoint, 0, timelinePoints)
	for i := 0; i < timelinePoints; i++ {
		offset := i - (timelinePoints - 1)
		if tpl.Forward {
			offset = i + 1
		}
		value := tpl.Base * (1 + tpl.Trend*float64(i)) * (1 + tpl.Noise*(2*rng.Float64()-1))
		points = append(points, domain.DataPoint{
			Timestamp: day.AddDays(offset).Time(),
			Value:     math.Round(value*100) / 100,
		})
	}
	return points
}

// uniqueID derives "<slug>-<6 hex>" from the stream salted by the item
// position, drawing again on collision.
func uniqueID(rng *rand.Rand, slug string, position int, seen map[string]struct{}) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		salt := uint32(position+1)*0x9e3779b1 + uint32(attempt)
		id := fmt.Sprintf("%s-%06x", slug, (rng.Uint32()^salt)&0xffffff)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		return id, nil
	}
	return "", apperrors.ContentGeneration(fmt.Sprintf("could not derive a unique id for %q", slug))
}

func referenceID(tenantID string, day domain.CalendarDay, stubID string) string {
	return uuid.NewSHA1(recommendationNamespace, []byte(tenantID+"|"+day.String()+"|"+stubID)).String()
}

func drawStatus(rng *rand.Rand) domain.RecommendationStatus {
	total := 0
	for _, sw := range statusDistribution {
		total += sw.weight
	}
	n := rng.IntN(total)
	for _, sw := range statusDistribution {
		if n < sw.weight {
			return sw.status
		}
		n -= sw.weight
	}
	return statusDistribution[len(statusDistribution)-1].status
}

// pick returns a count in [lo, hi].
func pick(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

func jitter(rng *rand.Rand, base int64, amplitude float64) int64 {
	return int64(math.Round(float64(base) * (1 + amplitude*(2*rng.Float64()-1))))
}
