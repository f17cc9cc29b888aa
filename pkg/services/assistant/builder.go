// Package assistant answers natural-language questions about the tenant's
// cloud costs. Every factual claim in an answer is followed by an inline
// [REF:...] marker that resolves to the aggregate or recommendation it came from.
package assistant

import (
	"fmt"
	"strings"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/models/domain"
)

const defaultMaxRecommendations = 3

// Facts are the day's data a response may cite.
type Facts struct {
	Day             domain.CalendarDay
	Aggregates      []domain.Aggregate
	Recommendations []domain.RecommendationStub
	Timelines       []domain.TimelineBlock
}

type QueryContext struct {
	ConversationID string
	// RecommendationID focuses the answer on one stub, by slug or reference id.
	RecommendationID string
}

type ResponseBuilder interface {
	BuildResponse(prompt string, qc QueryContext, facts Facts) (domain.AssistantResponse, error)
}

type Builder struct {
	maxRecommendations int
}

func NewBuilder(maxRecommendations int) *Builder {
	if maxRecommendations <= 0 {
		maxRecommendations = defaultMaxRecommendations
	}
	return &Builder{maxRecommendations: maxRecommendations}
}

func (b *Builder) BuildResponse(prompt string, qc QueryContext, facts Facts) (domain.AssistantResponse, error) {
	if strings.TrimSpace(prompt) == "" {
		return domain.AssistantResponse{}, errPromptRequired()
	}

	c := newComposer(facts)
	topics := Classify(prompt)

	if qc.RecommendationID != "" {
		rec, ok := findRecommendation(facts.Recommendations, qc.RecommendationID)
		if !ok {
			return domain.AssistantResponse{}, apperrors.Validation(
				"context.recommendationId",
				"unknown recommendation",
				"Use the id of a recommendation returned by GET /recommendations for today",
			)
		}
		b.writeFocused(c, rec)
		return c.result(topics, 0.9)
	}

	switch topics[0] {
	case TopicConversational:
		c.sentence("Hi! I can break down your cloud spend, show how it is trending and point out savings opportunities.")
		c.sentence(`Try asking "What are my optimization opportunities?"`)
		return c.resultAllowEmpty(topics, 1)
	case TopicGeneral:
		b.writeSnapshot(c, facts)
		return c.result(topics, 0.6)
	}

	recsWritten := false
	for _, topic := range topics {
		switch topic {
		case TopicCost:
			b.writeCost(c, facts)
		case TopicTrend:
			b.writeTrend(c, facts)
		case TopicOptimization, TopicRecommendation:
			if !recsWritten {
				b.writeRecommendations(c, facts)
				recsWritten = true
			}
		}
	}
	if len(c.refs) == 0 {
		// nothing topical to cite, fall back to the snapshot
		b.writeSnapshot(c, facts)
	}
	return c.result(topics, 0.85)
}

func (b *Builder) writeCost(c *composer, facts Facts) {
	daily := aggregatesByMetric(facts.Aggregates, "daily_spend")
	if len(daily) == 0 {
		return
	}

	latest := daily[len(daily)-1]
	c.sentence(fmt.Sprintf("Spend on %s was %s", latest.ID, formatMinor(latest.AmountMinor, latest.Currency)), latest.Ref())

	if len(daily) > 1 {
		var total int64
		low, high := daily[0], daily[0]
		for _, a := range daily {
			total += a.AmountMinor
			if a.AmountMinor < low.AmountMinor {
				low = a
			}
			if a.AmountMinor > high.AmountMinor {
				high = a
			}
		}
		c.sentence(fmt.Sprintf("Over the last %d days you spent %s in total, from %s on %s",
			len(daily), formatMinor(total, latest.Currency), formatMinor(low.AmountMinor, low.Currency), low.ID), low.Ref())
		c.continueSentence(fmt.Sprintf("to %s on %s", formatMinor(high.AmountMinor, high.Currency), high.ID), high.Ref())
	}

	if peaks := aggregatesByMetric(facts.Aggregates, "peak_hour_spend"); len(peaks) > 0 {
		p := peaks[0]
		c.sentence(fmt.Sprintf("The busiest hour was %s at %s", p.PeriodStart.Format("15:04 UTC"), formatMinor(p.AmountMinor, p.Currency)), p.Ref())
	}

	if services := aggregatesByMetric(facts.Aggregates, "month_to_date_spend"); len(services) > 0 {
		top := services[0]
		for _, s := range services[1:] {
			if s.AmountMinor > top.AmountMinor {
				top = s
			}
		}
		c.sentence(fmt.Sprintf("Your largest service this month is %s with %s month to date",
			top.Service, formatMinor(top.AmountMinor, top.Currency)), top.Ref())
	}
}

func (b *Builder) writeTrend(c *composer, facts Facts) {
	daily := aggregatesByMetric(facts.Aggregates, "daily_spend")
	if len(daily) < 2 {
		return
	}

	first, last := daily[0], daily[len(daily)-1]
	c.sentence(fmt.Sprintf("Daily spend moved from %s on %s", formatMinor(first.AmountMinor, first.Currency), first.ID), first.Ref())
	c.continueSentence(fmt.Sprintf("to %s on %s (%s)",
		formatMinor(last.AmountMinor, last.Currency), last.ID, percentChange(first.AmountMinor, last.AmountMinor)), last.Ref())

	for _, block := range facts.Timelines {
		if block.MetricType == domain.MetricProjection {
			c.sentence(fmt.Sprintf("The %q timeline extends the %s spend of %s over the %s; it is an illustrative estimate",
				block.Title, last.ID, formatMinor(last.AmountMinor, last.Currency), strings.ToLower(block.TimeRange)), last.Ref())
			break
		}
	}
}

func (b *Builder) writeRecommendations(c *composer, facts Facts) {
	recs := facts.Recommendations
	if len(recs) == 0 {
		return
	}
	if len(recs) > b.maxRecommendations {
		recs = recs[:b.maxRecommendations]
	}

	c.sentence(fmt.Sprintf("Here are your top %d optimization opportunities:", len(recs)))
	var total int64
	for i, r := range recs {
		total += r.EstimatedMonthlySavingsMinor
		c.line(fmt.Sprintf("%d. %s: about %s per month, %s impact, %s",
			i+1, r.Title, formatMinor(r.EstimatedMonthlySavingsMinor, r.Currency),
			strings.ToLower(string(r.ImpactLevel)), ctaPhrase(r.Status)), r.Ref())
	}
	if len(recs) > 1 {
		c.sentence(fmt.Sprintf("Together these could save roughly %s per month", formatMinor(total, recs[0].Currency)), refsOf(recs)...)
	}
}

func (b *Builder) writeFocused(c *composer, r domain.RecommendationStub) {
	c.sentence(fmt.Sprintf("%s: %s", r.Title, strings.TrimSuffix(r.ShortDescription, ".")), r.Ref())
	if r.RationalePreview != "" {
		c.sentence(strings.TrimSuffix(r.RationalePreview, "."))
	}
	c.sentence(fmt.Sprintf("Estimated savings are %s per month with %s risk, and the recommendation is %s",
		formatMinor(r.EstimatedMonthlySavingsMinor, r.Currency), r.RiskLevel, ctaPhrase(r.Status)), r.Ref())
}

func (b *Builder) writeSnapshot(c *composer, facts Facts) {
	if daily := aggregatesByMetric(facts.Aggregates, "daily_spend"); len(daily) > 0 {
		latest := daily[len(daily)-1]
		c.sentence(fmt.Sprintf("Here is a quick snapshot: spend on %s was %s",
			latest.ID, formatMinor(latest.AmountMinor, latest.Currency)), latest.Ref())
	}
	if len(facts.Recommendations) > 0 {
		top := facts.Recommendations[0]
		c.sentence(fmt.Sprintf("Your top opportunity is %q, worth about %s per month",
			top.Title, formatMinor(top.EstimatedMonthlySavingsMinor, top.Currency)), top.Ref())
	}
}

func ctaPhrase(status domain.RecommendationStatus) string {
	switch status.CTA() {
	case domain.CTATryNow:
		return "available to try now"
	case domain.CTANotifyMe:
		return "coming soon"
	default:
		return "on the roadmap"
	}
}

func aggregatesByMetric(aggs []domain.Aggregate, metric string) []domain.Aggregate {
	var out []domain.Aggregate
	for _, a := range aggs {
		if a.Metric == metric {
			out = append(out, a)
		}
	}
	return out
}

func findRecommendation(recs []domain.RecommendationStub, id string) (domain.RecommendationStub, bool) {
	for _, r := range recs {
		if r.ID == id || r.ReferenceID == id {
			return r, true
		}
	}
	return domain.RecommendationStub{}, false
}

func refsOf(recs []domain.RecommendationStub) []domain.ReferenceToken {
	refs := make([]domain.ReferenceToken, 0, len(recs))
	for _, r := range recs {
		refs = append(refs, r.Ref())
	}
	return refs
}

func errPromptRequired() error {
	return apperrors.Validation("prompt", "prompt is required", `Send a non-empty "prompt" string in the request body`)
}
