package assistant

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/de-tools/blocks/pkg/services/generator"
	"github.com/de-tools/blocks/pkg/services/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var inlineMarker = regexp.MustCompile(`^\[REF:(agg|rec):[A-Za-z0-9:-]+\]$`)

func factsFor(t *testing.T, tenant string, day domain.CalendarDay) Facts {
	t.Helper()
	content, err := generator.New(generator.DefaultSettings()).Generate(tenant, day)
	require.NoError(t, err)
	return Facts{
		Day:             day,
		Aggregates:      content.Aggregates,
		Recommendations: content.Recommendations,
		Timelines:       content.Timelines,
	}
}

func TestBuildResponse_OptimizationOpportunities(t *testing.T) {
	facts := factsFor(t, "tenant-A", domain.CalendarDay{Year: 2025, Month: 9, Day: 19})

	resp, err := NewBuilder(0).BuildResponse("What are my optimization opportunities?", QueryContext{}, facts)

	require.NoError(t, err)
	assert.Contains(t, resp.Response, "[REF:")
	require.NotEmpty(t, resp.References)
	for _, ref := range resp.References {
		assert.True(t, reference.IsValidToken(ref), ref)
		assert.True(t, strings.HasPrefix(ref, "rec:"), ref)
	}
	assert.Len(t, resp.References, 3)
	assert.Equal(t, []string{"optimization"}, resp.Meta.Topics)
	assert.Len(t, resp.Sources, len(resp.References))
	assert.NoError(t, reference.Validate(resp))
}

func TestBuildResponse_ReferencesInFirstSeenOrder(t *testing.T) {
	facts := factsFor(t, "tenant-A", domain.CalendarDay{Year: 2025, Month: 9, Day: 19})

	resp, err := NewBuilder(0).BuildResponse("How much did I spend and how can I save?", QueryContext{}, facts)

	require.NoError(t, err)
	assert.Equal(t, reference.Dedupe(reference.Extract(resp.Response)), resp.References)
	assert.True(t, strings.HasPrefix(resp.References[0], "agg:"))
	assert.Equal(t, []string{"cost", "optimization"}, resp.Meta.Topics)
}

func TestBuildResponse_Conversational(t *testing.T) {
	resp, err := NewBuilder(0).BuildResponse("Hello there!", QueryContext{}, Facts{})

	require.NoError(t, err)
	assert.NotContains(t, resp.Response, "[REF:")
	assert.Empty(t, resp.References)
	assert.NotNil(t, resp.References)
	assert.NoError(t, reference.Validate(resp))
}

func TestBuildResponse_EmptyPrompt(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\n\t"} {
		_, err := NewBuilder(0).BuildResponse(prompt, QueryContext{}, Facts{})

		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	}
}

func TestBuildResponse_NoFactsForSubstantivePrompt(t *testing.T) {
	_, err := NewBuilder(0).BuildResponse("What did I spend?", QueryContext{}, Facts{})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindContentGeneration, apperrors.KindOf(err))
}

func TestBuildResponse_FocusedRecommendation(t *testing.T) {
	facts := factsFor(t, "tenant-A", domain.CalendarDay{Year: 2025, Month: 2, Day: 3})
	target := facts.Recommendations[2]

	for _, id := range []string{target.ID, target.ReferenceID} {
		resp, err := NewBuilder(0).BuildResponse("Tell me more", QueryContext{RecommendationID: id}, facts)

		require.NoError(t, err)
		assert.Equal(t, []string{"rec:" + target.ReferenceID}, resp.References)
		assert.Contains(t, resp.Response, target.Title)
		assert.NoError(t, reference.Validate(resp))
	}

	_, err := NewBuilder(0).BuildResponse("Tell me more", QueryContext{RecommendationID: "nope"}, facts)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestBuildResponse_TrendCitesProjectionBase(t *testing.T) {
	d := domain.CalendarDay{Year: 2025, Month: 9, Day: 19}
	facts := Facts{
		Day: d,
		Aggregates: []domain.Aggregate{
			{ID: "2025-09-18", Metric: "daily_spend", AmountMinor: 210_000, Currency: "USD"},
			{ID: "2025-09-19", Metric: "daily_spend", AmountMinor: 240_000, Currency: "USD"},
		},
		Timelines: []domain.TimelineBlock{
			{ID: "spend-projection-0a1b2c", Title: "Daily spend projection", MetricType: domain.MetricProjection, TimeRange: "Next 7 days"},
		},
	}

	resp, err := NewBuilder(0).BuildResponse("Show me the trend", QueryContext{}, facts)

	require.NoError(t, err)
	assert.Equal(t, []string{"trend"}, resp.Meta.Topics)
	assert.Contains(t, resp.Response, `"Daily spend projection" timeline extends the 2025-09-19 spend`)
	assert.Contains(t, resp.Response, "illustrative estimate [REF:agg:2025-09-19]")
	assert.Equal(t, []string{"agg:2025-09-18", "agg:2025-09-19"}, resp.References)
	assert.NoError(t, reference.Validate(resp))
}

func TestBuildResponse_CitationCompletenessProperty(t *testing.T) {
	prompts := []string{
		"What are my optimization opportunities?",
		"How much am I spending?",
		"Show me the spend trend for this week",
		"Any recommendations?",
		"Why is my bill so high and what should I do?",
		"What's the weather like?",
		"thanks!",
		"peak hour costs",
	}
	builder := NewBuilder(0)
	start := domain.CalendarDay{Year: 2025, Month: 1, Day: 1}

	for i := 0; i < 60; i++ {
		day := start.AddDays(i * 5)
		facts := factsFor(t, fmt.Sprintf("tenant-%d", i%4), day)
		for _, prompt := range prompts {
			resp, err := builder.BuildResponse(prompt, QueryContext{}, facts)
			require.NoError(t, err, prompt)
			require.NoError(t, reference.Validate(resp), prompt)

			for _, token := range reference.Extract(resp.Response) {
				assert.Contains(t, resp.References, token)
				assert.Regexp(t, inlineMarker, "[REF:"+token+"]")
			}
			topics := Classify(prompt)
			if topics[0] != TopicConversational {
				assert.NotEmpty(t, resp.References, prompt)
			}
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		prompt   string
		expected []Topic
	}{
		{"What are my optimization opportunities?", []Topic{TopicOptimization}},
		{"How much did we SPEND last week?", []Topic{TopicCost, TopicTrend}},
		{"Any recommendations?", []Topic{TopicRecommendation}},
		{"hi", []Topic{TopicConversational}},
		{"hi, what is my bill?", []Topic{TopicCost}},
		{"Tell me a joke", []Topic{TopicGeneral}},
	}

	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.prompt))
		})
	}
}

func TestFormatMinor(t *testing.T) {
	assert.Equal(t, "$0.05", formatMinor(5, "USD"))
	assert.Equal(t, "$1,234.56", formatMinor(123456, "USD"))
	assert.Equal(t, "$1,234,567.00", formatMinor(123456700, ""))
	assert.Equal(t, "-$10.00", formatMinor(-1000, "USD"))
	assert.Equal(t, "999.99 EUR", formatMinor(99999, "EUR"))
	assert.Equal(t, "+10.0%", percentChange(100, 110))
	assert.Equal(t, "n/a", percentChange(0, 110))
}
