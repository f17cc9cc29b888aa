package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/metrics"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/de-tools/blocks/pkg/services/cost"
	"github.com/de-tools/blocks/pkg/services/generator"
	"github.com/de-tools/blocks/pkg/services/reference"
	"github.com/rs/zerolog"
)

type ContentGenerator interface {
	Generate(tenantID string, day domain.CalendarDay) (domain.Content, error)
}

type Service struct {
	gen     ContentGenerator
	source  cost.AggregateSource
	builder ResponseBuilder
	metrics *metrics.Metrics
}

// NewService wires the assistant. A nil source uses the generator's aggregates.
func NewService(
	gen ContentGenerator,
	source cost.AggregateSource,
	builder ResponseBuilder,
	m *metrics.Metrics,
) *Service {
	return &Service{
		gen:     gen,
		source:  source,
		builder: builder,
		metrics: m,
	}
}

// Query answers req for the caller in rc using the facts of day. The returned
// response has passed reference validation.
func (s *Service) Query(
	ctx context.Context,
	rc domain.RequestContext,
	day domain.CalendarDay,
	req domain.QueryRequest,
) (domain.AssistantResponse, error) {
	resp, err := s.query(ctx, rc, day, req)
	if err != nil {
		s.metrics.AssistantQueries.WithLabelValues(apperrors.KindOf(err).String()).Inc()
		return domain.AssistantResponse{}, err
	}
	s.metrics.AssistantQueries.WithLabelValues("ok").Inc()
	s.metrics.CitationsPerResponse.Observe(float64(len(resp.References)))
	return resp, nil
}

func (s *Service) query(
	ctx context.Context,
	rc domain.RequestContext,
	day domain.CalendarDay,
	req domain.QueryRequest,
) (domain.AssistantResponse, error) {
	logger := zerolog.Ctx(ctx)

	if strings.TrimSpace(req.Prompt) == "" {
		return domain.AssistantResponse{}, errPromptRequired()
	}
	qc, err := queryContext(req)
	if err != nil {
		return domain.AssistantResponse{}, err
	}

	started := time.Now()
	content, err := s.gen.Generate(rc.TenantID, day)
	s.metrics.GenerationDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		logger.Error().Err(err).Str("request_id", rc.RequestID).Str("tenant", rc.TenantID).Msg("content generation failed")
		return domain.AssistantResponse{}, err
	}

	facts := Facts{
		Day:             day,
		Aggregates:      content.Aggregates,
		Recommendations: content.Recommendations,
		Timelines:       content.Timelines,
	}
	dataSource := cost.MockSourceName
	if s.source != nil && s.source.Name() != cost.MockSourceName {
		aggs, err := s.source.Aggregates(ctx, rc.TenantID, day)
		if err != nil {
			return domain.AssistantResponse{}, err
		}
		facts.Aggregates = aggs
		dataSource = s.source.Name()
	}

	resp, err := s.builder.BuildResponse(req.Prompt, qc, facts)
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindValidation {
			logger.Error().Err(err).Str("request_id", rc.RequestID).Msg("failed to build assistant response")
		}
		return domain.AssistantResponse{}, err
	}

	if err := reference.Validate(resp); err != nil {
		s.metrics.ReferenceIntegrityFailures.Inc()
		logger.Error().
			Err(err).
			Str("request_id", rc.RequestID).
			Str("tenant", rc.TenantID).
			Msg("assistant response failed reference validation, rebuilding references")

		resp = reference.Reconcile(resp)
		if err := reference.Validate(resp); err != nil {
			logger.Error().Err(err).Str("request_id", rc.RequestID).Msg("assistant response rejected")
			return domain.AssistantResponse{}, err
		}
	}

	resp.Meta.RequestID = rc.RequestID
	resp.Meta.TenantID = rc.TenantID
	resp.Meta.ConversationID = req.ConversationID
	resp.Meta.Day = day
	resp.Meta.DataSource = dataSource
	resp.Meta.Streamed = req.Stream
	return resp, nil
}

func queryContext(req domain.QueryRequest) (QueryContext, error) {
	qc := QueryContext{ConversationID: req.ConversationID}
	raw, ok := req.Context["recommendationId"]
	if !ok || raw == nil {
		return qc, nil
	}
	id, ok := raw.(string)
	if !ok {
		return qc, apperrors.Validation(
			"context.recommendationId",
			fmt.Sprintf("recommendationId must be a string, got %T", raw),
			"Pass the recommendation id as a string",
		)
	}
	qc.RecommendationID = id
	return qc, nil
}

var _ ContentGenerator = (*generator.Generator)(nil)
