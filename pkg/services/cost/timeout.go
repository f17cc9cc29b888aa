package cost

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/rs/zerolog"
)

type boundedSource struct {
	next    AggregateSource
	timeout time.Duration
}

// WithTimeout bounds every call to next. Failures, including deadline
// expiry, are reported as external service errors. Nothing is retried.
func WithTimeout(next AggregateSource, timeout time.Duration) AggregateSource {
	return &boundedSource{next: next, timeout: timeout}
}

func (b *boundedSource) Name() string {
	return b.next.Name()
}

func (b *boundedSource) Aggregates(ctx context.Context, tenantID string, day domain.CalendarDay) ([]domain.Aggregate, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	aggs, err := b.next.Aggregates(ctx, tenantID, day)
	if err == nil {
		return aggs, nil
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return nil, err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("timed out after %s: %w", b.timeout, err)
	}
	zerolog.Ctx(ctx).Error().
		Err(err).
		Str("source", b.next.Name()).
		Str("tenant", tenantID).
		Msg("aggregate source call failed")

	return nil, apperrors.ExternalService(b.next.Name(), err)
}
