package cost

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/de-tools/blocks/pkg/services/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	delay time.Duration
	err   error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Aggregates(ctx context.Context, _ string, _ domain.CalendarDay) ([]domain.Aggregate, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Aggregate{{ID: "2025-01-01", Metric: "daily_spend"}}, nil
}

var testDay = domain.CalendarDay{Year: 2025, Month: 1, Day: 1}

func TestMockSource_MatchesGenerator(t *testing.T) {
	gen := generator.New(generator.DefaultSettings())
	content, err := gen.Generate("tenant-A", testDay)
	require.NoError(t, err)

	aggs, err := NewMockSource(gen).Aggregates(context.Background(), "tenant-A", testDay)

	require.NoError(t, err)
	assert.Equal(t, content.Aggregates, aggs)
}

func TestWithTimeout(t *testing.T) {
	tests := []struct {
		name         string
		source       *stubSource
		expectedKind apperrors.Kind
		expectErr    bool
	}{
		{
			name:   "fast source",
			source: &stubSource{},
		},
		{
			name:         "slow source times out",
			source:       &stubSource{delay: time.Second},
			expectedKind: apperrors.KindExternalService,
			expectErr:    true,
		},
		{
			name:         "failing source",
			source:       &stubSource{err: errors.New("throttled")},
			expectedKind: apperrors.KindExternalService,
			expectErr:    true,
		},
		{
			name:         "app errors pass through",
			source:       &stubSource{err: apperrors.ContentGeneration("pool")},
			expectedKind: apperrors.KindContentGeneration,
			expectErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := WithTimeout(tt.source, 20*time.Millisecond)

			aggs, err := src.Aggregates(context.Background(), "tenant-A", testDay)

			if !tt.expectErr {
				require.NoError(t, err)
				assert.Len(t, aggs, 1)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.expectedKind, apperrors.KindOf(err))
		})
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(map[string]SourceFactory{MockSourceName: MockSourceFactory})

	assert.Error(t, reg.Register(MockSourceName, MockSourceFactory))
	assert.Error(t, reg.Register("", MockSourceFactory))
	assert.Error(t, reg.Register("nil", nil))
	require.NoError(t, reg.Register("stub", func(context.Context, Settings) (AggregateSource, error) {
		return &stubSource{}, nil
	}))
	assert.Equal(t, []string{"mock", "stub"}, reg.ListSources())

	src, err := reg.Create(context.Background(), MockSourceName, Settings{Generator: generator.New(generator.DefaultSettings())})
	require.NoError(t, err)
	assert.Equal(t, MockSourceName, src.Name())

	_, err = reg.Create(context.Background(), MockSourceName, Settings{})
	assert.Error(t, err)

	_, err = reg.Create(context.Background(), "unknown", Settings{})
	assert.Error(t, err)

	bounded, err := reg.Create(context.Background(), "stub", Settings{Timeout: time.Second})
	require.NoError(t, err)
	assert.IsType(t, &boundedSource{}, bounded)
}
