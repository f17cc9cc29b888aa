package telemetry

import (
	"bytes"
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu      sync.Mutex
	batches [][]domain.PerformanceMark
	err     error
}

func (s *recordingSink) Emit(_ context.Context, marks []domain.PerformanceMark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, marks)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.batches {
		n += len(b)
	}
	return n
}

func TestNewCollector_Defaults(t *testing.T) {
	c := NewCollector(Config{}, &recordingSink{})

	assert.Equal(t, DefaultBufferSize, c.config.BufferSize)
	assert.Equal(t, DefaultFlushInterval, c.config.FlushInterval)
	_, err := uuid.Parse(c.SessionID())
	assert.NoError(t, err)
	assert.NotEqual(t, c.SessionID(), NewCollector(Config{}, &recordingSink{}).SessionID())
}

func TestCollector_RecordFlushesWhenFull(t *testing.T) {
	sink := &recordingSink{}
	c := NewCollector(Config{BufferSize: 3}, sink)
	fixed := time.Date(2025, 9, 19, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }
	ctx := context.Background()

	require.NoError(t, c.Record(ctx, domain.PerformanceMark{Name: "ttfb", Value: 12}))
	require.NoError(t, c.Record(ctx, domain.PerformanceMark{Name: "fcp", Value: 80, SessionID: "client"}))
	assert.Empty(t, sink.batches)
	assert.Equal(t, 2, c.Pending())

	require.NoError(t, c.Record(ctx, domain.PerformanceMark{Name: "lcp", Value: 140}))

	require.Len(t, sink.batches, 1)
	batch := sink.batches[0]
	require.Len(t, batch, 3)
	assert.Equal(t, fixed, batch[0].Timestamp)
	assert.Equal(t, c.SessionID(), batch[0].SessionID)
	assert.Equal(t, "client", batch[1].SessionID)
	assert.Equal(t, 0, c.Pending())
}

func TestCollector_FlushEmpty(t *testing.T) {
	sink := &recordingSink{}
	c := NewCollector(Config{}, sink)

	require.NoError(t, c.Flush(context.Background()))
	assert.Empty(t, sink.batches)
}

func TestCollector_FlushSinkError(t *testing.T) {
	sink := &recordingSink{err: errors.New("sink down")}
	c := NewCollector(Config{}, sink)
	require.NoError(t, c.Record(context.Background(), domain.PerformanceMark{Name: "ttfb", Value: 1}))

	err := c.Flush(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink down")
	assert.Equal(t, 0, c.Pending())
}

func TestCollector_RecordValidation(t *testing.T) {
	c := NewCollector(Config{}, &recordingSink{})

	tests := []domain.PerformanceMark{
		{Name: "", Value: 1},
		{Name: "  ", Value: 1},
		{Name: string(bytes.Repeat([]byte("a"), 200)), Value: 1},
		{Name: "ttfb", Value: -1},
		{Name: "ttfb", Value: math.NaN()},
		{Name: "ttfb", Value: math.Inf(1)},
	}
	for _, mark := range tests {
		err := c.Record(context.Background(), mark)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err), mark.Name)
	}
	assert.Equal(t, 0, c.Pending())
}

func TestCollector_LifecycleHooks(t *testing.T) {
	sink := &recordingSink{}
	c := NewCollector(Config{}, sink)
	ctx := context.Background()

	require.NoError(t, c.Record(ctx, domain.PerformanceMark{Name: "a", Value: 1}))
	require.NoError(t, c.OnHide(ctx))
	assert.Equal(t, 1, sink.count())

	require.NoError(t, c.Record(ctx, domain.PerformanceMark{Name: "b", Value: 2}))
	require.NoError(t, c.OnUnload(ctx))
	assert.Equal(t, 2, sink.count())

	assert.Error(t, c.Record(ctx, domain.PerformanceMark{Name: "c", Value: 3}))
}

func TestCollector_Run(t *testing.T) {
	sink := &recordingSink{}
	c := NewCollector(Config{FlushInterval: 10 * time.Millisecond}, sink)
	ctx, cancel := context.WithCancel(zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background()))

	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	require.NoError(t, c.Record(ctx, domain.PerformanceMark{Name: "a", Value: 1}))
	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Record(ctx, domain.PerformanceMark{Name: "b", Value: 1}))
	cancel()
	<-done
	assert.Equal(t, 2, sink.count())
}

func TestSinks(t *testing.T) {
	reg := prometheus.NewRegistry()
	hist := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "marks_ms"}, []string{"name"})
	reg.MustRegister(hist)

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	failing := &recordingSink{err: errors.New("boom")}

	sink := MultiSink(NewLogSink(logger), NewHistogramSink(hist), failing)
	err := sink.Emit(context.Background(), []domain.PerformanceMark{
		{Name: "ttfb", Value: 10, SessionID: "s1", Attributes: map[string]string{"route": "/"}},
		{Name: "ttfb", Value: 30, SessionID: "s1"},
		{Name: "lcp", Value: 200, SessionID: "s1"},
	})

	require.Error(t, err)
	assert.Equal(t, 2, testutil.CollectAndCount(hist))
	assert.Contains(t, buf.String(), `"mark":"ttfb"`)
	assert.Contains(t, buf.String(), `"route":"/"`)
	assert.Equal(t, 3, failing.count())
}

type mockMarkWriter struct {
	mock.Mock
}

func (m *mockMarkWriter) SaveMarks(ctx context.Context, marks []domain.PerformanceMark) error {
	return m.Called(ctx, marks).Error(0)
}

func TestStoreSink(t *testing.T) {
	marks := []domain.PerformanceMark{{Name: "ttfb", Value: 12, SessionID: "s1"}}

	t.Run("persists batch", func(t *testing.T) {
		writer := new(mockMarkWriter)
		writer.On("SaveMarks", mock.Anything, marks).Return(nil).Once()

		require.NoError(t, NewStoreSink(writer).Emit(context.Background(), marks))
		writer.AssertExpectations(t)
	})

	t.Run("wraps writer error", func(t *testing.T) {
		writer := new(mockMarkWriter)
		writer.On("SaveMarks", mock.Anything, marks).Return(errors.New("db down")).Once()

		err := NewStoreSink(writer).Emit(context.Background(), marks)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to persist 1 marks")
		assert.Contains(t, err.Error(), "db down")
	})
}

func TestMarkLabel(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{name: "ttfb", expected: "ttfb"},
		{name: "assistant.ttfb", expected: "assistant.ttfb"},
		{name: "TTFB", expected: OtherMarkLabel},
		{name: "custom-1-2", expected: OtherMarkLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MarkLabel(tt.name))
		})
	}
}
