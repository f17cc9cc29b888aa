package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Sink receives flushed batches. Emit must not retain marks.
type Sink interface {
	Emit(ctx context.Context, marks []domain.PerformanceMark) error
}

type logSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) Sink {
	return &logSink{logger: logger}
}

func (s *logSink) Emit(_ context.Context, marks []domain.PerformanceMark) error {
	for _, m := range marks {
		event := s.logger.Debug().
			Str("mark", m.Name).
			Float64("value_ms", m.Value).
			Str("session_id", m.SessionID).
			Time("timestamp", m.Timestamp)
		if len(m.Attributes) > 0 {
			event = event.Interface("attributes", m.Attributes)
		}
		event.Msg("performance mark")
	}
	return nil
}

// OtherMarkLabel is the histogram label for mark names outside KnownMarks.
const OtherMarkLabel = "other"

// KnownMarks are the mark names exported as their own histogram series.
var KnownMarks = map[string]struct{}{
	"ttfb":                   {},
	"fcp":                    {},
	"lcp":                    {},
	"cls":                    {},
	"inp":                    {},
	"dashboard.render":       {},
	"recommendations.render": {},
	"timelines.render":       {},
	"assistant.ttfb":         {},
	"assistant.response":     {},
	"assistant.stream.first": {},
	"onboarding.profiles":    {},
	"onboarding.validate":    {},
}

// MarkLabel maps a client-supplied mark name onto the closed label set.
func MarkLabel(name string) string {
	if _, ok := KnownMarks[name]; ok {
		return name
	}
	return OtherMarkLabel
}

type histogramSink struct {
	histogram *prometheus.HistogramVec
}

// NewHistogramSink observes each mark's value labelled by MarkLabel of its name.
func NewHistogramSink(histogram *prometheus.HistogramVec) Sink {
	return &histogramSink{histogram: histogram}
}

func (s *histogramSink) Emit(_ context.Context, marks []domain.PerformanceMark) error {
	for _, m := range marks {
		s.histogram.WithLabelValues(MarkLabel(m.Name)).Observe(m.Value)
	}
	return nil
}

// MarkWriter persists flushed marks.
type MarkWriter interface {
	SaveMarks(ctx context.Context, marks []domain.PerformanceMark) error
}

type storeSink struct {
	writer MarkWriter
}

func NewStoreSink(writer MarkWriter) Sink {
	return &storeSink{writer: writer}
}

func (s *storeSink) Emit(ctx context.Context, marks []domain.PerformanceMark) error {
	if err := s.writer.SaveMarks(ctx, marks); err != nil {
		return fmt.Errorf("failed to persist %d marks: %w", len(marks), err)
	}
	return nil
}

type multiSink []Sink

func MultiSink(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (ms multiSink) Emit(ctx context.Context, marks []domain.PerformanceMark) error {
	var errs []error
	for _, s := range ms {
		if err := s.Emit(ctx, marks); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
