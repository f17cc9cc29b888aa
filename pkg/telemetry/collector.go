// Package telemetry buffers client performance marks and flushes them to a sink
// on a timer, when the buffer fills up and on page lifecycle events.
package telemetry

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultBufferSize    = 50
	DefaultFlushInterval = 10 * time.Second
	maxMarkNameLength    = 128
)

type Config struct {
	BufferSize    int
	FlushInterval time.Duration
}

type Collector struct {
	mu        sync.Mutex
	buffer    []domain.PerformanceMark
	closed    bool
	sessionID string
	sink      Sink
	config    Config
	now       func() time.Time
}

func NewCollector(config Config, sink Sink) *Collector {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBufferSize
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = DefaultFlushInterval
	}
	return &Collector{
		buffer:    make([]domain.PerformanceMark, 0, config.BufferSize),
		sessionID: uuid.NewString(),
		sink:      sink,
		config:    config,
		now:       time.Now,
	}
}

func (c *Collector) SessionID() string {
	return c.sessionID
}

// Record buffers a mark, flushing when the buffer is full. Marks without a
// timestamp or session id get the collector's.
func (c *Collector) Record(ctx context.Context, mark domain.PerformanceMark) error {
	if err := ValidateMark(mark); err != nil {
		return err
	}
	if mark.Timestamp.IsZero() {
		mark.Timestamp = c.now().UTC()
	}
	if mark.SessionID == "" {
		mark.SessionID = c.sessionID
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("telemetry collector for session %s is closed", c.sessionID)
	}
	c.buffer = append(c.buffer, mark)
	full := len(c.buffer) >= c.config.BufferSize
	c.mu.Unlock()

	if full {
		return c.Flush(ctx)
	}
	return nil
}

// Flush hands the buffered marks to the sink. Marks are dropped when the sink
// fails.
func (c *Collector) Flush(ctx context.Context) error {
	c.mu.Lock()
	if len(c.buffer) == 0 {
		c.mu.Unlock()
		return nil
	}
	batch := c.buffer
	c.buffer = make([]domain.PerformanceMark, 0, c.config.BufferSize)
	c.mu.Unlock()

	if err := c.sink.Emit(ctx, batch); err != nil {
		return fmt.Errorf("failed to flush %d performance marks: %w", len(batch), err)
	}
	return nil
}

// Run flushes every FlushInterval until ctx is done, then flushes once more.
func (c *Collector) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx)
	ticker := time.NewTicker(c.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Flush(ctx); err != nil {
				logger.Warn().Err(err).Str("session_id", c.sessionID).Msg("telemetry flush failed")
			}
		case <-ctx.Done():
			if err := c.Flush(context.WithoutCancel(ctx)); err != nil {
				logger.Warn().Err(err).Str("session_id", c.sessionID).Msg("final telemetry flush failed")
			}
			return
		}
	}
}

// OnHide is called when the client hides the page.
func (c *Collector) OnHide(ctx context.Context) error {
	return c.Flush(ctx)
}

// OnUnload flushes and closes the collector; later marks are rejected.
func (c *Collector) OnUnload(ctx context.Context) error {
	err := c.Flush(ctx)
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return err
}

func (c *Collector) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buffer)
}

// ValidateMark reports why a mark would be rejected by Record.
func ValidateMark(mark domain.PerformanceMark) error {
	name := strings.TrimSpace(mark.Name)
	if name == "" {
		return apperrors.Validation("name", "mark name is required", "Name the mark, e.g. first-contentful-paint")
	}
	if len(name) > maxMarkNameLength {
		return apperrors.Validation("name", "mark name is too long", fmt.Sprintf("Use at most %d characters", maxMarkNameLength))
	}
	if math.IsNaN(mark.Value) || math.IsInf(mark.Value, 0) || mark.Value < 0 {
		return apperrors.Validation("value", "mark value must be a non-negative number of milliseconds", "")
	}
	return nil
}
