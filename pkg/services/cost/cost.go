package cost

import (
	"context"

	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/de-tools/blocks/pkg/services/generator"
)

// AggregateSource supplies the cost aggregates that assistant answers and KPI
// cards cite.
type AggregateSource interface {
	Name() string
	Aggregates(ctx context.Context, tenantID string, day domain.CalendarDay) ([]domain.Aggregate, error)
}

type mockSource struct {
	gen *generator.Generator
}

// NewMockSource serves the aggregates of the deterministic generator.
func NewMockSource(gen *generator.Generator) AggregateSource {
	return &mockSource{gen: gen}
}

func (m *mockSource) Name() string {
	return MockSourceName
}

func (m *mockSource) Aggregates(_ context.Context, tenantID string, day domain.CalendarDay) ([]domain.Aggregate, error) {
	content, err := m.gen.Generate(tenantID, day)
	if err != nil {
		return nil, err
	}
	return content.Aggregates, nil
}
