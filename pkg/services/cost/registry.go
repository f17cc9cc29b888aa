package cost

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/de-tools/blocks/pkg/services/generator"
)

const (
	MockSourceName = "mock"
	AWSSourceName  = "aws"
)

// Settings carries what a source factory may need.
type Settings struct {
	Generator  *generator.Generator
	AWSProfile string
	AWSRegion  string
	Timeout    time.Duration
}

// SourceFactory creates an AggregateSource from settings
type SourceFactory func(ctx context.Context, settings Settings) (AggregateSource, error)

// Registry manages aggregate source factories
type Registry interface {
	// Register adds a new source factory
	Register(name string, factory SourceFactory) error
	// Create instantiates the named source
	Create(ctx context.Context, name string, settings Settings) (AggregateSource, error)
	// ListSources returns the registered source names, sorted
	ListSources() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]SourceFactory
}

// NewRegistry creates a registry pre-populated with the given factories
func NewRegistry(factories map[string]SourceFactory) Registry {
	r := &registry{factories: make(map[string]SourceFactory, len(factories))}
	for name, f := range factories {
		r.factories[name] = f
	}
	return r
}

func MockSourceFactory(_ context.Context, settings Settings) (AggregateSource, error) {
	if settings.Generator == nil {
		return nil, fmt.Errorf("mock source requires a generator")
	}
	return NewMockSource(settings.Generator), nil
}

func (r *registry) Register(name string, factory SourceFactory) error {
	if name == "" {
		return fmt.Errorf("source name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("source %q is already registered", name)
	}

	r.factories[name] = factory
	return nil
}

func (r *registry) Create(ctx context.Context, name string, settings Settings) (AggregateSource, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("source %q is not registered", name)
	}

	src, err := factory(ctx, settings)
	if err != nil {
		return nil, err
	}
	if name != MockSourceName && settings.Timeout > 0 {
		src = WithTimeout(src, settings.Timeout)
	}
	return src, nil
}

func (r *registry) ListSources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
