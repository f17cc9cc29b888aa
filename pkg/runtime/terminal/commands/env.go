package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/de-tools/blocks/pkg/services/config"
	"github.com/de-tools/blocks/pkg/services/cost"
	"github.com/de-tools/blocks/pkg/services/generator"
	"github.com/spf13/cobra"
)

// Env holds the persistent flags shared by every command.
type Env struct {
	Tenant     string
	Date       string
	ConfigPath string
	Source     string
	Registry   cost.Registry
	Now        func() time.Time
}

type Runtime struct {
	Config    *config.Config
	Generator *generator.Generator
	Source    cost.AggregateSource
}

func (e *Env) BindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&e.Tenant, "tenant", "t", "default", "Tenant to generate content for")
	flags.StringVarP(&e.Date, "date", "d", "", "Calendar day as YYYY-MM-DD (default is today in UTC)")
	flags.StringVarP(&e.ConfigPath, "config", "c", "", "Path to a blocks YAML config file")
	flags.StringVar(&e.Source, "source", "", "Aggregate source to use (overrides cost.source)")
}

func (e *Env) Day() (domain.CalendarDay, error) {
	if e.Date == "" {
		now := time.Now
		if e.Now != nil {
			now = e.Now
		}
		return domain.DayOf(now()), nil
	}
	return domain.ParseDay(e.Date)
}

// Load reads the configuration and builds the generator and aggregate source.
func (e *Env) Load(ctx context.Context) (*Runtime, error) {
	cfg, err := config.Load(e.ConfigPath)
	if err != nil {
		return nil, err
	}
	if e.Source != "" {
		cfg.Cost.Source = e.Source
	}

	settings := generator.DefaultSettings()
	settings.MinRecommendations = cfg.Generator.MinRecommendations
	settings.MinTimelines = cfg.Generator.MinTimelines
	settings.Currency = cfg.Generator.Currency
	gen := generator.New(settings)

	src, err := e.Registry.Create(ctx, cfg.Cost.Source, cost.Settings{
		Generator:  gen,
		AWSProfile: cfg.Cost.Profile,
		AWSRegion:  cfg.Cost.Region,
		Timeout:    cfg.Cost.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s source: %w", cfg.Cost.Source, err)
	}

	return &Runtime{Config: cfg, Generator: gen, Source: src}, nil
}
