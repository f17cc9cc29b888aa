package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/de-tools/blocks/pkg/metrics"
	"github.com/de-tools/blocks/pkg/server"
	"github.com/de-tools/blocks/pkg/services/assistant"
	"github.com/de-tools/blocks/pkg/services/awsprofile"
	"github.com/de-tools/blocks/pkg/services/config"
	"github.com/de-tools/blocks/pkg/services/cost"
	"github.com/de-tools/blocks/pkg/services/cost/awsce"
	"github.com/de-tools/blocks/pkg/services/dashboard"
	"github.com/de-tools/blocks/pkg/services/generator"
	"github.com/de-tools/blocks/pkg/services/recommendations"
	"github.com/de-tools/blocks/pkg/store/marks"
	"github.com/de-tools/blocks/pkg/telemetry"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Blocks",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a blocks YAML config file (defaults and BLOCKS_* env vars apply without one)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := cfg.Logger()
	ctx, cancel := context.WithCancel(logger.WithContext(cmd.Context()))
	defer cancel()

	settings := generator.DefaultSettings()
	settings.MinRecommendations = cfg.Generator.MinRecommendations
	settings.MinTimelines = cfg.Generator.MinTimelines
	settings.Currency = cfg.Generator.Currency
	gen := generator.New(settings)

	sources := cost.NewRegistry(map[string]cost.SourceFactory{
		cost.MockSourceName: cost.MockSourceFactory,
		cost.AWSSourceName:  awsce.SourceFactory,
	})
	source, err := sources.Create(ctx, cfg.Cost.Source, cost.Settings{
		Generator:  gen,
		AWSProfile: cfg.Cost.Profile,
		AWSRegion:  cfg.Cost.Region,
		Timeout:    cfg.Cost.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create %s aggregate source: %w", cfg.Cost.Source, err)
	}

	awsConfig, awsCredentials := awsprofile.DefaultPaths()
	if cfg.AWS.ConfigFile != "" {
		awsConfig = cfg.AWS.ConfigFile
	}
	if cfg.AWS.CredentialsFile != "" {
		awsCredentials = cfg.AWS.CredentialsFile
	}
	profiles, err := awsprofile.NewRegistry(awsConfig, awsCredentials)
	if err != nil {
		return fmt.Errorf("failed to create aws profile registry: %w", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	sinks := []telemetry.Sink{
		telemetry.NewLogSink(logger),
		telemetry.NewHistogramSink(m.PerformanceMarks),
	}
	if cfg.Telemetry.DatabaseURL != "" {
		db, err := marks.Open(ctx, marks.Settings{
			DSN:          cfg.Telemetry.DatabaseURL,
			MaxOpenConns: cfg.Telemetry.MaxConnections,
			MaxIdleConns: cfg.Telemetry.MaxConnections,
		})
		if err != nil {
			return fmt.Errorf("failed to open telemetry database: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close telemetry database")
			}
		}()
		markStore, err := marks.NewStore(db)
		if err != nil {
			return err
		}
		sinks = append(sinks, telemetry.NewStoreSink(markStore))
	}
	collector := telemetry.NewCollector(telemetry.Config{
		BufferSize:    cfg.Telemetry.BufferSize,
		FlushInterval: cfg.Telemetry.FlushInterval,
	}, telemetry.MultiSink(sinks...))
	go collector.Run(ctx)
	defer func() {
		if err := collector.OnUnload(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("failed to flush telemetry on shutdown")
		}
	}()

	logger.Info().
		Str("source", source.Name()).
		Str("telemetry_session", collector.SessionID()).
		Bool("telemetry_persisted", cfg.Telemetry.DatabaseURL != "").
		Msgf("Configuration loaded, %d cost sources registered", len(sources.ListSources()))

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Assistant:       assistant.NewService(gen, source, assistant.NewBuilder(cfg.Assistant.MaxRecommendations), m),
			Recommendations: recommendations.NewService(gen),
			Generator:       gen,
			KPIs:            dashboard.NewService(gen, source),
			Profiles:        profiles,
			Telemetry:       collector,
			Metrics:         m,
			Gatherer:        prometheus.DefaultGatherer,
			Now:             time.Now,
		},
	})

	return webAPI.Start()
}
