package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	assistanthandler "github.com/de-tools/blocks/pkg/handlers/assistant"
	contenthandler "github.com/de-tools/blocks/pkg/handlers/content"
	onboardinghandler "github.com/de-tools/blocks/pkg/handlers/onboarding"
	telemetryhandler "github.com/de-tools/blocks/pkg/handlers/telemetry"
	"github.com/de-tools/blocks/pkg/metrics"
	blocksmiddleware "github.com/de-tools/blocks/pkg/server/middleware"
	"github.com/de-tools/blocks/pkg/services/awsprofile"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Assistant       assistanthandler.Assistant
	Recommendations contenthandler.RecommendationLister
	Generator       contenthandler.ContentGenerator
	KPIs            contenthandler.KPIProvider
	Profiles        awsprofile.Registry
	Telemetry       telemetryhandler.Collector
	Metrics         *metrics.Metrics
	Gatherer        prometheus.Gatherer
	// Now is the clock used when a request has no date parameter.
	Now func() time.Time
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(logger, config.Dependencies)

	shutdownTimeout := config.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

// ConfigureRouter mounts every route under /api/v1 and again at the root.
func ConfigureRouter(logger zerolog.Logger, deps Dependencies) *chi.Mux {
	assistant := assistanthandler.NewHandler(deps.Assistant, deps.Now)
	content := contenthandler.NewHandler(deps.Recommendations, deps.Generator, deps.KPIs, deps.Metrics, deps.Now)
	onboarding := onboardinghandler.NewHandler(deps.Profiles)
	telemetry := telemetryhandler.NewHandler(deps.Telemetry)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(blocksmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)
	router.Use(blocksmiddleware.RequestContext)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	routes := func(r chi.Router) {
		r.Post("/assistant/query", assistant.Query)
		r.Get("/recommendations", content.ListRecommendations)
		r.Get("/timelines", content.ListTimelines)
		r.Get("/dashboard/kpis", content.GetKPIs)
		r.Get("/aws/profiles", onboarding.ListProfiles)
		r.Post("/aws/connections/validate", onboarding.ValidateConnection)
		r.Post("/telemetry/marks", telemetry.RecordMarks)
	}
	router.Route("/api/v1", routes)
	router.Group(routes)

	return router
}

func (w *WebAPI) Handler() http.Handler {
	return w.router
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
