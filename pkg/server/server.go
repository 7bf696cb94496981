package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	handlers "github.com/de-tools/ledger-atlas/pkg/handlers/analysis"
	ledgermiddleware "github.com/de-tools/ledger-atlas/pkg/server/middleware"
	"github.com/de-tools/ledger-atlas/pkg/services/analysis"
)

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Service analysis.Service
	Logger  zerolog.Logger
	// Registry receives the HTTP collectors and backs /metrics; nil creates one.
	Registry *prometheus.Registry
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	SlowThreshold   time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(config Config) (*WebAPI, error) {
	router, err := ConfigureRouter(config)
	if err != nil {
		return nil, err
	}

	shutdown := config.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = 10 * time.Second
	}

	logger := config.Dependencies.Logger
	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: shutdown,
	}, nil
}

func ConfigureRouter(config Config) (*chi.Mux, error) {
	deps := config.Dependencies
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	httpMetrics, err := ledgermiddleware.NewHTTPMetrics(registry)
	if err != nil {
		return nil, err
	}

	h := handlers.NewHandler(deps.Service)
	logger := deps.Logger

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(ledgermiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)
	router.Use(ledgermiddleware.Metrics(httpMetrics, config.SlowThreshold))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/classification", h.Classification)
		r.Post("/deviations", h.Deviations)
		r.Post("/trends", h.Trends)
		r.Post("/forecasts/rolling", h.RollingForecast)
		r.Post("/forecasts/series", h.SeriesForecast)
	})

	return router, nil
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
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
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
