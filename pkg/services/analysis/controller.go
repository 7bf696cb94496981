// Package analysis is the entry point used by the CLI and the HTTP API. It wires
// the engines from configuration and adds logging and metrics around them.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/ledger-atlas/pkg/config"
	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/services/classify"
	"github.com/de-tools/ledger-atlas/pkg/services/deviation"
	"github.com/de-tools/ledger-atlas/pkg/services/forecast"
	"github.com/de-tools/ledger-atlas/pkg/services/trend"
)

type Service interface {
	Deviations(ctx context.Context, previous, current []domain.Booking, cfg domain.DeviationConfig) (domain.AnalysisResult, error)
	Trends(ctx context.Context, periods []domain.Period) (domain.TrendAnalysisResult, error)
	RollingForecast(ctx context.Context, current, historical []domain.Booking, cfg domain.RollingForecastConfig) (domain.RollingForecastResult, error)
	ForecastSeries(ctx context.Context, values []float64, method domain.ForecastMethod, horizon int) (domain.Forecast, error)
	Classifier() classify.Classifier
	Defaults() Defaults
}

// Defaults are the configured parameters used when a request omits them.
type Defaults struct {
	MaterialityAbsolute float64
	MaterialityPercent  float64
	Rolling             domain.RollingForecastConfig
}

type Controller struct {
	classifier classify.Classifier
	deviation  *deviation.Engine
	trend      *trend.Engine
	rolling    *forecast.RollingEngine
	forecaster *forecast.Forecaster
	defaults   Defaults
	metrics    *Metrics
}

var _ Service = (*Controller)(nil)

func NewController(cfg *config.Config, metrics *Metrics) (*Controller, error) {
	classifier, err := cfg.Classifier()
	if err != nil {
		return nil, fmt.Errorf("failed to build classifier: %w", err)
	}
	if metrics == nil {
		if metrics, err = NewMetrics(nil); err != nil {
			return nil, err
		}
	}

	return &Controller{
		classifier: classifier,
		deviation:  deviation.NewEngine(classifier, cfg.Limits),
		trend:      trend.NewEngine(classifier, cfg.Trend),
		rolling:    forecast.NewRollingEngine(classifier),
		forecaster: forecast.NewForecaster(forecast.DefaultConfig()),
		defaults: Defaults{
			MaterialityAbsolute: cfg.Materiality.Absolute,
			MaterialityPercent:  cfg.Materiality.Percent,
			Rolling:             cfg.RollingConfig(),
		},
		metrics: metrics,
	}, nil
}

func (c *Controller) Classifier() classify.Classifier { return c.classifier }

func (c *Controller) Defaults() Defaults { return c.defaults }

func (c *Controller) Deviations(ctx context.Context, previous, current []domain.Booking, cfg domain.DeviationConfig) (domain.AnalysisResult, error) {
	var result domain.AnalysisResult
	err := c.run(ctx, KindDeviation, len(previous)+len(current), func() error {
		result = c.deviation.Analyze(previous, current, cfg)
		return nil
	})
	if err == nil {
		zerolog.Ctx(ctx).Info().
			Str("previous", cfg.PreviousLabel).
			Str("current", cfg.CurrentLabel).
			Int("material_accounts", result.Summary.MaterialAccounts).
			Int("material_cost_centers", result.Summary.MaterialCostCenters).
			Msg("deviation analysis completed")
	}
	return result, err
}

func (c *Controller) Trends(ctx context.Context, periods []domain.Period) (domain.TrendAnalysisResult, error) {
	var bookings int
	for _, p := range periods {
		bookings += len(p.Bookings)
	}

	var result domain.TrendAnalysisResult
	err := c.run(ctx, KindTrend, bookings, func() error {
		if len(periods) == 0 {
			return fmt.Errorf("trend analysis needs at least one period")
		}
		result = c.trend.AnalyzeTrends(periods)
		return nil
	})
	if err == nil {
		zerolog.Ctx(ctx).Info().
			Int("periods", len(periods)).
			Int("accounts", len(result.Accounts)).
			Int("alerts", len(result.Alerts)).
			Msg("trend analysis completed")
	}
	return result, err
}

func (c *Controller) RollingForecast(ctx context.Context, current, historical []domain.Booking, cfg domain.RollingForecastConfig) (domain.RollingForecastResult, error) {
	var result domain.RollingForecastResult
	err := c.run(ctx, KindRolling, len(current)+len(historical), func() (err error) {
		result, err = c.rolling.Generate(current, historical, cfg)
		return err
	})
	if err == nil {
		zerolog.Ctx(ctx).Info().
			Str("method", string(result.Method)).
			Int("history_months", result.HistoryMonths).
			Int("horizon", len(result.Forecasts)).
			Msg("rolling forecast completed")
	}
	return result, err
}

func (c *Controller) ForecastSeries(ctx context.Context, values []float64, method domain.ForecastMethod, horizon int) (domain.Forecast, error) {
	var result domain.Forecast
	err := c.run(ctx, KindSeries, 0, func() (err error) {
		result, err = c.forecaster.Predict(values, method, horizon)
		return err
	})
	return result, err
}

func (c *Controller) run(ctx context.Context, kind string, bookings int, fn func() error) error {
	logger := zerolog.Ctx(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	c.metrics.observe(kind, elapsed.Seconds(), bookings, err)

	if err != nil {
		logger.Warn().Err(err).Str("kind", kind).Msg("analysis failed")
		return fmt.Errorf("%s: %w", kind, err)
	}
	logger.Debug().Str("kind", kind).Int("bookings", bookings).Dur("elapsed", elapsed).Msg("analysis finished")
	return nil
}
