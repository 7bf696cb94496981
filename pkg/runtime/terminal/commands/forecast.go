package commands

import (
	"github.com/spf13/cobra"

	"github.com/de-tools/ledger-atlas/pkg/adapters"
	"github.com/de-tools/ledger-atlas/pkg/config"
	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/services/forecast"
)

func NewForecastCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast revenue, expenses or any numeric series",
	}
	cmd.AddCommand(newRollingCmd(env))
	cmd.AddCommand(newSeriesCmd(env))
	return cmd
}

type RollingCmd struct {
	env           *Env
	current       []string
	historical    []string
	horizon       int
	method        string
	confidence    float64
	noSeasonality bool
}

func newRollingCmd(env *Env) *cobra.Command {
	rc := &RollingCmd{env: env}
	cmd := &cobra.Command{
		Use:   "rolling",
		Short: "Month by month forecast with seasonality and a year-end projection",
		Example: `  ledger forecast rolling --current 2024.json --historical 2022.json --historical 2023.json
  ledger forecast rolling --current prod@2024 --historical prod@2021-01-01..2023-12-31 --method hybrid`,
		RunE: rc.run,
	}

	cmd.Flags().StringArrayVar(&rc.current, "current", nil, "Bookings of the current year (file or profile@range), repeatable")
	cmd.Flags().StringArrayVar(&rc.historical, "historical", nil, "Historical bookings (file or profile@range), repeatable")
	cmd.Flags().IntVar(&rc.horizon, "horizon", 0, "Months to forecast, 1-24 (default from config)")
	cmd.Flags().StringVar(&rc.method, "method", "", "auto, seasonal, trend or hybrid (default from config)")
	cmd.Flags().Float64Var(&rc.confidence, "confidence", 0, "Confidence level, 0.90 or 0.95 (default from config)")
	cmd.Flags().BoolVar(&rc.noSeasonality, "no-seasonality", false, "Disable seasonality detection")

	_ = cmd.MarkFlagRequired("current")

	return cmd
}

func (rc *RollingCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg := rc.env.Service.Defaults().Rolling
	if cmd.Flags().Changed("horizon") {
		cfg.Horizon = rc.horizon
	}
	if cmd.Flags().Changed("method") {
		cfg.Method = domain.RollingMethod(rc.method)
	}
	if cmd.Flags().Changed("confidence") {
		if !config.IsConfidenceLevel(rc.confidence) {
			return errInvalidFlag("confidence", "must be 0.90 or 0.95")
		}
		cfg.ConfidenceLevel = rc.confidence
	}
	if rc.noSeasonality {
		cfg.SeasonalityDetection = false
	}
	if cfg.Horizon < 1 || cfg.Horizon > forecast.MaxHorizon {
		return errInvalidFlag("horizon", "must be between 1 and 24")
	}

	current, err := rc.env.loadAll(ctx, rc.current)
	if err != nil {
		return err
	}
	historical, err := rc.env.loadAll(ctx, rc.historical)
	if err != nil {
		return err
	}

	result, err := rc.env.Service.RollingForecast(ctx, current, historical, cfg)
	if err != nil {
		return err
	}
	return rc.env.Reporter.Render(adapters.MapRollingForecastToReport(result), adapters.MapRollingForecastDomainToApi(result))
}

type SeriesCmd struct {
	env     *Env
	values  []float64
	method  string
	horizon int
}

func newSeriesCmd(env *Env) *cobra.Command {
	sc := &SeriesCmd{env: env}
	cmd := &cobra.Command{
		Use:     "series",
		Short:   "Forecast the continuation of a numeric series",
		Example: `  ledger forecast series --values 120,135,150,171 --method exponential --horizon 3`,
		RunE:    sc.run,
	}

	cmd.Flags().Float64SliceVar(&sc.values, "values", nil, "Series values, oldest first")
	cmd.Flags().StringVar(&sc.method, "method", string(domain.ForecastMethodAuto), "linear, exponential, moving_average or auto")
	cmd.Flags().IntVar(&sc.horizon, "horizon", 1, "Steps to forecast")

	_ = cmd.MarkFlagRequired("values")

	return cmd
}

func (sc *SeriesCmd) run(cmd *cobra.Command, _ []string) error {
	if sc.horizon < 1 {
		return errInvalidFlag("horizon", "must be at least 1")
	}

	fc, err := sc.env.Service.ForecastSeries(cmd.Context(), sc.values, domain.ForecastMethod(sc.method), sc.horizon)
	if err != nil {
		return err
	}
	return sc.env.Reporter.Render(adapters.MapForecastToReport(sc.values, fc), adapters.MapForecastDomainToApi(fc))
}
