// Package forecast predicts the continuation of numeric series and builds the
// rolling month-by-month forecast of revenue and expenses.
package forecast

import (
	"fmt"
	"math"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/stats"
)

// MovingAverageConfidence is the fixed confidence of a moving-average forecast.
const MovingAverageConfidence = 0.6

// Config holds the per-method minimum series lengths.
type Config struct {
	MinLinearPoints      int `mapstructure:"min_linear_points" default:"3" validate:"gte=2"`
	MinExponentialPoints int `mapstructure:"min_exponential_points" default:"2" validate:"gte=2"`
	MovingAverageWindow  int `mapstructure:"moving_average_window" default:"3" validate:"gte=1"`
}

func DefaultConfig() Config {
	return Config{
		MinLinearPoints:      3,
		MinExponentialPoints: 2,
		MovingAverageWindow:  3,
	}
}

type Forecaster struct {
	cfg Config
}

func NewForecaster(cfg Config) *Forecaster {
	return &Forecaster{cfg: cfg}
}

// Predict forecasts horizon steps past the end of values.
func (f *Forecaster) Predict(values []float64, method domain.ForecastMethod, horizon int) (domain.Forecast, error) {
	if horizon < 1 {
		horizon = 1
	}

	switch method {
	case domain.ForecastMethodLinear:
		return f.linear(values, horizon)
	case domain.ForecastMethodExponential:
		return f.exponential(values, horizon)
	case domain.ForecastMethodMovingAverage:
		return f.movingAverage(values, horizon)
	case domain.ForecastMethodAuto, "":
		return f.auto(values, horizon)
	default:
		return domain.Forecast{}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

func (f *Forecaster) linear(values []float64, horizon int) (domain.Forecast, error) {
	if len(values) < f.cfg.MinLinearPoints {
		return domain.Forecast{}, insufficient(domain.ForecastMethodLinear, f.cfg.MinLinearPoints, len(values))
	}

	reg := stats.LinearRegression(values)
	last := float64(len(values) - 1)
	out := make([]float64, horizon)
	for h := range out {
		out[h] = reg.Predict(last + float64(h+1))
	}

	return domain.Forecast{
		Method:     domain.ForecastMethodLinear,
		Value:      out[0],
		Values:     out,
		Confidence: stats.Clamp(reg.R2, 0, 1),
		R2:         reg.R2,
	}, nil
}

// exponential regresses log(values) on the index and maps predictions back.
func (f *Forecaster) exponential(values []float64, horizon int) (domain.Forecast, error) {
	if len(values) < f.cfg.MinExponentialPoints {
		return domain.Forecast{}, insufficient(domain.ForecastMethodExponential, f.cfg.MinExponentialPoints, len(values))
	}
	if !stats.AllPositive(values) {
		return domain.Forecast{}, ErrNonPositiveSeries
	}

	logs := make([]float64, len(values))
	for i, v := range values {
		logs[i] = math.Log(v)
	}
	reg := stats.LinearRegression(logs)

	last := float64(len(values) - 1)
	out := make([]float64, horizon)
	for h := range out {
		v := math.Exp(reg.Predict(last + float64(h+1)))
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return domain.Forecast{}, fmt.Errorf("exponential forecast overflow at step %d", h+1)
		}
		out[h] = v
	}

	return domain.Forecast{
		Method:     domain.ForecastMethodExponential,
		Value:      out[0],
		Values:     out,
		Confidence: stats.Clamp(reg.R2, 0, 1),
		R2:         reg.R2,
	}, nil
}

func (f *Forecaster) movingAverage(values []float64, horizon int) (domain.Forecast, error) {
	w := f.cfg.MovingAverageWindow
	if len(values) < w {
		return domain.Forecast{}, insufficient(domain.ForecastMethodMovingAverage, w, len(values))
	}

	avg := stats.Mean(values[len(values)-w:])
	out := make([]float64, horizon)
	for h := range out {
		out[h] = avg
	}

	return domain.Forecast{
		Method:     domain.ForecastMethodMovingAverage,
		Value:      avg,
		Values:     out,
		Confidence: MovingAverageConfidence,
	}, nil
}

// auto fits a line and, for strictly positive series, an exponential curve,
// keeping whichever explains the history better.
func (f *Forecaster) auto(values []float64, horizon int) (domain.Forecast, error) {
	if len(values) < f.cfg.MinLinearPoints {
		return domain.Forecast{}, insufficient(domain.ForecastMethodAuto, f.cfg.MinLinearPoints, len(values))
	}

	lin, err := f.linear(values, horizon)
	if err != nil {
		return domain.Forecast{}, err
	}
	if !stats.AllPositive(values) {
		return lin, nil
	}

	exp, err := f.exponential(values, horizon)
	if err != nil {
		return lin, nil
	}
	if exp.Confidence > lin.Confidence {
		return exp, nil
	}
	return lin, nil
}
