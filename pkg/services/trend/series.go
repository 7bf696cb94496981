package trend

import (
	"errors"
	"math"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/services/forecast"
	"github.com/de-tools/ledger-atlas/pkg/stats"
)

const (
	volatileCV       = 0.5
	stableSlopeRatio = 0.1
	anomalySigma     = 2.0
	minAnomalyPoints = 3
	movingWindow     = 3
)

// Classify labels a series from its coefficient of variation and slope.
func Classify(cv, slope, stddev float64) domain.TrendClass {
	switch {
	case cv > volatileCV:
		return domain.TrendVolatile
	case slope == 0 || math.Abs(slope) < stableSlopeRatio*stddev:
		return domain.TrendStable
	case slope > 0:
		return domain.TrendRising
	default:
		return domain.TrendFalling
	}
}

func (e *Engine) series(labels []string, values []float64) domain.SeriesStats {
	mean := stats.Mean(values)
	sd := stats.SampleStdDev(values, mean)
	cv := stats.CoefficientOfVariation(sd, mean)
	reg := stats.LinearRegression(values)

	s := domain.SeriesStats{
		Labels:         labels,
		Values:         values,
		Mean:           mean,
		StdDev:         sd,
		CV:             cv,
		Slope:          reg.Slope,
		Intercept:      reg.Intercept,
		R2:             reg.R2,
		MovingAverage:  stats.MovingAverage(values, movingWindow),
		Classification: Classify(cv, reg.Slope, sd),
		Forecast:       e.forecast(values),
		Anomalies:      anomalies(labels, values, reg, mean),
	}
	if n := len(values); n > 1 {
		s.CAGR = stats.CAGR(values[0], values[n-1], n-1)
	}
	return s
}

// forecast predicts one period ahead. Strictly positive series grow
// exponentially, anything else linearly. Series too short for either carry the
// last value forward with zero confidence.
func (e *Engine) forecast(values []float64) domain.Forecast {
	method := domain.ForecastMethodLinear
	if stats.AllPositive(values) {
		method = domain.ForecastMethodExponential
	}

	fc, err := e.forecaster.Predict(values, method, 1)
	if err == nil {
		return fc
	}
	if method == domain.ForecastMethodExponential && !errors.Is(err, forecast.ErrInsufficientData) {
		if fc, err = e.forecaster.Predict(values, domain.ForecastMethodLinear, 1); err == nil {
			return fc
		}
	}

	var last float64
	if len(values) > 0 {
		last = values[len(values)-1]
	}
	return domain.Forecast{
		Method: domain.ForecastMethodCarryForward,
		Value:  last,
		Values: []float64{last},
	}
}

// anomalies flags points whose regression residual exceeds twice the
// population standard deviation.
func anomalies(labels []string, values []float64, reg stats.Regression, mean float64) []domain.Anomaly {
	out := []domain.Anomaly{}
	if len(values) < minAnomalyPoints {
		return out
	}

	limit := anomalySigma * stats.StdDev(values, mean)
	for i, v := range values {
		expected := reg.Predict(float64(i))
		if dev := math.Abs(v - expected); dev > limit {
			out = append(out, domain.Anomaly{
				Period:    labels[i],
				Expected:  expected,
				Actual:    v,
				Deviation: dev,
			})
		}
	}
	return out
}
