package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/ledger-atlas/pkg/config"
	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/services/forecast"
	"github.com/de-tools/ledger-atlas/pkg/services/trend"
)

func newController(t *testing.T) (*Controller, *Metrics) {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)

	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	ctrl, err := NewController(cfg, metrics)
	require.NoError(t, err)
	return ctrl, metrics
}

func booking(date time.Time, account string, amount float64) domain.Booking {
	return domain.Booking{PostingDate: date, Account: account, Amount: amount, CostCenter: "CC1"}
}

func TestController_Deviations(t *testing.T) {
	ctrl, metrics := newController(t)
	d := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	d0 := ctrl.Defaults()
	cfg := domain.DeviationConfig{
		MaterialityAbsolute: d0.MaterialityAbsolute,
		MaterialityPercent:  d0.MaterialityPercent,
		PreviousLabel:       "2023",
		CurrentLabel:        "2024",
	}

	res, err := ctrl.Deviations(context.Background(),
		[]domain.Booking{booking(d.AddDate(-1, 0, 0), "5200", 50000)},
		[]domain.Booking{booking(d, "5200", 75000)},
		cfg)
	require.NoError(t, err)
	require.Len(t, res.ByAccount, 1)
	assert.Equal(t, 25000.0, res.ByAccount[0].Abs)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.runs.WithLabelValues(KindDeviation, outcomeOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.bookings.WithLabelValues(KindDeviation)))
}

func TestController_Trends(t *testing.T) {
	ctrl, metrics := newController(t)

	periods := []domain.Period{
		trend.NewPeriod("2023", []domain.Booking{booking(time.Time{}, "4000", -100)}, ctrl.Classifier()),
		trend.NewPeriod("2024", []domain.Booking{booking(time.Time{}, "4000", -120)}, ctrl.Classifier()),
	}
	res, err := ctrl.Trends(context.Background(), periods)
	require.NoError(t, err)
	assert.Equal(t, []string{"2023", "2024"}, res.Periods)

	_, err = ctrl.Trends(context.Background(), nil)
	assert.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.runs.WithLabelValues(KindTrend, outcomeError)))
}

func TestController_RollingForecast(t *testing.T) {
	ctrl, metrics := newController(t)

	var current []domain.Booking
	for m := time.January; m <= time.April; m++ {
		current = append(current, booking(time.Date(2024, m, 5, 0, 0, 0, 0, time.UTC), "4000", -1000))
	}

	res, err := ctrl.RollingForecast(context.Background(), current, nil, ctrl.Defaults().Rolling)
	require.NoError(t, err)
	assert.Len(t, res.Forecasts, 12)
	assert.Equal(t, domain.RollingMethodTrend, res.Method)

	_, err = ctrl.RollingForecast(context.Background(), current[:1], nil, ctrl.Defaults().Rolling)
	require.Error(t, err)
	assert.True(t, errors.Is(err, forecast.ErrInsufficientData))

	var ide *forecast.InsufficientDataError
	require.True(t, errors.As(err, &ide))
	assert.Equal(t, 1, ide.Actual)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.runs.WithLabelValues(KindRolling, outcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.runs.WithLabelValues(KindRolling, outcomeError)))
}

func TestController_ForecastSeries(t *testing.T) {
	ctrl, _ := newController(t)

	fc, err := ctrl.ForecastSeries(context.Background(), []float64{1, 2, 3}, domain.ForecastMethodLinear, 2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{4, 5}, fc.Values, 1e-9)

	_, err = ctrl.ForecastSeries(context.Background(), []float64{1}, domain.ForecastMethodLinear, 1)
	assert.ErrorIs(t, err, forecast.ErrInsufficientData)
}

func TestController_CancelledContext(t *testing.T) {
	ctrl, metrics := newController(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ctrl.Deviations(ctx, nil, nil, domain.DeviationConfig{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.runs.WithLabelValues(KindDeviation, outcomeOK)))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}
