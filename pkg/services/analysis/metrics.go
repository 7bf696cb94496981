package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	KindDeviation = "deviation"
	KindTrend     = "trend"
	KindRolling   = "rolling_forecast"
	KindSeries    = "series_forecast"

	outcomeOK    = "ok"
	outcomeError = "error"
)

type Metrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	bookings *prometheus.CounterVec
}

// NewMetrics registers the analysis collectors with reg. A nil registerer
// keeps them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ledger",
				Subsystem: "analysis",
				Name:      "runs_total",
				Help:      "Analyses run, by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ledger",
				Subsystem: "analysis",
				Name:      "duration_seconds",
				Help:      "Analysis duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"kind"},
		),
		bookings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ledger",
				Subsystem: "analysis",
				Name:      "bookings_total",
				Help:      "Bookings processed, by analysis kind",
			},
			[]string{"kind"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.runs, m.duration, m.bookings} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observe(kind string, seconds float64, bookings int, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	m.runs.WithLabelValues(kind, outcome).Inc()
	m.duration.WithLabelValues(kind).Observe(seconds)
	m.bookings.WithLabelValues(kind).Add(float64(bookings))
}
