package forecast

import (
	"fmt"
	"math"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/services/classify"
	"github.com/de-tools/ledger-atlas/pkg/stats"
)

const (
	DefaultHorizon         = 12
	MaxHorizon             = 24
	DefaultConfidenceLevel = 0.95

	// minRollingMonths is the history needed by the trend extrapolation.
	minRollingMonths = 3
	// hybridMinMonths is the history auto needs before it switches to hybrid.
	hybridMinMonths = 12
	// marginGrowth widens the band by this share per month ahead.
	marginGrowth = 0.1
	// yearEndSpread is the share of projected revenue used for the year-end range.
	yearEndSpread = 0.15
	yearEndZ      = 1.96
)

// DefaultRollingConfig returns the rolling forecast defaults.
func DefaultRollingConfig() domain.RollingForecastConfig {
	return domain.RollingForecastConfig{
		Horizon:              DefaultHorizon,
		SeasonalityDetection: true,
		ConfidenceLevel:      DefaultConfidenceLevel,
		Method:               domain.RollingMethodAuto,
	}
}

// RollingEngine projects monthly revenue and expenses forward.
type RollingEngine struct {
	classifier classify.Classifier
	forecaster *Forecaster
	window     int
}

func NewRollingEngine(classifier classify.Classifier) *RollingEngine {
	if classifier == nil {
		classifier = classify.Default()
	}
	cfg := DefaultConfig()
	cfg.MinLinearPoints = minRollingMonths
	return &RollingEngine{
		classifier: classifier,
		forecaster: NewForecaster(cfg),
		window:     cfg.MovingAverageWindow,
	}
}

// GenerateRollingForecast runs a RollingEngine with the given classifier.
func GenerateRollingForecast(current, historical []domain.Booking, cfg domain.RollingForecastConfig, classifier classify.Classifier) (domain.RollingForecastResult, error) {
	return NewRollingEngine(classifier).Generate(current, historical, cfg)
}

// Generate builds the monthly forecast following the last month with current bookings.
func (e *RollingEngine) Generate(current, historical []domain.Booking, cfg domain.RollingForecastConfig) (domain.RollingForecastResult, error) {
	cfg = normalize(cfg)
	switch cfg.Method {
	case domain.RollingMethodAuto, domain.RollingMethodSeasonal, domain.RollingMethodTrend, domain.RollingMethodHybrid:
	default:
		return domain.RollingForecastResult{}, fmt.Errorf("%w: %q", ErrUnknownMethod, cfg.Method)
	}
	if !SupportedConfidenceLevel(cfg.ConfidenceLevel) {
		return domain.RollingForecastResult{}, fmt.Errorf("%w: %g, expected 0.90 or 0.95", ErrConfidenceLevel, cfg.ConfidenceLevel)
	}
	current, historical = dated(current), dated(historical)

	all := make([]domain.Booking, 0, len(historical)+len(current))
	all = append(all, historical...)
	all = append(all, current...)

	if len(all) == 0 {
		return domain.RollingForecastResult{}, insufficient(cfg.Method, e.minMonths(cfg.Method), 0)
	}

	last := lastMonth(current)
	if len(current) == 0 {
		last = lastMonth(all)
	}
	series := buildMonthlySeries(all, last, e.classifier)
	n := series.len()

	method := cfg.Method
	if method == domain.RollingMethodAuto {
		method = domain.RollingMethodTrend
		if cfg.SeasonalityDetection && n >= hybridMinMonths {
			method = domain.RollingMethodHybrid
		}
	}
	if n < e.minMonths(method) {
		return domain.RollingForecastResult{}, insufficient(cfg.Method, e.minMonths(method), n)
	}

	revIdx, expIdx := neutralIndices(), neutralIndices()
	if cfg.SeasonalityDetection {
		revIdx = seasonalIndices(series, series.revenue)
		expIdx = seasonalIndices(series, series.expenses)
	}

	revenue, err := e.project(series.revenue, method, revIdx, series, cfg)
	if err != nil {
		return domain.RollingForecastResult{}, fmt.Errorf("revenue: %w", err)
	}
	expenses, err := e.project(series.expenses, method, expIdx, series, cfg)
	if err != nil {
		return domain.RollingForecastResult{}, fmt.Errorf("expenses: %w", err)
	}

	forecasts := make([]domain.MonthlyForecast, cfg.Horizon)
	for h := range forecasts {
		m := last.add(h + 1)
		forecasts[h] = domain.MonthlyForecast{
			Month:           m.String(),
			Revenue:         revenue[h].value,
			RevenueLower:    revenue[h].lower,
			RevenueUpper:    revenue[h].upper,
			Expenses:        expenses[h].value,
			ExpensesLower:   expenses[h].lower,
			ExpensesUpper:   expenses[h].upper,
			Result:          revenue[h].value - expenses[h].value,
			RevenueIndex:    revIdx[m.calendarMonth()],
			ExpensesIndex:   expIdx[m.calendarMonth()],
			ConfidenceLevel: cfg.ConfidenceLevel,
		}
	}

	return domain.RollingForecastResult{
		Method:           method,
		Config:           cfg,
		HistoryMonths:    n,
		RevenueActuals:   actuals(series, series.revenue),
		ExpenseActuals:   actuals(series, series.expenses),
		RevenueSeasonal:  revIdx,
		ExpensesSeasonal: expIdx,
		Forecasts:        forecasts,
		YearEnd:          e.yearEnd(current, last, forecasts),
	}, nil
}

type band struct {
	value, lower, upper float64
}

func (e *RollingEngine) project(values []float64, method domain.RollingMethod, idx [12]float64, s monthlySeries, cfg domain.RollingForecastConfig) ([]band, error) {
	var trend []float64
	if method != domain.RollingMethodSeasonal {
		fc, err := e.forecaster.Predict(values, domain.ForecastMethodLinear, cfg.Horizon)
		if err != nil {
			return nil, err
		}
		trend = fc.Values
	}

	mean := stats.Mean(values)
	sd := stats.SampleStdDev(values, mean)
	z, _ := zScore(cfg.ConfidenceLevel)

	out := make([]band, cfg.Horizon)
	for h := range out {
		index := idx[s.last().add(h+1).calendarMonth()]

		var v float64
		switch method {
		case domain.RollingMethodSeasonal:
			v = mean * index
		case domain.RollingMethodHybrid:
			v = math.Max(0, trend[h]*index)
		default:
			v = trend[h]
		}

		margin := z * sd * (1 + float64(h)*marginGrowth)
		out[h] = band{value: v, lower: v - margin, upper: v + margin}
	}
	return out, nil
}

// yearEnd adds the forecast months left in the year of the last actual month to
// the year-to-date actuals of the current bookings.
func (e *RollingEngine) yearEnd(current []domain.Booking, last monthKey, forecasts []domain.MonthlyForecast) domain.YearEndProjection {
	year := last.year()
	p := domain.YearEndProjection{Year: year}

	if len(current) > 0 {
		ytd := buildMonthlySeries(current, last, e.classifier)
		for i := 0; i < ytd.len(); i++ {
			if ytd.month(i).year() != year {
				continue
			}
			p.ActualRevenue += ytd.revenue[i]
			p.ActualExpenses += ytd.expenses[i]
		}
	}
	p.ActualResult = p.ActualRevenue - p.ActualExpenses

	p.ProjectedRevenue = p.ActualRevenue
	p.ProjectedExpenses = p.ActualExpenses
	for h, f := range forecasts {
		if last.add(h+1).year() != year {
			break
		}
		p.ProjectedRevenue += f.Revenue
		p.ProjectedExpenses += f.Expenses
		p.RemainingMonths++
	}
	p.ProjectedResult = p.ProjectedRevenue - p.ProjectedExpenses

	spread := yearEndZ * yearEndSpread * p.ProjectedRevenue
	p.Range = domain.YearEndRange{
		Expected:    p.ProjectedResult,
		Optimistic:  p.ProjectedResult + spread,
		Pessimistic: p.ProjectedResult - spread,
	}
	return p
}

func (e *RollingEngine) minMonths(method domain.RollingMethod) int {
	if method == domain.RollingMethodSeasonal {
		return e.window
	}
	return minRollingMonths
}

func normalize(cfg domain.RollingForecastConfig) domain.RollingForecastConfig {
	if cfg.Horizon < 1 {
		cfg.Horizon = DefaultHorizon
	}
	if cfg.Horizon > MaxHorizon {
		cfg.Horizon = MaxHorizon
	}
	if cfg.ConfidenceLevel == 0 {
		cfg.ConfidenceLevel = DefaultConfidenceLevel
	}
	if cfg.Method == "" {
		cfg.Method = domain.RollingMethodAuto
	}
	return cfg
}

// dated drops bookings without a posting date; they belong to no month.
func dated(bookings []domain.Booking) []domain.Booking {
	out := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if !b.PostingDate.IsZero() {
			out = append(out, b)
		}
	}
	return out
}

func lastMonth(bookings []domain.Booking) monthKey {
	var last monthKey
	for i, b := range bookings {
		if k := keyOf(b.PostingDate); i == 0 || k > last {
			last = k
		}
	}
	return last
}

func actuals(s monthlySeries, values []float64) []domain.MonthlyValue {
	out := make([]domain.MonthlyValue, len(values))
	for i, v := range values {
		out[i] = domain.MonthlyValue{Month: s.month(i).String(), Value: v}
	}
	return out
}
