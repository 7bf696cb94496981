// Package trend analyses an ordered run of periods: per-account and per-cost
// center series statistics, anomaly detection, a portfolio summary and alerts.
package trend

import (
	"math"
	"sort"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/services/classify"
	"github.com/de-tools/ledger-atlas/pkg/services/deviation"
	"github.com/de-tools/ledger-atlas/pkg/services/forecast"
	"github.com/de-tools/ledger-atlas/pkg/stats"
)

type Config struct {
	// AccountLimit and CostCenterLimit keep the entities with the largest |CAGR|.
	// Zero keeps everything.
	AccountLimit    int `mapstructure:"account_limit" default:"50" validate:"gte=0"`
	CostCenterLimit int `mapstructure:"cost_center_limit" default:"20" validate:"gte=0"`
	// MinForecastPoints is the shortest series that gets a fitted forecast.
	MinForecastPoints int `mapstructure:"min_forecast_points" default:"2" validate:"gte=2"`
}

func DefaultConfig() Config {
	return Config{
		AccountLimit:      50,
		CostCenterLimit:   20,
		MinForecastPoints: 2,
	}
}

type Engine struct {
	classifier classify.Classifier
	cfg        Config
	forecaster *forecast.Forecaster
}

func NewEngine(classifier classify.Classifier, cfg Config) *Engine {
	if classifier == nil {
		classifier = classify.Default()
	}
	fc := forecast.DefaultConfig()
	if cfg.MinForecastPoints >= 2 {
		fc.MinLinearPoints = cfg.MinForecastPoints
		fc.MinExponentialPoints = cfg.MinForecastPoints
	}
	return &Engine{
		classifier: classifier,
		cfg:        cfg,
		forecaster: forecast.NewForecaster(fc),
	}
}

// AnalyzeTrends expects periods oldest first.
func (e *Engine) AnalyzeTrends(periods []domain.Period) domain.TrendAnalysisResult {
	labels := make([]string, len(periods))
	for i, p := range periods {
		labels[i] = p.Label
	}

	result := domain.TrendAnalysisResult{
		Periods:     labels,
		Accounts:    e.accounts(periods, labels),
		CostCenters: e.costCenters(periods, labels),
		Portfolio:   e.portfolio(periods, labels),
	}
	result.Alerts = e.alerts(result)
	return result
}

func (e *Engine) accounts(periods []domain.Period, labels []string) []domain.AccountTrend {
	matrix := seriesMatrix(periods, deviation.AccountKey)
	names := latestNames(periods)

	out := make([]domain.AccountTrend, 0, len(matrix))
	for _, account := range sortedKeys(matrix) {
		out = append(out, domain.AccountTrend{
			Account:     account,
			AccountName: names[account],
			Class:       e.classifier.Classify(account),
			SeriesStats: e.series(labels, matrix[account]),
		})
	}
	return topByCAGR(out, e.cfg.AccountLimit, func(a domain.AccountTrend) float64 { return a.CAGR })
}

func (e *Engine) costCenters(periods []domain.Period, labels []string) []domain.CostCenterTrend {
	matrix := seriesMatrix(periods, deviation.CostCenterKey)
	delete(matrix, "")

	out := make([]domain.CostCenterTrend, 0, len(matrix))
	for _, cc := range sortedKeys(matrix) {
		out = append(out, domain.CostCenterTrend{
			CostCenter:  cc,
			SeriesStats: e.series(labels, matrix[cc]),
		})
	}
	return topByCAGR(out, e.cfg.CostCenterLimit, func(c domain.CostCenterTrend) float64 { return c.CAGR })
}

func (e *Engine) portfolio(periods []domain.Period, labels []string) domain.PortfolioSummary {
	n := len(periods)
	p := domain.PortfolioSummary{
		Labels:   labels,
		Revenue:  make([]float64, n),
		Expenses: make([]float64, n),
		Result:   make([]float64, n),
		Margin:   make([]float64, n),
	}

	for i, period := range periods {
		t := period.Totals
		if t == (domain.PeriodTotals{}) {
			t = Totals(period.Bookings, e.classifier)
		}
		p.Revenue[i] = t.Revenue
		p.Expenses[i] = t.Expenses
		p.Result[i] = t.Result
		if t.Revenue != 0 {
			p.Margin[i] = t.Result / t.Revenue
		}
	}

	if n > 1 {
		p.RevenueCAGR = stats.CAGR(p.Revenue[0], p.Revenue[n-1], n-1)
		p.ExpensesCAGR = stats.CAGR(p.Expenses[0], p.Expenses[n-1], n-1)
	}
	p.MarginSlope = stats.LinearRegression(p.Margin).Slope

	mean := stats.Mean(p.Result)
	sd := stats.SampleStdDev(p.Result, mean)
	p.Classification = Classify(stats.CoefficientOfVariation(sd, mean), stats.LinearRegression(p.Result).Slope, sd)
	return p
}

// seriesMatrix aggregates every period by key, zero-filling periods where a key
// has no bookings.
func seriesMatrix(periods []domain.Period, key deviation.KeyFunc) map[string][]float64 {
	matrix := make(map[string][]float64)
	for i, p := range periods {
		for k, v := range deviation.Aggregate(p.Bookings, key) {
			row, ok := matrix[k]
			if !ok {
				row = make([]float64, len(periods))
				matrix[k] = row
			}
			row[i] = v
		}
	}
	return matrix
}

// latestNames takes each account name from the newest period that carries one.
func latestNames(periods []domain.Period) map[string]string {
	names := make(map[string]string)
	for i := len(periods) - 1; i >= 0; i-- {
		for _, b := range periods[i].Bookings {
			if _, ok := names[b.Account]; !ok && b.AccountName != "" {
				names[b.Account] = b.AccountName
			}
		}
	}
	return names
}

func sortedKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func topByCAGR[T any](items []T, limit int, cagr func(T) float64) []T {
	sort.SliceStable(items, func(i, j int) bool {
		return math.Abs(cagr(items[i])) > math.Abs(cagr(items[j]))
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
