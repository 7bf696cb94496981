package trend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/stats"
)

const (
	criticalBreakCAGR      = 0.2
	criticalRevenueDecline = -0.1
	minBreakPoints         = 4
)

// alertNamespace seeds name based alert IDs, so equal input yields equal IDs.
var alertNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/de-tools/ledger-atlas/alerts"))

type subject struct {
	account    string
	costCenter string
	label      string
}

func (e *Engine) alerts(r domain.TrendAnalysisResult) []domain.TrendAlert {
	out := append([]domain.TrendAlert{}, portfolioAlerts(r.Portfolio)...)

	for _, a := range r.Accounts {
		name := a.Account
		if a.AccountName != "" {
			name = fmt.Sprintf("%s (%s)", a.Account, a.AccountName)
		}
		out = append(out, seriesAlerts(subject{account: a.Account, label: "account " + name}, a.SeriesStats)...)
	}
	for _, c := range r.CostCenters {
		out = append(out, seriesAlerts(subject{costCenter: c.CostCenter, label: "cost center " + c.CostCenter}, c.SeriesStats)...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() < out[j].Severity.Rank()
	})
	return out
}

func seriesAlerts(s subject, st domain.SeriesStats) []domain.TrendAlert {
	var out []domain.TrendAlert

	if left, right, ok := splitSlopes(st.Values); ok && left*right < 0 {
		sev := domain.SeverityWarning
		if math.Abs(st.CAGR) > criticalBreakCAGR {
			sev = domain.SeverityCritical
		}
		out = append(out, newAlert(domain.AlertTrendBreak, sev, s,
			"Trend break on "+s.label,
			fmt.Sprintf("The trend of %s reversed: slope %.2f in the first half, %.2f in the second half.", s.label, left, right),
			map[string]float64{"slope_first": left, "slope_second": right, "cagr": st.CAGR},
		))
	}

	if st.CV > volatileCV {
		out = append(out, newAlert(domain.AlertVolatility, domain.SeverityWarning, s,
			"High volatility on "+s.label,
			fmt.Sprintf("The coefficient of variation of %s is %.2f.", s.label, st.CV),
			map[string]float64{"cv": st.CV, "stddev": st.StdDev, "mean": st.Mean},
		))
	}

	for _, a := range st.Anomalies {
		out = append(out, newAlert(domain.AlertThresholdBreach, domain.SeverityWarning, s,
			fmt.Sprintf("Anomaly on %s in %s", s.label, a.Period),
			fmt.Sprintf("%s in %s was %.2f, expected %.2f.", s.label, a.Period, a.Actual, a.Expected),
			map[string]float64{"expected": a.Expected, "actual": a.Actual, "deviation": a.Deviation},
		))
	}
	return out
}

func portfolioAlerts(p domain.PortfolioSummary) []domain.TrendAlert {
	var out []domain.TrendAlert
	if len(p.Labels) < 2 {
		return out
	}
	s := subject{label: "portfolio"}

	if p.RevenueCAGR < 0 {
		sev := domain.SeverityWarning
		if p.RevenueCAGR < criticalRevenueDecline {
			sev = domain.SeverityCritical
		}
		out = append(out, newAlert(domain.AlertRevenueDecline, sev, s,
			"Revenue decline",
			fmt.Sprintf("Revenue is shrinking at %.1f%% per period.", p.RevenueCAGR*100),
			map[string]float64{"revenue_cagr": p.RevenueCAGR},
		))
	}

	if p.MarginSlope < 0 {
		out = append(out, newAlert(domain.AlertMarginDecline, domain.SeverityWarning, s,
			"Margin decline",
			fmt.Sprintf("The margin falls by %.2f percentage points per period.", -p.MarginSlope*100),
			map[string]float64{"margin_slope": p.MarginSlope},
		))
	}
	return out
}

// splitSlopes regresses both halves of the series, split at n/2.
func splitSlopes(values []float64) (float64, float64, bool) {
	if len(values) < minBreakPoints {
		return 0, 0, false
	}
	mid := len(values) / 2
	return stats.LinearRegression(values[:mid]).Slope, stats.LinearRegression(values[mid:]).Slope, true
}

func newAlert(t domain.AlertType, sev domain.Severity, s subject, title, message string, data map[string]float64) domain.TrendAlert {
	name := strings.Join([]string{string(t), s.account, s.costCenter, title}, "|")
	return domain.TrendAlert{
		ID:         uuid.NewSHA1(alertNamespace, []byte(name)).String(),
		Type:       t,
		Severity:   sev,
		Title:      title,
		Message:    message,
		Account:    s.account,
		CostCenter: s.costCenter,
		Data:       data,
	}
}
