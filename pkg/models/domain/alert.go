package domain

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank orders severities, most severe first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

type AlertType string

const (
	AlertTrendBreak      AlertType = "trend_break"
	AlertVolatility      AlertType = "volatility"
	AlertThresholdBreach AlertType = "threshold_breach"
	AlertRevenueDecline  AlertType = "revenue_decline"
	AlertMarginDecline   AlertType = "margin_decline"
)

type TrendAlert struct {
	ID         string
	Type       AlertType
	Severity   Severity
	Title      string
	Message    string
	Account    string // empty when the alert is portfolio wide
	CostCenter string
	Data       map[string]float64
}
