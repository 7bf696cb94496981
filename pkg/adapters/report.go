package adapters

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
)

var printer = message.NewPrinter(language.English)

func amount(v float64) string { return printer.Sprintf("%.2f", v) }

func signed(d domain.Delta) string {
	return printer.Sprintf("%+.2f (%+.1f%%)", d.Abs, d.Pct)
}

func percent(v float64) string { return printer.Sprintf("%+.1f%%", v*100) }

// firstLine drops the evidence bullets appended to comments.
func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func label(account, name string) string {
	if name == "" {
		return account
	}
	return account + " " + name
}

func MapDeviationResultToReport(r domain.AnalysisResult) *domain.Report {
	s := r.Summary
	report := &domain.Report{
		Title:       "Deviation analysis",
		Periods:     fmt.Sprintf("%s → %s", r.PreviousLabel, r.CurrentLabel),
		TotalAmount: s.TotalCurrent,
		Sections: []domain.ReportSection{{
			Title: "Summary",
			Summary: map[string]interface{}{
				"Total previous":        amount(s.TotalPrevious),
				"Total current":         amount(s.TotalCurrent),
				"Total delta":           signed(domain.Delta{Abs: s.TotalDeltaAbs, Pct: s.TotalDeltaPct}),
				"Bookings":              fmt.Sprintf("%d → %d", s.BookingsPrevious, s.BookingsCurrent),
				"Material accounts":     fmt.Sprintf("%d of %d", s.MaterialAccounts, s.AccountsCompared),
				"Material cost centers": fmt.Sprintf("%d of %d", s.MaterialCostCenters, s.CostCentersCompared),
				"Materiality":           fmt.Sprintf("≥ %s and ≥ %.1f%%", amount(r.Config.MaterialityAbsolute), r.Config.MaterialityPercent),
			},
		}},
	}

	accounts := domain.ReportSection{Title: "Accounts"}
	for _, d := range r.ByAccount {
		accounts.Details = append(accounts.Details, domain.ReportDetail{
			Name:        label(d.Account, d.AccountName),
			Value:       signed(d.Delta),
			Unit:        string(d.Class),
			Description: firstLine(d.Comment),
		})
	}

	costCenters := domain.ReportSection{Title: "Cost centers"}
	for _, d := range r.ByCostCenter {
		costCenters.Details = append(costCenters.Details, domain.ReportDetail{
			Name:        d.CostCenter,
			Value:       signed(d.Delta),
			Description: firstLine(d.Comment),
		})
	}

	details := domain.ReportSection{Title: "Account × cost center"}
	for _, d := range r.ByDetail {
		details.Details = append(details.Details, domain.ReportDetail{
			Name:        fmt.Sprintf("%s / %s", label(d.Account, d.AccountName), d.CostCenter),
			Value:       signed(d.Delta),
			Unit:        string(d.Class),
			Description: firstLine(d.Comment),
		})
	}

	report.Sections = append(report.Sections, accounts, costCenters, details)
	return report
}

func MapTrendResultToReport(r domain.TrendAnalysisResult) *domain.Report {
	p := r.Portfolio
	report := &domain.Report{
		Title:   "Trend analysis",
		Periods: strings.Join(r.Periods, " → "),
	}
	if n := len(p.Result); n > 0 {
		report.TotalAmount = p.Result[n-1]
	}

	portfolio := domain.ReportSection{
		Title: "Portfolio",
		Summary: map[string]interface{}{
			"Revenue CAGR":   percent(p.RevenueCAGR),
			"Expenses CAGR":  percent(p.ExpensesCAGR),
			"Margin slope":   percent(p.MarginSlope),
			"Result trend":   string(p.Classification),
			"Alerts":         len(r.Alerts),
			"Accounts shown": len(r.Accounts),
		},
	}
	for i, l := range p.Labels {
		portfolio.Details = append(portfolio.Details, domain.ReportDetail{
			Name:        l,
			Value:       amount(p.Result[i]),
			Unit:        "result",
			Description: fmt.Sprintf("revenue %s, expenses %s, margin %s", amount(p.Revenue[i]), amount(p.Expenses[i]), percent(p.Margin[i])),
		})
	}

	accounts := domain.ReportSection{Title: "Accounts"}
	for _, a := range r.Accounts {
		accounts.Details = append(accounts.Details, domain.ReportDetail{
			Name:        label(a.Account, a.AccountName),
			Value:       string(a.Classification),
			Unit:        "CAGR " + percent(a.CAGR),
			Description: fmt.Sprintf("next %s (%s, confidence %.2f)", amount(a.Forecast.Value), a.Forecast.Method, a.Forecast.Confidence),
		})
	}

	costCenters := domain.ReportSection{Title: "Cost centers"}
	for _, c := range r.CostCenters {
		costCenters.Details = append(costCenters.Details, domain.ReportDetail{
			Name:        c.CostCenter,
			Value:       string(c.Classification),
			Unit:        "CAGR " + percent(c.CAGR),
			Description: fmt.Sprintf("next %s (%s, confidence %.2f)", amount(c.Forecast.Value), c.Forecast.Method, c.Forecast.Confidence),
		})
	}

	alerts := domain.ReportSection{Title: "Alerts"}
	for _, a := range r.Alerts {
		alerts.Details = append(alerts.Details, domain.ReportDetail{
			Name:        a.Title,
			Value:       string(a.Type),
			Unit:        string(a.Severity),
			Description: a.Message,
		})
	}

	report.Sections = append(report.Sections, portfolio, accounts, costCenters, alerts)
	return report
}

func MapRollingForecastToReport(r domain.RollingForecastResult) *domain.Report {
	ye := r.YearEnd
	report := &domain.Report{
		Title:       fmt.Sprintf("Rolling forecast (%s)", r.Method),
		TotalAmount: ye.ProjectedResult,
	}
	if n := len(r.Forecasts); n > 0 {
		report.Periods = fmt.Sprintf("%s → %s", r.Forecasts[0].Month, r.Forecasts[n-1].Month)
	}

	yearEnd := domain.ReportSection{
		Title: fmt.Sprintf("Year end %d", ye.Year),
		Summary: map[string]interface{}{
			"Actual result":      amount(ye.ActualResult),
			"Projected revenue":  amount(ye.ProjectedRevenue),
			"Projected expenses": amount(ye.ProjectedExpenses),
			"Expected":           amount(ye.Range.Expected),
			"Optimistic":         amount(ye.Range.Optimistic),
			"Pessimistic":        amount(ye.Range.Pessimistic),
			"Remaining months":   ye.RemainingMonths,
			"History months":     r.HistoryMonths,
		},
	}

	months := domain.ReportSection{Title: fmt.Sprintf("Monthly forecast (%.0f%% confidence)", r.Config.ConfidenceLevel*100)}
	for _, f := range r.Forecasts {
		months.Details = append(months.Details, domain.ReportDetail{
			Name:  f.Month,
			Value: amount(f.Result),
			Unit:  "result",
			Description: fmt.Sprintf("rev %s [%s, %s] exp %s",
				amount(f.Revenue), amount(f.RevenueLower), amount(f.RevenueUpper), amount(f.Expenses)),
		})
	}

	report.Sections = append(report.Sections, yearEnd, months)
	return report
}

func MapForecastToReport(values []float64, f domain.Forecast) *domain.Report {
	section := domain.ReportSection{
		Title: "Forecast",
		Summary: map[string]interface{}{
			"Method":     string(f.Method),
			"Confidence": fmt.Sprintf("%.2f", f.Confidence),
			"R²":         fmt.Sprintf("%.4f", f.R2),
			"History":    len(values),
		},
	}
	for i, v := range f.Values {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:  fmt.Sprintf("t+%d", i+1),
			Value: amount(v),
		})
	}
	return &domain.Report{
		Title:       "Series forecast",
		TotalAmount: f.Value,
		Sections:    []domain.ReportSection{section},
	}
}
