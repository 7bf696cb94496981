package adapters

import (
	"github.com/de-tools/ledger-atlas/pkg/models/api"
	"github.com/de-tools/ledger-atlas/pkg/models/domain"
)

func MapForecastDomainToApi(f domain.Forecast) api.Forecast {
	return api.Forecast{
		Method:     string(f.Method),
		Value:      f.Value,
		Values:     f.Values,
		Confidence: f.Confidence,
		R2:         f.R2,
	}
}

func mapSeries(s domain.SeriesStats) api.SeriesStats {
	anomalies := make([]api.Anomaly, 0, len(s.Anomalies))
	for _, a := range s.Anomalies {
		anomalies = append(anomalies, api.Anomaly{
			Period:    a.Period,
			Expected:  a.Expected,
			Actual:    a.Actual,
			Deviation: a.Deviation,
		})
	}
	return api.SeriesStats{
		Values:         s.Values,
		Mean:           s.Mean,
		StdDev:         s.StdDev,
		CV:             s.CV,
		Slope:          s.Slope,
		Intercept:      s.Intercept,
		R2:             s.R2,
		MovingAverage:  s.MovingAverage,
		CAGR:           s.CAGR,
		Classification: string(s.Classification),
		Forecast:       MapForecastDomainToApi(s.Forecast),
		Anomalies:      anomalies,
	}
}

func MapTrendAlertDomainToApi(a domain.TrendAlert) api.TrendAlert {
	return api.TrendAlert{
		ID:         a.ID,
		Type:       string(a.Type),
		Severity:   string(a.Severity),
		Title:      a.Title,
		Message:    a.Message,
		Account:    a.Account,
		CostCenter: a.CostCenter,
		Data:       a.Data,
	}
}

func MapTrendResultDomainToApi(r domain.TrendAnalysisResult) api.TrendResponse {
	resp := api.TrendResponse{
		Periods:     r.Periods,
		Accounts:    make([]api.AccountTrend, 0, len(r.Accounts)),
		CostCenters: make([]api.CostCenterTrend, 0, len(r.CostCenters)),
		Portfolio: api.PortfolioSummary{
			Revenue:        r.Portfolio.Revenue,
			Expenses:       r.Portfolio.Expenses,
			Result:         r.Portfolio.Result,
			Margin:         r.Portfolio.Margin,
			RevenueCAGR:    r.Portfolio.RevenueCAGR,
			ExpensesCAGR:   r.Portfolio.ExpensesCAGR,
			MarginSlope:    r.Portfolio.MarginSlope,
			Classification: string(r.Portfolio.Classification),
		},
		Alerts: make([]api.TrendAlert, 0, len(r.Alerts)),
	}
	for _, a := range r.Accounts {
		resp.Accounts = append(resp.Accounts, api.AccountTrend{
			Account:     a.Account,
			AccountName: a.AccountName,
			Class:       string(a.Class),
			SeriesStats: mapSeries(a.SeriesStats),
		})
	}
	for _, c := range r.CostCenters {
		resp.CostCenters = append(resp.CostCenters, api.CostCenterTrend{
			CostCenter:  c.CostCenter,
			SeriesStats: mapSeries(c.SeriesStats),
		})
	}
	for _, a := range r.Alerts {
		resp.Alerts = append(resp.Alerts, MapTrendAlertDomainToApi(a))
	}
	return resp
}
