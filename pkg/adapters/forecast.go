package adapters

import (
	"github.com/de-tools/ledger-atlas/pkg/models/api"
	"github.com/de-tools/ledger-atlas/pkg/models/domain"
)

func mapMonthly(values []domain.MonthlyValue) []api.MonthlyValue {
	out := make([]api.MonthlyValue, 0, len(values))
	for _, v := range values {
		out = append(out, api.MonthlyValue{Month: v.Month, Value: v.Value})
	}
	return out
}

func MapRollingForecastDomainToApi(r domain.RollingForecastResult) api.RollingForecastResponse {
	resp := api.RollingForecastResponse{
		Method:           string(r.Method),
		Horizon:          r.Config.Horizon,
		ConfidenceLevel:  r.Config.ConfidenceLevel,
		HistoryMonths:    r.HistoryMonths,
		RevenueActuals:   mapMonthly(r.RevenueActuals),
		ExpenseActuals:   mapMonthly(r.ExpenseActuals),
		RevenueSeasonal:  r.RevenueSeasonal[:],
		ExpensesSeasonal: r.ExpensesSeasonal[:],
		Forecasts:        make([]api.MonthlyForecast, 0, len(r.Forecasts)),
		YearEnd: api.YearEndProjection{
			Year:              r.YearEnd.Year,
			ActualRevenue:     r.YearEnd.ActualRevenue,
			ActualExpenses:    r.YearEnd.ActualExpenses,
			ActualResult:      r.YearEnd.ActualResult,
			ProjectedRevenue:  r.YearEnd.ProjectedRevenue,
			ProjectedExpenses: r.YearEnd.ProjectedExpenses,
			ProjectedResult:   r.YearEnd.ProjectedResult,
			RemainingMonths:   r.YearEnd.RemainingMonths,
			Expected:          r.YearEnd.Range.Expected,
			Optimistic:        r.YearEnd.Range.Optimistic,
			Pessimistic:       r.YearEnd.Range.Pessimistic,
		},
	}
	for _, f := range r.Forecasts {
		resp.Forecasts = append(resp.Forecasts, api.MonthlyForecast{
			Month:           f.Month,
			Revenue:         f.Revenue,
			RevenueLower:    f.RevenueLower,
			RevenueUpper:    f.RevenueUpper,
			Expenses:        f.Expenses,
			ExpensesLower:   f.ExpensesLower,
			ExpensesUpper:   f.ExpensesUpper,
			Result:          f.Result,
			RevenueIndex:    f.RevenueIndex,
			ExpensesIndex:   f.ExpensesIndex,
			ConfidenceLevel: f.ConfidenceLevel,
		})
	}
	return resp
}

// MapRollingForecastRequestToDomain expects defaults to be applied already.
func MapRollingForecastRequestToDomain(req api.RollingForecastRequest) domain.RollingForecastConfig {
	detection := true
	if req.SeasonalityDetection != nil {
		detection = *req.SeasonalityDetection
	}
	return domain.RollingForecastConfig{
		Horizon:              req.Horizon,
		SeasonalityDetection: detection,
		ConfidenceLevel:      req.ConfidenceLevel,
		Method:               domain.RollingMethod(req.Method),
	}
}
