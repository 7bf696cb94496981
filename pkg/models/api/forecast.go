package api

// RollingForecastRequest is decoded over the configured defaults, so omitted
// fields keep them.
type RollingForecastRequest struct {
	Current              []Booking `json:"current" validate:"dive"`
	Historical           []Booking `json:"historical" validate:"dive"`
	Horizon              int       `json:"horizon" validate:"gte=1,lte=24"`
	SeasonalityDetection *bool     `json:"seasonality_detection"`
	ConfidenceLevel      float64   `json:"confidence_level" validate:"confidence_level"`
	Method               string    `json:"method" validate:"oneof=auto seasonal trend hybrid"`
}

type SeriesForecastRequest struct {
	Values  []float64 `json:"values" validate:"required,min=1"`
	Method  string    `json:"method" default:"auto" validate:"oneof=auto linear exponential moving_average"`
	Horizon int       `json:"horizon" default:"1" validate:"gte=1,lte=24"`
}

type MonthlyValue struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

type MonthlyForecast struct {
	Month           string  `json:"month"`
	Revenue         float64 `json:"revenue"`
	RevenueLower    float64 `json:"revenue_lower"`
	RevenueUpper    float64 `json:"revenue_upper"`
	Expenses        float64 `json:"expenses"`
	ExpensesLower   float64 `json:"expenses_lower"`
	ExpensesUpper   float64 `json:"expenses_upper"`
	Result          float64 `json:"result"`
	RevenueIndex    float64 `json:"revenue_index"`
	ExpensesIndex   float64 `json:"expenses_index"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

type YearEndProjection struct {
	Year              int     `json:"year"`
	ActualRevenue     float64 `json:"actual_revenue"`
	ActualExpenses    float64 `json:"actual_expenses"`
	ActualResult      float64 `json:"actual_result"`
	ProjectedRevenue  float64 `json:"projected_revenue"`
	ProjectedExpenses float64 `json:"projected_expenses"`
	ProjectedResult   float64 `json:"projected_result"`
	RemainingMonths   int     `json:"remaining_months"`
	Expected          float64 `json:"expected"`
	Optimistic        float64 `json:"optimistic"`
	Pessimistic       float64 `json:"pessimistic"`
}

type RollingForecastResponse struct {
	Method           string            `json:"method"`
	Horizon          int               `json:"horizon"`
	ConfidenceLevel  float64           `json:"confidence_level"`
	HistoryMonths    int               `json:"history_months"`
	RevenueActuals   []MonthlyValue    `json:"revenue_actuals"`
	ExpenseActuals   []MonthlyValue    `json:"expense_actuals"`
	RevenueSeasonal  []float64         `json:"revenue_seasonal"`
	ExpensesSeasonal []float64         `json:"expenses_seasonal"`
	Forecasts        []MonthlyForecast `json:"forecasts"`
	YearEnd          YearEndProjection `json:"year_end"`
}
