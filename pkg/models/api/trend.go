package api

type TrendRequest struct {
	Periods []PeriodInput `json:"periods" validate:"required,min=1,dive"`
}

type Forecast struct {
	Method     string    `json:"method"`
	Value      float64   `json:"value"`
	Values     []float64 `json:"values"`
	Confidence float64   `json:"confidence"`
	R2         float64   `json:"r2"`
}

type Anomaly struct {
	Period    string  `json:"period"`
	Expected  float64 `json:"expected"`
	Actual    float64 `json:"actual"`
	Deviation float64 `json:"deviation"`
}

type SeriesStats struct {
	Values         []float64 `json:"values"`
	Mean           float64   `json:"mean"`
	StdDev         float64   `json:"stddev"`
	CV             float64   `json:"cv"`
	Slope          float64   `json:"slope"`
	Intercept      float64   `json:"intercept"`
	R2             float64   `json:"r2"`
	MovingAverage  []float64 `json:"moving_average"`
	CAGR           float64   `json:"cagr"`
	Classification string    `json:"classification"`
	Forecast       Forecast  `json:"forecast"`
	Anomalies      []Anomaly `json:"anomalies"`
}

type AccountTrend struct {
	Account     string `json:"account"`
	AccountName string `json:"account_name,omitempty"`
	Class       string `json:"class"`
	SeriesStats
}

type CostCenterTrend struct {
	CostCenter string `json:"cost_center"`
	SeriesStats
}

type PortfolioSummary struct {
	Revenue        []float64 `json:"revenue"`
	Expenses       []float64 `json:"expenses"`
	Result         []float64 `json:"result"`
	Margin         []float64 `json:"margin"`
	RevenueCAGR    float64   `json:"revenue_cagr"`
	ExpensesCAGR   float64   `json:"expenses_cagr"`
	MarginSlope    float64   `json:"margin_slope"`
	Classification string    `json:"classification"`
}

type TrendAlert struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Severity   string             `json:"severity"`
	Title      string             `json:"title"`
	Message    string             `json:"message"`
	Account    string             `json:"account,omitempty"`
	CostCenter string             `json:"cost_center,omitempty"`
	Data       map[string]float64 `json:"data"`
}

type TrendResponse struct {
	Periods     []string          `json:"periods"`
	Accounts    []AccountTrend    `json:"accounts"`
	CostCenters []CostCenterTrend `json:"cost_centers"`
	Portfolio   PortfolioSummary  `json:"portfolio"`
	Alerts      []TrendAlert      `json:"alerts"`
}
