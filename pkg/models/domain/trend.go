package domain

type TrendClass string

const (
	TrendVolatile TrendClass = "volatile"
	TrendStable   TrendClass = "stable"
	TrendRising   TrendClass = "rising"
	TrendFalling  TrendClass = "falling"
)

type Anomaly struct {
	Period    string
	Expected  float64
	Actual    float64
	Deviation float64
}

// SeriesStats are the statistics shared by account and cost-center trends.
type SeriesStats struct {
	Labels         []string
	Values         []float64
	Mean           float64
	StdDev         float64
	CV             float64
	Slope          float64
	Intercept      float64
	R2             float64
	MovingAverage  []float64
	CAGR           float64
	Classification TrendClass
	Forecast       Forecast
	Anomalies      []Anomaly
}

type AccountTrend struct {
	Account     string
	AccountName string
	Class       AccountClass
	SeriesStats
}

type CostCenterTrend struct {
	CostCenter string
	SeriesStats
}

type PortfolioSummary struct {
	Labels         []string
	Revenue        []float64
	Expenses       []float64
	Result         []float64
	Margin         []float64
	RevenueCAGR    float64
	ExpensesCAGR   float64
	MarginSlope    float64
	Classification TrendClass
}

type TrendAnalysisResult struct {
	Periods     []string
	Accounts    []AccountTrend
	CostCenters []CostCenterTrend
	Portfolio   PortfolioSummary
	Alerts      []TrendAlert
}
