package domain

type ForecastMethod string

const (
	ForecastMethodLinear        ForecastMethod = "linear"
	ForecastMethodExponential   ForecastMethod = "exponential"
	ForecastMethodMovingAverage ForecastMethod = "moving_average"
	ForecastMethodAuto          ForecastMethod = "auto"
	ForecastMethodCarryForward  ForecastMethod = "carry_forward"
)

// Forecast is a prediction for the point(s) following a series.
type Forecast struct {
	Method     ForecastMethod
	Value      float64   // first step ahead
	Values     []float64 // one per horizon step
	Confidence float64   // always within [0, 1]
	R2         float64
}

type RollingMethod string

const (
	RollingMethodAuto     RollingMethod = "auto"
	RollingMethodSeasonal RollingMethod = "seasonal"
	RollingMethodTrend    RollingMethod = "trend"
	RollingMethodHybrid   RollingMethod = "hybrid"
)

type RollingForecastConfig struct {
	Horizon              int
	SeasonalityDetection bool
	ConfidenceLevel      float64
	Method               RollingMethod
}

// MonthlyValue is an actual or forecast figure for one calendar month.
type MonthlyValue struct {
	Month string // YYYY-MM
	Value float64
}

type MonthlyForecast struct {
	Month           string // YYYY-MM
	Revenue         float64
	RevenueLower    float64
	RevenueUpper    float64
	Expenses        float64
	ExpensesLower   float64
	ExpensesUpper   float64
	Result          float64
	RevenueIndex    float64
	ExpensesIndex   float64
	ConfidenceLevel float64
}

type YearEndRange struct {
	Expected    float64
	Optimistic  float64
	Pessimistic float64
}

type YearEndProjection struct {
	Year              int
	ActualRevenue     float64
	ActualExpenses    float64
	ActualResult      float64
	ProjectedRevenue  float64
	ProjectedExpenses float64
	ProjectedResult   float64
	RemainingMonths   int
	Range             YearEndRange
}

type RollingForecastResult struct {
	Method           RollingMethod
	Config           RollingForecastConfig
	HistoryMonths    int
	RevenueActuals   []MonthlyValue
	ExpenseActuals   []MonthlyValue
	RevenueSeasonal  [12]float64 // January first
	ExpensesSeasonal [12]float64
	Forecasts        []MonthlyForecast
	YearEnd          YearEndProjection
}
