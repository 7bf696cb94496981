package domain

// DeviationConfig parametrises one pairwise comparison.
type DeviationConfig struct {
	MaterialityAbsolute float64
	MaterialityPercent  float64
	PreviousLabel       string
	CurrentLabel        string
}

// Evidence substantiates a reported deviation.
type Evidence struct {
	TopPrevious     []Booking
	TopCurrent      []Booking
	NewBookings     []Booking
	MissingBookings []Booking
	CountPrevious   int
	CountCurrent    int
}

type Delta struct {
	Previous float64
	Current  float64
	Abs      float64
	Pct      float64
}

type AccountDeviation struct {
	Account     string
	AccountName string
	Class       AccountClass
	Delta
	Comment  string
	Evidence Evidence
}

// AccountContribution is a drill-down hint inside a cost-center deviation.
type AccountContribution struct {
	Account     string
	AccountName string
	Delta
}

type CostCenterDeviation struct {
	CostCenter string
	Delta
	Comment     string
	TopAccounts []AccountContribution
	Evidence    Evidence
}

// DetailDeviation is one account within one cost center.
type DetailDeviation struct {
	Account     string
	AccountName string
	CostCenter  string
	Class       AccountClass
	Delta
	Comment  string
	Evidence Evidence
}

type DeviationSummary struct {
	TotalPrevious       float64
	TotalCurrent        float64
	TotalDeltaAbs       float64
	TotalDeltaPct       float64
	BookingsPrevious    int
	BookingsCurrent     int
	AccountsCompared    int
	CostCentersCompared int
	MaterialAccounts    int
	MaterialCostCenters int
}

// AnalysisResult is the output of one deviation analysis.
type AnalysisResult struct {
	PreviousLabel string
	CurrentLabel  string
	Config        DeviationConfig
	Summary       DeviationSummary
	ByAccount     []AccountDeviation
	ByCostCenter  []CostCenterDeviation
	ByDetail      []DetailDeviation
}
