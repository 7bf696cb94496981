package api

type DeviationRequest struct {
	Previous            PeriodInput `json:"previous"`
	Current             PeriodInput `json:"current"`
	MaterialityAbsolute *float64    `json:"materiality_absolute,omitempty" validate:"omitempty,gte=0"`
	MaterialityPercent  *float64    `json:"materiality_percent,omitempty" validate:"omitempty,gte=0"`
}

type Delta struct {
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
	Abs      float64 `json:"delta_abs"`
	Pct      float64 `json:"delta_pct"`
}

type Evidence struct {
	TopPrevious     []Booking `json:"top_previous"`
	TopCurrent      []Booking `json:"top_current"`
	NewBookings     []Booking `json:"new_bookings,omitempty"`
	MissingBookings []Booking `json:"missing_bookings,omitempty"`
	CountPrevious   int       `json:"count_previous"`
	CountCurrent    int       `json:"count_current"`
}

type AccountDeviation struct {
	Account     string `json:"account"`
	AccountName string `json:"account_name,omitempty"`
	Class       string `json:"class"`
	Delta
	Comment  string   `json:"comment"`
	Evidence Evidence `json:"evidence"`
}

type AccountContribution struct {
	Account     string `json:"account"`
	AccountName string `json:"account_name,omitempty"`
	Delta
}

type CostCenterDeviation struct {
	CostCenter string `json:"cost_center"`
	Delta
	Comment     string                `json:"comment"`
	TopAccounts []AccountContribution `json:"top_accounts"`
	Evidence    Evidence              `json:"evidence"`
}

type DetailDeviation struct {
	Account     string `json:"account"`
	AccountName string `json:"account_name,omitempty"`
	CostCenter  string `json:"cost_center"`
	Class       string `json:"class"`
	Delta
	Comment  string   `json:"comment"`
	Evidence Evidence `json:"evidence"`
}

type DeviationSummary struct {
	TotalPrevious       float64 `json:"total_previous"`
	TotalCurrent        float64 `json:"total_current"`
	TotalDeltaAbs       float64 `json:"total_delta_abs"`
	TotalDeltaPct       float64 `json:"total_delta_pct"`
	BookingsPrevious    int     `json:"bookings_previous"`
	BookingsCurrent     int     `json:"bookings_current"`
	AccountsCompared    int     `json:"accounts_compared"`
	CostCentersCompared int     `json:"cost_centers_compared"`
	MaterialAccounts    int     `json:"material_accounts"`
	MaterialCostCenters int     `json:"material_cost_centers"`
}

type Materiality struct {
	Absolute float64 `json:"absolute"`
	Percent  float64 `json:"percent"`
}

type DeviationResponse struct {
	PreviousLabel string                `json:"previous_label"`
	CurrentLabel  string                `json:"current_label"`
	Materiality   Materiality           `json:"materiality"`
	Summary       DeviationSummary      `json:"summary"`
	ByAccount     []AccountDeviation    `json:"by_account"`
	ByCostCenter  []CostCenterDeviation `json:"by_cost_center"`
	ByDetail      []DetailDeviation     `json:"by_detail"`
}
