package api

// DateLayout is the wire format of posting dates.
const DateLayout = "2006-01-02"

type Booking struct {
	PostingDate    string  `json:"posting_date" yaml:"posting_date" validate:"required,datetime=2006-01-02"`
	Amount         float64 `json:"amount" yaml:"amount"`
	Account        string  `json:"account" yaml:"account" validate:"required"`
	AccountName    string  `json:"account_name,omitempty" yaml:"account_name,omitempty"`
	CostCenter     string  `json:"cost_center,omitempty" yaml:"cost_center,omitempty"`
	ProfitCenter   string  `json:"profit_center,omitempty" yaml:"profit_center,omitempty"`
	Vendor         string  `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Customer       string  `json:"customer,omitempty" yaml:"customer,omitempty"`
	DocumentNumber string  `json:"document_number,omitempty" yaml:"document_number,omitempty"`
	Description    string  `json:"description,omitempty" yaml:"description,omitempty"`
}

type PeriodInput struct {
	Label    string    `json:"label" validate:"required"`
	Bookings []Booking `json:"bookings" validate:"dive"`
}
