package domain

import "time"

// Booking is a single ledger entry. Amount keeps the sign of the source ledger.
type Booking struct {
	PostingDate    time.Time
	Amount         float64
	Account        string
	AccountName    string
	CostCenter     string
	ProfitCenter   string
	Vendor         string // optional
	Customer       string // optional
	DocumentNumber string
	Description    string
}

// PeriodTotals are the headline figures of one period.
type PeriodTotals struct {
	Revenue  float64
	Expenses float64
	Result   float64 // Revenue - Expenses
}

// Period is one labelled snapshot of bookings ("2023", "Q1 2024").
type Period struct {
	Label    string
	Bookings []Booking
	Totals   PeriodTotals
}

// AccountClass tells revenue accounts from expense accounts.
type AccountClass string

const (
	AccountClassRevenue AccountClass = "revenue"
	AccountClassExpense AccountClass = "expense"
	AccountClassOther   AccountClass = "other"
)
