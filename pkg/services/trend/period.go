package trend

import (
	"math"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/services/classify"
)

// NewPeriod labels bookings and precomputes their totals.
func NewPeriod(label string, bookings []domain.Booking, classifier classify.Classifier) domain.Period {
	return domain.Period{
		Label:    label,
		Bookings: bookings,
		Totals:   Totals(bookings, classifier),
	}
}

// Totals reports revenue and expenses as magnitudes of the class sums.
func Totals(bookings []domain.Booking, classifier classify.Classifier) domain.PeriodTotals {
	if classifier == nil {
		classifier = classify.Default()
	}
	var revenue, expenses float64
	for _, b := range bookings {
		switch classifier.Classify(b.Account) {
		case domain.AccountClassRevenue:
			revenue += b.Amount
		case domain.AccountClassExpense:
			expenses += b.Amount
		}
	}
	t := domain.PeriodTotals{
		Revenue:  math.Abs(revenue),
		Expenses: math.Abs(expenses),
	}
	t.Result = t.Revenue - t.Expenses
	return t
}
