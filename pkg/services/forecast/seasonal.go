package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/services/classify"
)

// monthKey counts months since year 0 so that consecutive months differ by one.
type monthKey int

func keyOf(t time.Time) monthKey {
	return monthKey(t.Year()*12 + int(t.Month()) - 1)
}

func (k monthKey) year() int               { return int(k) / 12 }
func (k monthKey) calendarMonth() int      { return int(k) % 12 } // 0 = January
func (k monthKey) String() string          { return fmt.Sprintf("%04d-%02d", k.year(), k.calendarMonth()+1) }
func (k monthKey) add(months int) monthKey { return k + monthKey(months) }

// monthlySeries is a contiguous run of months with revenue and expense magnitudes.
type monthlySeries struct {
	first    monthKey
	revenue  []float64
	expenses []float64
}

func (s monthlySeries) len() int { return len(s.revenue) }

func (s monthlySeries) month(i int) monthKey { return s.first.add(i) }

func (s monthlySeries) last() monthKey { return s.first.add(s.len() - 1) }

// buildMonthlySeries sums bookings per calendar month up to and including last.
// Months without bookings are zero.
func buildMonthlySeries(bookings []domain.Booking, last monthKey, classifier classify.Classifier) monthlySeries {
	revenue := make(map[monthKey]float64)
	expenses := make(map[monthKey]float64)

	first := last
	for _, b := range bookings {
		k := keyOf(b.PostingDate)
		if k > last {
			continue
		}
		if k < first {
			first = k
		}
		switch classifier.Classify(b.Account) {
		case domain.AccountClassRevenue:
			revenue[k] += b.Amount
		case domain.AccountClassExpense:
			expenses[k] += b.Amount
		}
	}

	n := int(last-first) + 1
	s := monthlySeries{
		first:    first,
		revenue:  make([]float64, n),
		expenses: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		k := first.add(i)
		s.revenue[i] = math.Abs(revenue[k])
		s.expenses[i] = math.Abs(expenses[k])
	}
	return s
}

// seasonalIndices returns, per calendar month, the month average divided by the
// overall average. Months without history, or a zero overall average, give 1.0.
func seasonalIndices(s monthlySeries, values []float64) [12]float64 {
	var idx [12]float64
	var sums [12]float64
	var counts [12]int
	var total float64

	for i, v := range values {
		m := s.month(i).calendarMonth()
		sums[m] += v
		counts[m]++
		total += v
	}

	for m := range idx {
		idx[m] = 1
	}
	if len(values) == 0 || total == 0 {
		return idx
	}

	overall := total / float64(len(values))
	for m := range idx {
		if counts[m] == 0 {
			continue
		}
		idx[m] = (sums[m] / float64(counts[m])) / overall
	}
	return idx
}

func neutralIndices() [12]float64 {
	var idx [12]float64
	for m := range idx {
		idx[m] = 1
	}
	return idx
}

// zScore maps the supported confidence levels to the two-sided normal quantile.
func zScore(level float64) (float64, bool) {
	switch {
	case math.Abs(level-0.90) < 1e-9:
		return 1.645, true
	case math.Abs(level-0.95) < 1e-9:
		return 1.96, true
	}
	return 0, false
}

// SupportedConfidenceLevel reports whether bands can be drawn at level.
// Only 0.90 and 0.95 are supported.
func SupportedConfidenceLevel(level float64) bool {
	_, ok := zScore(level)
	return ok
}
