package deviation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
)

const signatureTextLength = 30

// TopBookings returns the n bookings with the largest absolute amount.
func TopBookings(bookings []domain.Booking, n int) []domain.Booking {
	sorted := append([]domain.Booking(nil), bookings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Amount) > math.Abs(sorted[j].Amount)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Signature is the coarse fingerprint used to match bookings across periods:
// the first 30 characters of the lower-cased text, the vendor and the amount
// rounded to the nearest hundred.
func Signature(b domain.Booking) string {
	text := []rune(strings.ToLower(b.Description))
	if len(text) > signatureTextLength {
		text = text[:signatureTextLength]
	}
	rounded := math.Round(b.Amount/100) * 100
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	return fmt.Sprintf("%s|%s|%.0f", string(text), b.Vendor, rounded)
}

// NewBookings returns current bookings whose signature has no match in previous.
func NewBookings(previous, current []domain.Booking) []domain.Booking {
	known := make(map[string]struct{}, len(previous))
	for _, b := range previous {
		known[Signature(b)] = struct{}{}
	}

	var out []domain.Booking
	for _, b := range current {
		if _, ok := known[Signature(b)]; !ok {
			out = append(out, b)
		}
	}
	return out
}

// MissingBookings returns previous bookings whose pattern disappeared in current.
func MissingBookings(previous, current []domain.Booking) []domain.Booking {
	return NewBookings(current, previous)
}

func (e *Engine) evidence(previous, current []domain.Booking, patterns bool) domain.Evidence {
	ev := domain.Evidence{
		TopPrevious:   TopBookings(previous, e.limits.Evidence),
		TopCurrent:    TopBookings(current, e.limits.Evidence),
		CountPrevious: len(previous),
		CountCurrent:  len(current),
	}
	if patterns {
		ev.NewBookings = TopBookings(NewBookings(previous, current), e.limits.Evidence)
		ev.MissingBookings = TopBookings(MissingBookings(previous, current), e.limits.Evidence)
	}
	return ev
}
