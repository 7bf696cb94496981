package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/ledger-atlas/pkg/adapters"
	"github.com/de-tools/ledger-atlas/pkg/models/api"
	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/store/ledger"
)

// DateRange is the half-open interval [From, To).
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.From.Format(api.DateLayout), r.To.AddDate(0, 0, -1).Format(api.DateLayout))
}

// ParseRange accepts "2024" (the year), "2024-03" (the month) or
// "2024-01-01..2024-06-30" with an inclusive end date.
func ParseRange(s string) (DateRange, error) {
	s = strings.TrimSpace(s)

	if from, to, ok := strings.Cut(s, ".."); ok {
		start, err := time.Parse(api.DateLayout, from)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid range start %q: %w", from, err)
		}
		end, err := time.Parse(api.DateLayout, to)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid range end %q: %w", to, err)
		}
		if end.Before(start) {
			return DateRange{}, fmt.Errorf("range end %s is before start %s", to, from)
		}
		return DateRange{From: start, To: end.AddDate(0, 0, 1)}, nil
	}

	if t, err := time.Parse("2006-01", s); err == nil {
		return DateRange{From: t, To: t.AddDate(0, 1, 0)}, nil
	}
	if t, err := time.Parse("2006", s); err == nil {
		return DateRange{From: t, To: t.AddDate(1, 0, 0)}, nil
	}
	return DateRange{}, fmt.Errorf("invalid date range %q", s)
}

type storeSource struct {
	store  ledger.Store
	period DateRange
	name   string
}

func NewStoreSource(store ledger.Store, name string, period DateRange) Source {
	return &storeSource{store: store, period: period, name: name}
}

func (s *storeSource) Describe() string {
	return fmt.Sprintf("%s@%s", s.name, s.period)
}

func (s *storeSource) Bookings(ctx context.Context) ([]domain.Booking, error) {
	records, err := s.store.GetBookings(ctx, s.period.From, s.period.To)
	if err != nil {
		return nil, err
	}
	return adapters.MapStoreBookingsToDomain(records), nil
}
