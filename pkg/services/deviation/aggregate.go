package deviation

import (
	"math"
	"sort"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
)

// KeyFunc extracts the grouping key of a booking.
type KeyFunc func(b domain.Booking) string

func AccountKey(b domain.Booking) string    { return b.Account }
func CostCenterKey(b domain.Booking) string { return b.CostCenter }

// DetailKey groups by account and cost center.
func DetailKey(b domain.Booking) string { return b.Account + "\x00" + b.CostCenter }

// Aggregate sums amounts per key.
func Aggregate(bookings []domain.Booking, key KeyFunc) map[string]float64 {
	out := make(map[string]float64)
	for _, b := range bookings {
		out[key(b)] += b.Amount
	}
	return out
}

func group(bookings []domain.Booking, key KeyFunc) map[string][]domain.Booking {
	out := make(map[string][]domain.Booking)
	for _, b := range bookings {
		k := key(b)
		out[k] = append(out[k], b)
	}
	return out
}

// ComputeDelta compares two totals. A move away from zero reports 100%.
func ComputeDelta(prev, curr float64) domain.Delta {
	d := domain.Delta{Previous: prev, Current: curr, Abs: curr - prev}
	switch {
	case prev != 0:
		d.Pct = d.Abs / math.Abs(prev) * 100
	case d.Abs != 0:
		d.Pct = 100
	}
	return d
}

// IsMaterial applies the AND-gate of both thresholds. An unchanged total is
// never material, whatever the thresholds.
func IsMaterial(d domain.Delta, cfg domain.DeviationConfig) bool {
	if d.Abs == 0 {
		return false
	}
	return math.Abs(d.Abs) >= cfg.MaterialityAbsolute && math.Abs(d.Pct) >= cfg.MaterialityPercent
}

// unionKeys returns the sorted union of both key sets.
func unionKeys(a, b map[string]float64) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortByDelta[T any](items []T, delta func(T) domain.Delta) {
	sort.SliceStable(items, func(i, j int) bool {
		return math.Abs(delta(items[i]).Abs) > math.Abs(delta(items[j]).Abs)
	})
}
