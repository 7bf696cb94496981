package deviation

import (
	"math"
	"strings"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	fallbackPreviousLabel = "the previous period"
	fallbackCurrentLabel  = "the current period"
)

func labels(cfg domain.DeviationConfig) (string, string) {
	prev, curr := cfg.PreviousLabel, cfg.CurrentLabel
	if prev == "" {
		prev = fallbackPreviousLabel
	}
	if curr == "" {
		curr = fallbackCurrentLabel
	}
	return prev, curr
}

// grew reports whether the magnitude of the balance went up. Revenue is often
// credit signed, so direction is judged on magnitudes.
func grew(d domain.Delta) bool {
	return math.Abs(d.Current) >= math.Abs(d.Previous)
}

func verb(class domain.AccountClass, up bool) (subject, action string) {
	switch class {
	case domain.AccountClassRevenue:
		subject = "Revenue"
		action = "decreased"
		if up {
			action = "increased"
		}
	case domain.AccountClassExpense:
		subject = "Expenses"
		action = "fell"
		if up {
			action = "rose"
		}
	default:
		subject = "Balance"
		action = "decreased"
		if up {
			action = "increased"
		}
	}
	return subject, action
}

func (e *Engine) accountComment(dev domain.AccountDeviation, cfg domain.DeviationConfig) string {
	return e.bookingComment("account "+accountLabel(dev.Account, dev.AccountName), dev.Class, dev.Delta, dev.Evidence, cfg)
}

func (e *Engine) detailComment(dev domain.DetailDeviation, cfg domain.DeviationConfig) string {
	where := "account " + accountLabel(dev.Account, dev.AccountName)
	if dev.CostCenter != "" {
		where += " in cost center " + dev.CostCenter
	} else {
		where += " without cost center"
	}
	return e.bookingComment(where, dev.Class, dev.Delta, dev.Evidence, cfg)
}

func accountLabel(account, name string) string {
	if name == "" {
		return account
	}
	return account + " (" + name + ")"
}

// bookingComment describes a delta and the booking patterns behind it.
func (e *Engine) bookingComment(where string, class domain.AccountClass, d domain.Delta, ev domain.Evidence, cfg domain.DeviationConfig) string {
	p := message.NewPrinter(language.English)
	prevLabel, currLabel := labels(cfg)
	subject, action := verb(class, grew(d))

	var sb strings.Builder
	sb.WriteString(p.Sprintf("%s on %s %s by %.2f (%+.1f%%) from %.2f in %s to %.2f in %s.",
		subject, where, action, math.Abs(d.Abs), d.Pct,
		d.Previous, prevLabel, d.Current, currLabel))

	if n, m := len(ev.NewBookings), len(ev.MissingBookings); n > 0 || m > 0 {
		sb.WriteString(p.Sprintf(" %d new booking pattern(s), %d pattern(s) no longer present.", n, m))
	}

	top := TopBookings(ev.TopCurrent, e.limits.CommentEvidence)
	if len(top) > 0 {
		sb.WriteString(p.Sprintf("\nLargest bookings in %s:", currLabel))
		for _, b := range top {
			sb.WriteString("\n- " + bookingLine(p, b))
		}
	}
	return sb.String()
}

func (e *Engine) costCenterComment(dev domain.CostCenterDeviation, cfg domain.DeviationConfig) string {
	p := message.NewPrinter(language.English)
	prevLabel, currLabel := labels(cfg)
	action := "decreased"
	if grew(dev.Delta) {
		action = "increased"
	}

	var sb strings.Builder
	sb.WriteString(p.Sprintf("Cost center %s %s by %.2f (%+.1f%%) from %.2f in %s to %.2f in %s.",
		dev.CostCenter, action, math.Abs(dev.Abs), dev.Pct,
		dev.Previous, prevLabel, dev.Current, currLabel))

	if len(dev.TopAccounts) > 0 {
		parts := make([]string, 0, len(dev.TopAccounts))
		for _, a := range dev.TopAccounts {
			label := a.Account
			if a.AccountName != "" {
				label += " " + a.AccountName
			}
			parts = append(parts, p.Sprintf("%s (%+.2f)", label, a.Abs))
		}
		sb.WriteString(" Main drivers: " + strings.Join(parts, ", ") + ".")
	}
	return sb.String()
}

func bookingLine(p *message.Printer, b domain.Booking) string {
	fields := make([]string, 0, 4)
	if !b.PostingDate.IsZero() {
		fields = append(fields, b.PostingDate.Format("2006-01-02"))
	}
	if b.DocumentNumber != "" {
		fields = append(fields, b.DocumentNumber)
	}
	if b.Description != "" {
		fields = append(fields, b.Description)
	}
	if b.Vendor != "" {
		fields = append(fields, b.Vendor)
	} else if b.Customer != "" {
		fields = append(fields, b.Customer)
	}
	fields = append(fields, p.Sprintf("%.2f", b.Amount))
	return strings.Join(fields, " · ")
}
