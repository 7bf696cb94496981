// Package classify maps account numbers onto revenue / expense classes through a
// single range table used by every engine.
package classify

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
)

// Range is an inclusive account number interval.
type Range struct {
	From  int                 `mapstructure:"from" json:"from" yaml:"from"`
	To    int                 `mapstructure:"to" json:"to" yaml:"to"`
	Class domain.AccountClass `mapstructure:"class" json:"class" yaml:"class"`
}

func (r Range) contains(n int) bool {
	return n >= r.From && n <= r.To
}

// Classifier resolves the class of an account.
type Classifier interface {
	Classify(account string) domain.AccountClass
	Ranges() []Range
}

type table struct {
	ranges []Range
}

// DefaultRanges is the canonical table: revenue 4000-4999, expense 5000-7999.
// Everything else, including non numeric accounts, is "other".
func DefaultRanges() []Range {
	return []Range{
		{From: 4000, To: 4999, Class: domain.AccountClassRevenue},
		{From: 5000, To: 7999, Class: domain.AccountClassExpense},
	}
}

// Default returns a classifier over DefaultRanges.
func Default() Classifier {
	c, _ := NewClassifier(DefaultRanges())
	return c
}

// NewClassifier validates and sorts ranges. Overlapping ranges are rejected so
// that every account resolves to exactly one class.
func NewClassifier(ranges []Range) (Classifier, error) {
	sorted := append([]Range(nil), ranges...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].From < sorted[j].From })

	for i, r := range sorted {
		if r.From > r.To {
			return nil, fmt.Errorf("invalid range %d-%d: from is greater than to", r.From, r.To)
		}
		switch r.Class {
		case domain.AccountClassRevenue, domain.AccountClassExpense, domain.AccountClassOther:
		default:
			return nil, fmt.Errorf("invalid class %q for range %d-%d", r.Class, r.From, r.To)
		}
		if i > 0 && sorted[i-1].To >= r.From {
			return nil, fmt.Errorf("range %d-%d overlaps %d-%d",
				r.From, r.To, sorted[i-1].From, sorted[i-1].To)
		}
	}

	return &table{ranges: sorted}, nil
}

func (t *table) Classify(account string) domain.AccountClass {
	n, ok := accountNumber(account)
	if !ok {
		return domain.AccountClassOther
	}
	for _, r := range t.ranges {
		if r.contains(n) {
			return r.Class
		}
	}
	return domain.AccountClassOther
}

func (t *table) Ranges() []Range {
	return append([]Range(nil), t.ranges...)
}

// accountNumber reads the leading digits of an account ("5200", "5200-01").
func accountNumber(account string) (int, bool) {
	account = strings.TrimSpace(account)
	end := strings.IndexFunc(account, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(account)
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(account[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
