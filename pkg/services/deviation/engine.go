// Package deviation compares two periods of bookings and reports material
// changes per account, per cost center and per account × cost center.
package deviation

import (
	"strings"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/services/classify"
)

// Limits bound the size of the evidence attached to findings.
type Limits struct {
	Evidence        int `mapstructure:"evidence" default:"10" validate:"gte=0"`
	CommentEvidence int `mapstructure:"comment_evidence" default:"3" validate:"gte=0"`
	Detail          int `mapstructure:"detail" default:"15" validate:"gte=0"`
	DrillDown       int `mapstructure:"drill_down" default:"3" validate:"gte=0"`
}

func DefaultLimits() Limits {
	return Limits{
		Evidence:        10,
		CommentEvidence: 3,
		Detail:          15,
		DrillDown:       3,
	}
}

// Engine is stateless; one value can serve concurrent analyses.
type Engine struct {
	classifier classify.Classifier
	limits     Limits
}

func NewEngine(classifier classify.Classifier, limits Limits) *Engine {
	if classifier == nil {
		classifier = classify.Default()
	}
	return &Engine{classifier: classifier, limits: limits}
}

// Analyze compares previous against current.
func (e *Engine) Analyze(previous, current []domain.Booking, cfg domain.DeviationConfig) domain.AnalysisResult {
	result := domain.AnalysisResult{
		PreviousLabel: cfg.PreviousLabel,
		CurrentLabel:  cfg.CurrentLabel,
		Config:        cfg,
		ByAccount:     []domain.AccountDeviation{},
		ByCostCenter:  []domain.CostCenterDeviation{},
		ByDetail:      []domain.DetailDeviation{},
	}

	names := accountNames(previous, current)

	prevGroups := group(previous, AccountKey)
	currGroups := group(current, AccountKey)
	prevTotals := Aggregate(previous, AccountKey)
	currTotals := Aggregate(current, AccountKey)
	accounts := unionKeys(prevTotals, currTotals)

	for _, account := range accounts {
		d := ComputeDelta(prevTotals[account], currTotals[account])
		if !IsMaterial(d, cfg) {
			continue
		}
		dev := domain.AccountDeviation{
			Account:     account,
			AccountName: names[account],
			Class:       e.classifier.Classify(account),
			Delta:       d,
			Evidence:    e.evidence(prevGroups[account], currGroups[account], true),
		}
		dev.Comment = e.accountComment(dev, cfg)
		result.ByAccount = append(result.ByAccount, dev)
	}
	sortByDelta(result.ByAccount, func(d domain.AccountDeviation) domain.Delta { return d.Delta })

	result.ByCostCenter = e.costCenters(previous, current, names, cfg)
	result.ByDetail = e.details(previous, current, names, cfg)

	prevTotal, currTotal := sum(previous), sum(current)
	total := ComputeDelta(prevTotal, currTotal)
	result.Summary = domain.DeviationSummary{
		TotalPrevious:       prevTotal,
		TotalCurrent:        currTotal,
		TotalDeltaAbs:       total.Abs,
		TotalDeltaPct:       total.Pct,
		BookingsPrevious:    len(previous),
		BookingsCurrent:     len(current),
		AccountsCompared:    len(accounts),
		CostCentersCompared: len(unionKeys(Aggregate(previous, CostCenterKey), Aggregate(current, CostCenterKey))),
		MaterialAccounts:    len(result.ByAccount),
		MaterialCostCenters: len(result.ByCostCenter),
	}

	return result
}

func (e *Engine) costCenters(previous, current []domain.Booking, names map[string]string, cfg domain.DeviationConfig) []domain.CostCenterDeviation {
	prevGroups := group(previous, CostCenterKey)
	currGroups := group(current, CostCenterKey)
	prevTotals := Aggregate(previous, CostCenterKey)
	currTotals := Aggregate(current, CostCenterKey)

	out := []domain.CostCenterDeviation{}
	for _, cc := range unionKeys(prevTotals, currTotals) {
		d := ComputeDelta(prevTotals[cc], currTotals[cc])
		if !IsMaterial(d, cfg) {
			continue
		}
		dev := domain.CostCenterDeviation{
			CostCenter:  cc,
			Delta:       d,
			TopAccounts: e.drillDown(prevGroups[cc], currGroups[cc], names),
			Evidence:    e.evidence(prevGroups[cc], currGroups[cc], false),
		}
		dev.Comment = e.costCenterComment(dev, cfg)
		out = append(out, dev)
	}
	sortByDelta(out, func(d domain.CostCenterDeviation) domain.Delta { return d.Delta })
	return out
}

// drillDown ranks the accounts inside one cost center by their own delta.
func (e *Engine) drillDown(previous, current []domain.Booking, names map[string]string) []domain.AccountContribution {
	prevTotals := Aggregate(previous, AccountKey)
	currTotals := Aggregate(current, AccountKey)

	out := make([]domain.AccountContribution, 0)
	for _, account := range unionKeys(prevTotals, currTotals) {
		out = append(out, domain.AccountContribution{
			Account:     account,
			AccountName: names[account],
			Delta:       ComputeDelta(prevTotals[account], currTotals[account]),
		})
	}
	sortByDelta(out, func(c domain.AccountContribution) domain.Delta { return c.Delta })
	if len(out) > e.limits.DrillDown {
		out = out[:e.limits.DrillDown]
	}
	return out
}

func (e *Engine) details(previous, current []domain.Booking, names map[string]string, cfg domain.DeviationConfig) []domain.DetailDeviation {
	prevGroups := group(previous, DetailKey)
	currGroups := group(current, DetailKey)
	prevTotals := Aggregate(previous, DetailKey)
	currTotals := Aggregate(current, DetailKey)

	out := []domain.DetailDeviation{}
	for _, key := range unionKeys(prevTotals, currTotals) {
		d := ComputeDelta(prevTotals[key], currTotals[key])
		if !IsMaterial(d, cfg) {
			continue
		}
		account, cc, _ := strings.Cut(key, "\x00")
		dev := domain.DetailDeviation{
			Account:     account,
			AccountName: names[account],
			CostCenter:  cc,
			Class:       e.classifier.Classify(account),
			Delta:       d,
			Evidence:    e.evidence(prevGroups[key], currGroups[key], true),
		}
		dev.Comment = e.detailComment(dev, cfg)
		out = append(out, dev)
	}
	sortByDelta(out, func(d domain.DetailDeviation) domain.Delta { return d.Delta })
	if len(out) > e.limits.Detail {
		out = out[:e.limits.Detail]
	}
	return out
}

// accountNames prefers names from the current period.
func accountNames(previous, current []domain.Booking) map[string]string {
	names := make(map[string]string)
	for _, set := range [][]domain.Booking{current, previous} {
		for _, b := range set {
			if _, ok := names[b.Account]; !ok && b.AccountName != "" {
				names[b.Account] = b.AccountName
			}
		}
	}
	return names
}

func sum(bookings []domain.Booking) float64 {
	var total float64
	for _, b := range bookings {
		total += b.Amount
	}
	return total
}
