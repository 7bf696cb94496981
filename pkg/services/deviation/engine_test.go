package deviation

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/services/classify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *Engine {
	return NewEngine(classify.Default(), DefaultLimits())
}

func defaultConfig() domain.DeviationConfig {
	return domain.DeviationConfig{
		MaterialityAbsolute: 5000,
		MaterialityPercent:  10,
		PreviousLabel:       "2023",
		CurrentLabel:        "2024",
	}
}

func booking(account, cc string, amount float64, text string) domain.Booking {
	return domain.Booking{
		PostingDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:         amount,
		Account:        account,
		AccountName:    "Account " + account,
		CostCenter:     cc,
		DocumentNumber: "D-" + account,
		Description:    text,
	}
}

func sampleBookings() []domain.Booking {
	return []domain.Booking{
		booking("5200", "100", 30000, "Travel Berlin"),
		booking("5200", "200", 20000, "Travel Munich"),
		booking("4000", "100", -120000, "Sales"),
		booking("6300", "300", 8000, "Rent"),
	}
}

func TestAnalyze_ConcreteDeviation(t *testing.T) {
	prev := []domain.Booking{{Account: "5200", Amount: 50000}}
	curr := []domain.Booking{{Account: "5200", Amount: 75000}}

	result := newEngine().Analyze(prev, curr, defaultConfig())

	require.Len(t, result.ByAccount, 1)
	dev := result.ByAccount[0]
	assert.Equal(t, "5200", dev.Account)
	assert.Equal(t, 25000.0, dev.Abs)
	assert.InDelta(t, 50.0, dev.Pct, 1e-9)
	assert.Equal(t, domain.AccountClassExpense, dev.Class)
	assert.Contains(t, dev.Comment, "Expenses on account 5200 rose by 25,000.00 (+50.0%)")
}

func TestAnalyze_Idempotence(t *testing.T) {
	configs := []domain.DeviationConfig{
		defaultConfig(),
		{MaterialityAbsolute: 0, MaterialityPercent: 0},
	}
	for i, cfg := range configs {
		t.Run(fmt.Sprintf("config %d", i), func(t *testing.T) {
			b := sampleBookings()
			result := newEngine().Analyze(b, b, cfg)

			assert.Empty(t, result.ByAccount)
			assert.Empty(t, result.ByCostCenter)
			assert.Empty(t, result.ByDetail)
			assert.Equal(t, 0.0, result.Summary.TotalDeltaAbs)
		})
	}
}

func TestAnalyze_MaterialityAndGate(t *testing.T) {
	tests := []struct {
		name     string
		prev     float64
		curr     float64
		reported bool
	}{
		{name: "percent gate fails", prev: 100000, curr: 105000, reported: false},
		{name: "absolute gate fails", prev: 1000, curr: 4000, reported: false},
		{name: "both at boundary", prev: 50000, curr: 55000, reported: true},
		{name: "both exceeded", prev: 10000, curr: 20000, reported: true},
		{name: "decrease both exceeded", prev: 20000, curr: 10000, reported: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := []domain.Booking{{Account: "5200", Amount: tt.prev}}
			curr := []domain.Booking{{Account: "5200", Amount: tt.curr}}

			result := newEngine().Analyze(prev, curr, defaultConfig())
			if tt.reported {
				assert.Len(t, result.ByAccount, 1)
			} else {
				assert.Empty(t, result.ByAccount)
			}
		})
	}
}

func TestAnalyze_ZeroPrevious(t *testing.T) {
	curr := []domain.Booking{{Account: "5200", Amount: 10000}}

	result := newEngine().Analyze(nil, curr, defaultConfig())

	require.Len(t, result.ByAccount, 1)
	pct := result.ByAccount[0].Pct
	assert.Equal(t, 100.0, pct)
	assert.False(t, math.IsNaN(pct) || math.IsInf(pct, 0))
	assert.Len(t, result.ByAccount[0].Evidence.NewBookings, 1)
}

func TestAnalyze_EmptyInputs(t *testing.T) {
	result := newEngine().Analyze(nil, nil, defaultConfig())

	assert.NotNil(t, result.ByAccount)
	assert.Empty(t, result.ByAccount)
	assert.Empty(t, result.ByCostCenter)
	assert.Empty(t, result.ByDetail)
	assert.Equal(t, domain.DeviationSummary{}, result.Summary)
}

func TestAnalyze_SortAndTruncation(t *testing.T) {
	var prev, curr []domain.Booking
	for i := 0; i < 25; i++ {
		account := fmt.Sprintf("%d", 5000+i)
		cc := fmt.Sprintf("CC%02d", i)
		prev = append(prev, booking(account, cc, 10000, "base"))
		curr = append(curr, booking(account, cc, 10000+float64(i+1)*6000, "base"))
	}

	result := newEngine().Analyze(prev, curr, defaultConfig())

	require.Len(t, result.ByAccount, 25)
	for i := 1; i < len(result.ByAccount); i++ {
		assert.GreaterOrEqual(t, math.Abs(result.ByAccount[i-1].Abs), math.Abs(result.ByAccount[i].Abs))
	}
	assert.LessOrEqual(t, len(result.ByDetail), 15)
	assert.Equal(t, "5024", result.ByDetail[0].Account)
	assert.Equal(t, "CC24", result.ByDetail[0].CostCenter)
}

func TestAnalyze_DetailCommentAndEvidence(t *testing.T) {
	prev := []domain.Booking{booking("5200", "A", 50000, "Office rent")}
	curr := []domain.Booking{
		booking("5200", "A", 50000, "Office rent"),
		booking("5200", "A", 25000, "Consulting"),
	}

	result := newEngine().Analyze(prev, curr, defaultConfig())

	require.Len(t, result.ByDetail, 1)
	d := result.ByDetail[0]
	assert.Equal(t, "5200", d.Account)
	assert.Equal(t, "A", d.CostCenter)
	assert.Equal(t, domain.AccountClassExpense, d.Class)
	assert.Equal(t, 25000.0, d.Abs)

	assert.Equal(t, 1, d.Evidence.CountPrevious)
	assert.Equal(t, 2, d.Evidence.CountCurrent)
	require.Len(t, d.Evidence.TopCurrent, 2)
	assert.Equal(t, 50000.0, d.Evidence.TopCurrent[0].Amount)
	require.Len(t, d.Evidence.NewBookings, 1)
	assert.Equal(t, "Consulting", d.Evidence.NewBookings[0].Description)
	assert.Empty(t, d.Evidence.MissingBookings)

	assert.Contains(t, d.Comment, "Expenses on account 5200 (Account 5200) in cost center A rose by 25,000.00 (+50.0%)")
	assert.Contains(t, d.Comment, "1 new booking pattern(s), 0 pattern(s) no longer present.")
	assert.Contains(t, d.Comment, "Largest bookings in 2024:")
}

func TestAnalyze_DetailWithoutCostCenter(t *testing.T) {
	prev := []domain.Booking{booking("4000", "", -100000, "Sales")}
	curr := []domain.Booking{booking("4000", "", -60000, "Sales")}

	result := newEngine().Analyze(prev, curr, defaultConfig())

	require.Len(t, result.ByDetail, 1)
	assert.Contains(t, result.ByDetail[0].Comment, "Revenue on account 4000 (Account 4000) without cost center decreased by 40,000.00")
}

func TestAnalyze_CostCenterDrillDown(t *testing.T) {
	prev := []domain.Booking{
		booking("5200", "100", 10000, "a"),
		booking("5300", "100", 10000, "b"),
		booking("5400", "100", 10000, "c"),
		booking("5500", "100", 10000, "d"),
	}
	curr := []domain.Booking{
		booking("5200", "100", 40000, "a"),
		booking("5300", "100", 5000, "b"),
		booking("5400", "100", 12000, "c"),
		booking("5500", "100", 30000, "d"),
	}

	result := newEngine().Analyze(prev, curr, defaultConfig())

	require.Len(t, result.ByCostCenter, 1)
	cc := result.ByCostCenter[0]
	assert.Equal(t, "100", cc.CostCenter)
	require.Len(t, cc.TopAccounts, 3)
	assert.Equal(t, "5200", cc.TopAccounts[0].Account)
	assert.Equal(t, "5500", cc.TopAccounts[1].Account)
	assert.Equal(t, "5300", cc.TopAccounts[2].Account)
	assert.Contains(t, cc.Comment, "Main drivers: 5200 Account 5200 (+30,000.00)")
}

func TestAnalyze_NewMissingSymmetry(t *testing.T) {
	prev := []domain.Booking{
		booking("5200", "100", 10000, "Hotel Berlin"),
		booking("5200", "100", 4000, "Taxi"),
	}
	curr := []domain.Booking{
		booking("5200", "100", 10020, "HOTEL BERLIN"),
		booking("5200", "100", 25000, "Conference fee"),
	}

	forward := newEngine().Analyze(prev, curr, defaultConfig())
	backward := newEngine().Analyze(curr, prev, defaultConfig())

	require.Len(t, forward.ByAccount, 1)
	require.Len(t, backward.ByAccount, 1)

	fwd := forward.ByAccount[0].Evidence
	bwd := backward.ByAccount[0].Evidence
	assert.Equal(t, fwd.NewBookings, bwd.MissingBookings)
	assert.Equal(t, fwd.MissingBookings, bwd.NewBookings)

	require.Len(t, fwd.NewBookings, 1)
	assert.Equal(t, "Conference fee", fwd.NewBookings[0].Description)
	require.Len(t, fwd.MissingBookings, 1)
	assert.Equal(t, "Taxi", fwd.MissingBookings[0].Description)
}

func TestAnalyze_Deterministic(t *testing.T) {
	prev := sampleBookings()
	curr := append(sampleBookings(), booking("5900", "300", 9000, "New supplier"))

	a := newEngine().Analyze(prev, curr, defaultConfig())
	b := newEngine().Analyze(prev, curr, defaultConfig())

	assert.Equal(t, a, b)
}

func TestComputeDelta(t *testing.T) {
	assert.Equal(t, domain.Delta{Previous: 0, Current: 0}, ComputeDelta(0, 0))
	assert.Equal(t, 100.0, ComputeDelta(0, -500).Pct)
	assert.Equal(t, -50.0, ComputeDelta(-1000, -1500).Pct)
}

func TestAggregate(t *testing.T) {
	totals := Aggregate(sampleBookings(), CostCenterKey)
	assert.Equal(t, map[string]float64{"100": -90000, "200": 20000, "300": 8000}, totals)
}
