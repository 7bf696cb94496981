package classify

import (
	"testing"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultClassifier(t *testing.T) {
	c := Default()

	tests := []struct {
		account string
		want    domain.AccountClass
	}{
		{"4000", domain.AccountClassRevenue},
		{"4999", domain.AccountClassRevenue},
		{"5200", domain.AccountClassExpense},
		{"7999", domain.AccountClassExpense},
		{"8400", domain.AccountClassOther},
		{"1200", domain.AccountClassOther},
		{"5200-01", domain.AccountClassExpense},
		{" 4100 ", domain.AccountClassRevenue},
		{"ABC", domain.AccountClassOther},
		{"", domain.AccountClassOther},
	}

	for _, tt := range tests {
		t.Run(tt.account, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.account))
		})
	}
}

func TestNewClassifier_CustomRanges(t *testing.T) {
	c, err := NewClassifier([]Range{
		{From: 8000, To: 8999, Class: domain.AccountClassRevenue},
		{From: 4000, To: 7999, Class: domain.AccountClassExpense},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AccountClassRevenue, c.Classify("8400"))
	assert.Equal(t, domain.AccountClassExpense, c.Classify("4400"))
	assert.Equal(t, 4000, c.Ranges()[0].From, "ranges are sorted")
}

func TestNewClassifier_Invalid(t *testing.T) {
	_, err := NewClassifier([]Range{{From: 10, To: 1, Class: domain.AccountClassRevenue}})
	assert.Error(t, err)

	_, err = NewClassifier([]Range{
		{From: 4000, To: 5000, Class: domain.AccountClassRevenue},
		{From: 5000, To: 6000, Class: domain.AccountClassExpense},
	})
	assert.ErrorContains(t, err, "overlaps")

	_, err = NewClassifier([]Range{{From: 1, To: 2, Class: "asset"}})
	assert.Error(t, err)
}
