package deviation

import (
	"testing"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestSignature(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Booking
		same bool
	}{
		{
			name: "case and small amount changes match",
			a:    domain.Booking{Description: "Office Rent March", Vendor: "ACME", Amount: 1520},
			b:    domain.Booking{Description: "office rent march", Vendor: "ACME", Amount: 1480},
			same: true,
		},
		{
			name: "text beyond thirty characters is ignored",
			a:    domain.Booking{Description: "Monthly maintenance contract - January"},
			b:    domain.Booking{Description: "Monthly maintenance contract - February"},
			same: true,
		},
		{
			name: "different vendor",
			a:    domain.Booking{Description: "Rent", Vendor: "ACME", Amount: 1500},
			b:    domain.Booking{Description: "Rent", Vendor: "Globex", Amount: 1500},
			same: false,
		},
		{
			name: "amount rounds to a different hundred",
			a:    domain.Booking{Description: "Rent", Amount: 1449},
			b:    domain.Booking{Description: "Rent", Amount: 1451},
			same: false,
		},
		{
			name: "prefix mismatch",
			a:    domain.Booking{Description: "Rent A"},
			b:    domain.Booking{Description: "Rent B"},
			same: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.same {
				assert.Equal(t, Signature(tt.a), Signature(tt.b))
			} else {
				assert.NotEqual(t, Signature(tt.a), Signature(tt.b))
			}
		})
	}
}

func TestSignature_Format(t *testing.T) {
	assert.Equal(t, "rent|acme gmbh|1500", Signature(domain.Booking{Description: "Rent", Vendor: "acme gmbh", Amount: 1510}))
	assert.Equal(t, "small||0", Signature(domain.Booking{Description: "Small", Amount: -20}))
}

func TestTopBookings(t *testing.T) {
	bookings := []domain.Booking{
		{DocumentNumber: "1", Amount: 10},
		{DocumentNumber: "2", Amount: -300},
		{DocumentNumber: "3", Amount: 200},
		{DocumentNumber: "4", Amount: 50},
	}

	top := TopBookings(bookings, 2)

	assert.Len(t, top, 2)
	assert.Equal(t, "2", top[0].DocumentNumber)
	assert.Equal(t, "3", top[1].DocumentNumber)
	assert.Equal(t, "1", bookings[0].DocumentNumber, "input is not reordered")
	assert.Len(t, TopBookings(bookings, 10), 4)
	assert.Empty(t, TopBookings(nil, 3))
}

func TestNewAndMissingBookings(t *testing.T) {
	prev := []domain.Booking{{Description: "Rent", Amount: 1500}, {Description: "Phone", Amount: 80}}
	curr := []domain.Booking{{Description: "Rent", Amount: 1500}, {Description: "Cloud", Amount: 900}}

	assert.Equal(t, []domain.Booking{{Description: "Cloud", Amount: 900}}, NewBookings(prev, curr))
	assert.Equal(t, []domain.Booking{{Description: "Phone", Amount: 80}}, MissingBookings(prev, curr))
	assert.Empty(t, NewBookings(prev, prev))
}
