package adapters

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/ledger-atlas/pkg/models/api"
	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/models/store"
)

func MapStoreBookingToDomain(record store.BookingRecord) domain.Booking {
	return domain.Booking{
		PostingDate:    record.PostingDate,
		Amount:         record.Amount,
		Account:        strings.TrimSpace(record.Account),
		AccountName:    record.AccountName.String,
		CostCenter:     record.CostCenter.String,
		ProfitCenter:   record.ProfitCenter.String,
		Vendor:         record.Vendor.String,
		Customer:       record.Customer.String,
		DocumentNumber: record.DocumentNumber.String,
		Description:    record.Description.String,
	}
}

func MapStoreBookingsToDomain(records []store.BookingRecord) []domain.Booking {
	out := make([]domain.Booking, 0, len(records))
	for _, r := range records {
		out = append(out, MapStoreBookingToDomain(r))
	}
	return out
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func MapDomainBookingToStore(b domain.Booking) store.BookingRecord {
	return store.BookingRecord{
		PostingDate:    b.PostingDate,
		Amount:         b.Amount,
		Account:        b.Account,
		AccountName:    nullString(b.AccountName),
		CostCenter:     nullString(b.CostCenter),
		ProfitCenter:   nullString(b.ProfitCenter),
		Vendor:         nullString(b.Vendor),
		Customer:       nullString(b.Customer),
		DocumentNumber: nullString(b.DocumentNumber),
		Description:    nullString(b.Description),
	}
}

func MapDomainBookingsToStore(bookings []domain.Booking) []store.BookingRecord {
	out := make([]store.BookingRecord, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, MapDomainBookingToStore(b))
	}
	return out
}

// MapApiBookingToDomain parses the posting date; a bad date is an error.
func MapApiBookingToDomain(b api.Booking) (domain.Booking, error) {
	date, err := time.Parse(api.DateLayout, b.PostingDate)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("invalid posting_date %q: %w", b.PostingDate, err)
	}
	return domain.Booking{
		PostingDate:    date,
		Amount:         b.Amount,
		Account:        strings.TrimSpace(b.Account),
		AccountName:    b.AccountName,
		CostCenter:     b.CostCenter,
		ProfitCenter:   b.ProfitCenter,
		Vendor:         b.Vendor,
		Customer:       b.Customer,
		DocumentNumber: b.DocumentNumber,
		Description:    b.Description,
	}, nil
}

func MapApiBookingsToDomain(bookings []api.Booking) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0, len(bookings))
	for i, b := range bookings {
		d, err := MapApiBookingToDomain(b)
		if err != nil {
			return nil, fmt.Errorf("booking %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func MapDomainBookingToApi(b domain.Booking) api.Booking {
	return api.Booking{
		PostingDate:    b.PostingDate.Format(api.DateLayout),
		Amount:         b.Amount,
		Account:        b.Account,
		AccountName:    b.AccountName,
		CostCenter:     b.CostCenter,
		ProfitCenter:   b.ProfitCenter,
		Vendor:         b.Vendor,
		Customer:       b.Customer,
		DocumentNumber: b.DocumentNumber,
		Description:    b.Description,
	}
}

func MapDomainBookingsToApi(bookings []domain.Booking) []api.Booking {
	out := make([]api.Booking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, MapDomainBookingToApi(b))
	}
	return out
}
