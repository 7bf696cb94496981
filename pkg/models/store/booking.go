package store

import (
	"database/sql"
	"time"
)

// BookingRecord is one row of the ledger table.
type BookingRecord struct {
	PostingDate    time.Time      `db:"posting_date"`
	Amount         float64        `db:"amount"`
	Account        string         `db:"account"`
	AccountName    sql.NullString `db:"account_name"`
	CostCenter     sql.NullString `db:"cost_center"`
	ProfitCenter   sql.NullString `db:"profit_center"`
	Vendor         sql.NullString `db:"vendor"`
	Customer       sql.NullString `db:"customer"`
	DocumentNumber sql.NullString `db:"document_number"`
	Description    sql.NullString `db:"description"`
}
