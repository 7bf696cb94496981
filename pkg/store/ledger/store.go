// Package ledger reads bookings from a SQL ledger table.
package ledger

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/de-tools/ledger-atlas/pkg/models/store"
)

type Store interface {
	// GetBookings returns bookings posted in [from, to), oldest first.
	GetBookings(ctx context.Context, from, to time.Time) ([]store.BookingRecord, error)
	// AppendBookings inserts records in a single transaction.
	AppendBookings(ctx context.Context, records []store.BookingRecord) (int, error)
}

type ledgerStore struct {
	db    *sqlx.DB
	table string
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func NewStore(db *sqlx.DB, table string) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid ledger table name %q", table)
	}
	return &ledgerStore{db: db, table: table}, nil
}

func (s *ledgerStore) GetBookings(ctx context.Context, from, to time.Time) ([]store.BookingRecord, error) {
	logger := zerolog.Ctx(ctx)

	query := fmt.Sprintf(`
		SELECT
			posting_date,
			amount,
			account,
			account_name,
			cost_center,
			profit_center,
			vendor,
			customer,
			document_number,
			description
		FROM %s
		WHERE posting_date >= $1
			AND posting_date < $2
		ORDER BY posting_date, document_number`, s.table)

	var records []store.BookingRecord
	if err := s.db.SelectContext(ctx, &records, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to query bookings from %s: %w", s.table, err)
	}

	logger.Debug().
		Str("table", s.table).
		Time("from", from).
		Time("to", to).
		Int("records", len(records)).
		Msg("bookings loaded")

	return records, nil
}

func (s *ledgerStore) AppendBookings(ctx context.Context, records []store.BookingRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	logger := zerolog.Ctx(ctx)

	query := fmt.Sprintf(`
		INSERT INTO %s (
			posting_date,
			amount,
			account,
			account_name,
			cost_center,
			profit_center,
			vendor,
			customer,
			document_number,
			description
		) VALUES (
			:posting_date,
			:amount,
			:account,
			:account_name,
			:cost_center,
			:profit_center,
			:vendor,
			:customer,
			:document_number,
			:description
		)`, s.table)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareNamedContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert into %s: %w", s.table, err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, r); err != nil {
			return 0, fmt.Errorf("failed to insert booking %d into %s: %w", i, s.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bookings: %w", err)
	}

	logger.Debug().
		Str("table", s.table).
		Int("records", len(records)).
		Msg("bookings appended")

	return len(records), nil
}
