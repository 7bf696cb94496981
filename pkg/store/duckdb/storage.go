package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
	"github.com/marcboeker/go-duckdb/v2"
)

const DriverName = "duckdb"

// LedgerSchema creates the bookings table read and written by the ledger store.
const LedgerSchema = `
	CREATE TABLE IF NOT EXISTS %s (
		posting_date DATE NOT NULL,
		amount DOUBLE NOT NULL,
		account VARCHAR NOT NULL,
		account_name VARCHAR,
		cost_center VARCHAR,
		profit_center VARCHAR,
		vendor VARCHAR,
		customer VARCHAR,
		document_number VARCHAR,
		description VARCHAR
	);
`

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func init() {
	// DuckDB accepts $n placeholders, the same ones the ledger queries use.
	sqlx.BindDriver(DriverName, sqlx.DOLLAR)
}

type Settings struct {
	DbPath string
	// Table is created on connect when set.
	Table   string
	Threads int
}

func NewDB(settings Settings) (*sqlx.DB, error) {
	var bootQueries []string
	if settings.Table != "" {
		if !tableName.MatchString(settings.Table) {
			return nil, fmt.Errorf("invalid ledger table name %q", settings.Table)
		}
		bootQueries = append(bootQueries, fmt.Sprintf(LedgerSchema, settings.Table))
	}

	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return sqlx.NewDb(sql.OpenDB(c), DriverName), nil
}
