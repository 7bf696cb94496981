package domain

import "fmt"

type ProfileDriver string

const (
	ProfileDriverPostgres ProfileDriver = "postgres"
	// ProfileDriverDuckDB reads a local DuckDB file; the dsn is its path.
	ProfileDriverDuckDB ProfileDriver = "duckdb"
)

// ConfigProfile is a named ledger connection read from the profiles file.
type ConfigProfile struct {
	Name   string
	Driver ProfileDriver
	DSN    string
	Table  string
}

func (c ConfigProfile) String() string {
	return fmt.Sprintf("%s:%s", c.Driver, c.Name)
}
