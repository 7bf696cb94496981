package terminal

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/models/store"
	"github.com/de-tools/ledger-atlas/pkg/store/ledger"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, opts Options, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	opts.Output = &out
	cli := NewCLI(opts)
	cli.SetArgs(append(args, "--profiles", filepath.Join(t.TempDir(), "missing")))
	err := cli.ExecuteContext(context.Background())
	return out.String(), err
}

const previousBookings = `[
  {"posting_date": "2023-03-01", "amount": 50000, "account": "5200", "account_name": "Rent", "cost_center": "HQ"},
  {"posting_date": "2023-03-15", "amount": -200000, "account": "4000", "account_name": "Sales", "cost_center": "HQ"}
]`

const currentBookings = `bookings:
  - posting_date: "2024-03-01"
    amount: 75000
    account: "5200"
    account_name: Rent
    cost_center: HQ
  - posting_date: "2024-03-15"
    amount: -201000
    account: "4000"
    account_name: Sales
    cost_center: HQ
`

func TestCLI_Deviations(t *testing.T) {
	dir := t.TempDir()
	prev := writeFile(t, dir, "2023.json", previousBookings)
	curr := writeFile(t, dir, "2024.yaml", currentBookings)

	out, err := run(t, Options{}, "deviations", "--previous", prev, "--current", curr,
		"--previous-label", "2023", "--current-label", "2024", "-o", "json")
	require.NoError(t, err)

	var resp struct {
		PreviousLabel string `json:"previous_label"`
		Summary       struct {
			MaterialAccounts int `json:"material_accounts"`
		} `json:"summary"`
		ByAccount []struct {
			Account string `json:"account"`
		} `json:"by_account"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "2023", resp.PreviousLabel)
	assert.Equal(t, 1, resp.Summary.MaterialAccounts)
	require.NotEmpty(t, resp.ByAccount)
	assert.Equal(t, "5200", resp.ByAccount[0].Account)
}

func TestCLI_DeviationsText(t *testing.T) {
	dir := t.TempDir()
	prev := writeFile(t, dir, "2023.json", previousBookings)
	curr := writeFile(t, dir, "2024.yaml", currentBookings)

	out, err := run(t, Options{}, "deviations", "--previous", prev, "--current", curr, "--materiality-abs", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "Deviation analysis")
	assert.Contains(t, out, "+25,000.00 (+50.0%)")
}

func TestCLI_DeviationsMissingFlag(t *testing.T) {
	_, err := run(t, Options{}, "deviations", "--previous", "a.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current")
}

func TestCLI_Trends(t *testing.T) {
	dir := t.TempDir()
	p1 := writeFile(t, dir, "p1.json", `[{"posting_date": "2022-01-01", "amount": 100, "account": "5200", "cost_center": "HQ"}]`)
	p2 := writeFile(t, dir, "p2.json", `[{"posting_date": "2023-01-01", "amount": 110, "account": "5200", "cost_center": "HQ"}]`)
	p3 := writeFile(t, dir, "p3.json", `[{"posting_date": "2024-01-01", "amount": 121, "account": "5200", "cost_center": "HQ"}]`)

	out, err := run(t, Options{}, "trends", "--period", "2022="+p1, "--period", "2023="+p2, "--period", "2024="+p3, "-o", "json")
	require.NoError(t, err)

	var resp struct {
		Periods  []string `json:"periods"`
		Accounts []struct {
			Account        string  `json:"account"`
			CAGR           float64 `json:"cagr"`
			Classification string  `json:"classification"`
		} `json:"accounts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"2022", "2023", "2024"}, resp.Periods)
	require.Len(t, resp.Accounts, 1)
	assert.InDelta(t, 0.1, resp.Accounts[0].CAGR, 1e-9)
	assert.Equal(t, "rising", resp.Accounts[0].Classification)
}

func TestCLI_TrendsInvalidPeriod(t *testing.T) {
	_, err := run(t, Options{}, "trends", "--period", "2022=")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid period")
}

func TestCLI_ForecastSeries(t *testing.T) {
	out, err := run(t, Options{}, "forecast", "series", "--values", "10,20,30", "--method", "linear", "--horizon", "2", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"method": "linear", "value": 40, "values": [40, 50], "confidence": 1, "r2": 1}`, out)
}

func TestCLI_ForecastRollingFromProfile(t *testing.T) {
	var months []store.BookingRecord
	for m := time.January; m <= time.December; m++ {
		months = append(months,
			store.BookingRecord{PostingDate: time.Date(2023, m, 10, 0, 0, 0, 0, time.UTC), Amount: -1000, Account: "4000"},
			store.BookingRecord{PostingDate: time.Date(2023, m, 20, 0, 0, 0, 0, time.UTC), Amount: 600, Account: "5000", CostCenter: sql.NullString{String: "HQ", Valid: true}},
		)
	}

	var opened []string
	opener := func(_ context.Context, p domain.ConfigProfile) (ledger.Store, func() error, error) {
		opened = append(opened, p.Name)
		return fakeStore(months), func() error { return nil }, nil
	}

	dir := t.TempDir()
	profiles := writeFile(t, dir, "ledgercfg", "[prod]\ndsn = postgres://ledger@db/ledger\n")

	var out bytes.Buffer
	cli := NewCLI(Options{Output: &out, Opener: opener})
	cli.SetArgs([]string{"forecast", "rolling", "--current", "prod@2023", "--horizon", "3", "--method", "trend", "--profiles", profiles, "-o", "json"})
	require.NoError(t, cli.Execute())

	var resp struct {
		Method    string `json:"method"`
		Forecasts []struct {
			Month   string  `json:"month"`
			Revenue float64 `json:"revenue"`
		} `json:"forecasts"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "trend", resp.Method)
	require.Len(t, resp.Forecasts, 3)
	assert.Equal(t, "2024-01", resp.Forecasts[0].Month)
	assert.InDelta(t, 1000, resp.Forecasts[0].Revenue, 1e-6)
	assert.Equal(t, []string{"prod"}, opened)
}

func TestCLI_ForecastRollingInvalidConfidence(t *testing.T) {
	_, err := run(t, Options{}, "forecast", "rolling", "--current", "x.json", "--confidence", "0.5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confidence")
}

func TestCLI_Profiles(t *testing.T) {
	dir := t.TempDir()
	profiles := writeFile(t, dir, "ledgercfg", "[prod]\ndsn = postgres://ledger@db/ledger\ntable = gl\n\n[broken]\ndriver = mysql\ndsn = x\n")

	var out bytes.Buffer
	cli := NewCLI(Options{Output: &out})
	cli.SetArgs([]string{"profiles", "--profiles", profiles})
	require.NoError(t, cli.Execute())

	assert.Contains(t, out.String(), "prod\tpostgres\tgl")
	assert.Contains(t, out.String(), "broken\tinvalid:")
}

func TestCLI_NoProfilesFile(t *testing.T) {
	out, err := run(t, Options{}, "profiles")
	require.NoError(t, err)
	assert.Contains(t, out, "No profiles file found")
}

type fakeStore []store.BookingRecord

func (f fakeStore) AppendBookings(_ context.Context, records []store.BookingRecord) (int, error) {
	return len(records), nil
}

func (f fakeStore) GetBookings(_ context.Context, from, to time.Time) ([]store.BookingRecord, error) {
	var out []store.BookingRecord
	for _, r := range f {
		if !r.PostingDate.Before(from) && r.PostingDate.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestCLI_Import(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "2023.json", previousBookings)
	profiles := writeFile(t, dir, "ledgercfg", "[local]\ndriver = duckdb\ndsn = "+filepath.Join(dir, "ledger.duckdb")+"\n")

	var appended int
	opener := func(_ context.Context, p domain.ConfigProfile) (ledger.Store, func() error, error) {
		assert.Equal(t, domain.ProfileDriverDuckDB, p.Driver)
		return countingStore{n: &appended}, nil, nil
	}

	var out bytes.Buffer
	cli := NewCLI(Options{Output: &out, Opener: opener})
	cli.SetArgs([]string{"import", "--profile", "local", "--profiles", profiles, file})
	require.NoError(t, cli.Execute())

	assert.Equal(t, 2, appended)
	assert.Contains(t, out.String(), "Imported 2 bookings into local")
}

type countingStore struct {
	fakeStore
	n *int
}

func (c countingStore) AppendBookings(_ context.Context, records []store.BookingRecord) (int, error) {
	*c.n += len(records)
	return len(records), nil
}
