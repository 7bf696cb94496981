package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/ledger-atlas/pkg/config"
	"github.com/de-tools/ledger-atlas/pkg/models/api"
	"github.com/de-tools/ledger-atlas/pkg/services/analysis"
)

func newTestServer(t *testing.T) (*httptest.Server, *prometheus.Registry) {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	metrics, err := analysis.NewMetrics(registry)
	require.NoError(t, err)
	ctrl, err := analysis.NewController(cfg, metrics)
	require.NoError(t, err)

	router, err := ConfigureRouter(Config{
		Addr: ":8080",
		Dependencies: Dependencies{
			Service:  ctrl,
			Logger:   zerolog.New(zerolog.NewTestWriter(t)),
			Registry: registry,
		},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, registry
}

func TestWebAPI_Endpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
		check          func(t *testing.T, body []byte)
	}{
		{
			name:           "Healthz",
			method:         http.MethodGet,
			path:           "/healthz",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.Equal(t, "ok", string(body))
			},
		},
		{
			name:           "Classification",
			method:         http.MethodGet,
			path:           "/api/v1/classification",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				resp := unmarshal[api.ClassificationResponse](t, body)
				assert.Len(t, resp.Ranges, 2)
			},
		},
		{
			name:   "Deviations",
			method: http.MethodPost,
			path:   "/api/v1/deviations",
			body: `{
			  "previous": {"label": "2023", "bookings": [{"posting_date": "2023-03-01", "amount": 50000, "account": "5200", "account_name": "Rent", "cost_center": "HQ"}]},
			  "current": {"label": "2024", "bookings": [{"posting_date": "2024-03-01", "amount": 75000, "account": "5200", "account_name": "Rent", "cost_center": "HQ"}]}
			}`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				resp := unmarshal[api.DeviationResponse](t, body)
				require.Len(t, resp.ByAccount, 1)
				assert.Equal(t, "5200", resp.ByAccount[0].Account)
				assert.Equal(t, 25000.0, resp.ByAccount[0].Delta.Abs)
				assert.Equal(t, 1, resp.Summary.MaterialAccounts)
			},
		},
		{
			name:   "Trends",
			method: http.MethodPost,
			path:   "/api/v1/trends",
			body: `{"periods": [
			  {"label": "2022", "bookings": [{"posting_date": "2022-01-01", "amount": 100, "account": "5200"}]},
			  {"label": "2023", "bookings": [{"posting_date": "2023-01-01", "amount": 110, "account": "5200"}]},
			  {"label": "2024", "bookings": [{"posting_date": "2024-01-01", "amount": 121, "account": "5200"}]}
			]}`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				resp := unmarshal[api.TrendResponse](t, body)
				require.Len(t, resp.Accounts, 1)
				assert.Equal(t, "rising", resp.Accounts[0].Classification)
				assert.NotNil(t, resp.Alerts)
			},
		},
		{
			name:           "RollingForecastInsufficientData",
			method:         http.MethodPost,
			path:           "/api/v1/forecasts/rolling",
			body:           `{"current": [{"posting_date": "2024-01-01", "amount": -1000, "account": "4000"}], "method": "trend"}`,
			expectedStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body []byte) {
				resp := unmarshal[api.ErrorResponse](t, body)
				assert.Contains(t, resp.Error, "insufficient data")
			},
		},
		{
			name:           "SeriesForecast",
			method:         http.MethodPost,
			path:           "/api/v1/forecasts/series",
			body:           `{"values": [10, 20, 30], "method": "linear", "horizon": 2}`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				resp := unmarshal[api.Forecast](t, body)
				assert.Equal(t, []float64{40, 50}, resp.Values)
			},
		},
		{
			name:           "UnknownRoute",
			method:         http.MethodGet,
			path:           "/api/v1/nope",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, srv.URL+tc.path, strings.NewReader(tc.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")
			if tc.check != nil {
				tc.check(t, body)
			}
		})
	}
}

func TestWebAPI_Metrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/forecasts/series", "application/json", strings.NewReader(`{"values": [1, 2, 3]}`))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `ledger_http_requests_total{method="POST",route="/api/v1/forecasts/series",status="200"} 1`)
	assert.Contains(t, out, `ledger_analysis_runs_total{kind="series_forecast",outcome="ok"} 1`)
}

func TestConfigureRouter_DuplicateRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	cfg := Config{Dependencies: Dependencies{Registry: registry}}

	_, err := ConfigureRouter(cfg)
	require.NoError(t, err)
	_, err = ConfigureRouter(cfg)
	assert.Error(t, err)
}

func unmarshal[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}
