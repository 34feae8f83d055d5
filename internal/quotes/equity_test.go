package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/efi-capital/portfolio-tracker/internal/config"
	"github.com/efi-capital/portfolio-tracker/internal/logger"
	"github.com/efi-capital/portfolio-tracker/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuotesConfig(equityURL, chainURL string) config.QuotesConfig {
	return config.QuotesConfig{
		EquityBaseURL:    equityURL,
		ChainBaseURL:     chainURL,
		Timeout:          2 * time.Second,
		ChainCacheTTL:    1 * time.Hour,
		EquityRatePerMin: 100000,
		ChainRatePerMin:  100000,
	}
}

func testDeps(t *testing.T) (*metrics.Metrics, logger.Logger) {
	t.Helper()
	l, _, err := logger.NewZapLogger(logger.Error)
	require.NoError(t, err)
	return metrics.NewMetrics(prometheus.NewRegistry()), l
}

func TestEquityServiceLastClose(t *testing.T) {
	var gotSymbol string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSymbol = r.URL.Query().Get("symbol")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"AAPL","close":187.23}`))
	}))
	defer srv.Close()

	m, l := testDeps(t)
	s := NewEquityService(testQuotesConfig(srv.URL, srv.URL), m, l)

	price, err := s.LastClose(context.Background(), "aapl")
	require.NoError(t, err)
	assert.InDelta(t, 187.23, price, 1e-9)
	assert.Equal(t, "AAPL", gotSymbol)
}

func TestEquityServiceFailures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		m, l := testDeps(t)
		s := NewEquityService(testQuotesConfig(srv.URL, srv.URL), m, l)

		_, err := s.LastClose(context.Background(), "AAPL")
		assert.Error(t, err)
	})

	t.Run("no close price", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"symbol":"NOPE","close":0}`))
		}))
		defer srv.Close()

		m, l := testDeps(t)
		s := NewEquityService(testQuotesConfig(srv.URL, srv.URL), m, l)

		_, err := s.LastClose(context.Background(), "NOPE")
		assert.Error(t, err)
	})

	t.Run("empty ticker", func(t *testing.T) {
		m, l := testDeps(t)
		s := NewEquityService(testQuotesConfig("http://localhost:1", "http://localhost:1"), m, l)

		_, err := s.LastClose(context.Background(), "  ")
		assert.Error(t, err)
	})
}
