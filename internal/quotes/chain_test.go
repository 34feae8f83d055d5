package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/efi-capital/portfolio-tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const _chainDocument = `{
	"options": {
		"2025-06-20": {
			"c": {
				"150.00": {"b": 1.0, "a": 1.2},
				"155.00": {"b": 0.4, "a": 0.0}
			},
			"p": {
				"150.00": {"b": 2.0, "a": 2.4}
			}
		}
	}
}`

func newChainServer(t *testing.T, requests *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "SPY", r.URL.Query().Get("stock"))
		assert.NotEmpty(t, r.URL.Query().Get("reqId"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(_chainDocument))
	}))
}

func TestChainServiceMidPrice(t *testing.T) {
	var requests atomic.Int64
	srv := newChainServer(t, &requests)
	defer srv.Close()

	m, l := testDeps(t)
	s := NewChainService(testQuotesConfig(srv.URL, srv.URL), m, l)
	ctx := context.Background()

	mid, err := s.MidPrice(ctx, "spy", "2025-06-20", 150.0, model.Call)
	require.NoError(t, err)
	assert.InDelta(t, 1.1, mid, 1e-9)

	mid, err = s.MidPrice(ctx, "SPY", "2025-06-20", 150.0, model.Put)
	require.NoError(t, err)
	assert.InDelta(t, 2.2, mid, 1e-9)
}

func TestChainServiceMemoizesSnapshot(t *testing.T) {
	var requests atomic.Int64
	srv := newChainServer(t, &requests)
	defer srv.Close()

	m, l := testDeps(t)
	s := NewChainService(testQuotesConfig(srv.URL, srv.URL), m, l)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.MidPrice(ctx, "SPY", "2025-06-20", 150.0, model.Call)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), requests.Load())
}

func TestChainServiceLookupFailures(t *testing.T) {
	var requests atomic.Int64
	srv := newChainServer(t, &requests)
	defer srv.Close()

	m, l := testDeps(t)
	s := NewChainService(testQuotesConfig(srv.URL, srv.URL), m, l)
	ctx := context.Background()

	t.Run("unknown strike", func(t *testing.T) {
		_, err := s.MidPrice(ctx, "SPY", "2025-06-20", 151.0, model.Call)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown expiration", func(t *testing.T) {
		_, err := s.MidPrice(ctx, "SPY", "2026-01-16", 150.0, model.Call)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("non-positive ask", func(t *testing.T) {
		_, err := s.MidPrice(ctx, "SPY", "2025-06-20", 155.0, model.Call)
		assert.ErrorIs(t, err, ErrInvalidQuote)
	})
}

func TestChainServiceBadDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quotes": {}}`))
	}))
	defer srv.Close()

	m, l := testDeps(t)
	s := NewChainService(testQuotesConfig(srv.URL, srv.URL), m, l)

	_, err := s.Chain(context.Background(), "SPY")
	assert.Error(t, err)
}
