package refresh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/efi-capital/portfolio-tracker/internal/logger"
	"github.com/efi-capital/portfolio-tracker/internal/metrics"
	"github.com/efi-capital/portfolio-tracker/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	equities  map[string]model.EquityPosition
	options   map[int64]model.OptionPosition
	settings  model.Settings
	snapshots map[string]float64

	listEquitiesErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		equities:  make(map[string]model.EquityPosition),
		options:   make(map[int64]model.OptionPosition),
		snapshots: make(map[string]float64),
	}
}

func (f *fakeStore) ListEquities(ctx context.Context) ([]model.EquityPosition, error) {
	if f.listEquitiesErr != nil {
		return nil, f.listEquitiesErr
	}
	var out []model.EquityPosition
	for _, p := range f.equities {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) UpsertEquity(ctx context.Context, p model.EquityPosition) error {
	f.equities[p.Ticker] = p
	return nil
}

func (f *fakeStore) ListOptions(ctx context.Context) ([]model.OptionPosition, error) {
	var out []model.OptionPosition
	for _, p := range f.options {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) UpdateOption(ctx context.Context, p model.OptionPosition) error {
	f.options[p.ID] = p
	return nil
}

func (f *fakeStore) GetSettings(ctx context.Context) (model.Settings, error) {
	return f.settings, nil
}

func (f *fakeStore) UpsertPerformance(ctx context.Context, date string, totalValue float64) error {
	f.snapshots[date] = totalValue
	return nil
}

type fakeEquityQuoter struct {
	prices map[string]float64
}

func (f *fakeEquityQuoter) LastClose(ctx context.Context, ticker string) (float64, error) {
	price, ok := f.prices[ticker]
	if !ok {
		return 0, errors.New("quote unavailable")
	}
	return price, nil
}

type fakeOptionQuoter struct {
	prices map[string]float64
}

func (f *fakeOptionQuoter) MidPrice(ctx context.Context, symbol, expiration string, strike float64, callPut model.CallPut) (float64, error) {
	price, ok := f.prices[symbol]
	if !ok {
		return 0, errors.New("chain lookup failed")
	}
	return price, nil
}

func testRefresher(t *testing.T, store *fakeStore, eq *fakeEquityQuoter, oq *fakeOptionQuoter) *Refresher {
	t.Helper()
	l, _, err := logger.NewZapLogger(logger.Error)
	require.NoError(t, err)

	r := NewRefresher(store, eq, oq, metrics.NewMetrics(prometheus.NewRegistry()), l)
	r.now = func() time.Time {
		return time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	}
	return r
}

func TestRunOnceRepricesAndSnapshots(t *testing.T) {
	store := newFakeStore()
	store.settings = model.Settings{ID: 1, OriginalCapital: 10000}
	store.equities["AAPL"] = model.EquityPosition{Ticker: "AAPL", SharesHeld: 10, AvgCost: 100, CurrentPrice: 90}
	store.options[1] = model.OptionPosition{
		ID: 1, Symbol: "SPY", CallPut: model.Call, Expiration: "2026-06-19",
		Strike: 500, ContractsHeld: 2, AvgCost: 1.0, CurrentPrice: 0.5,
	}

	r := testRefresher(t, store,
		&fakeEquityQuoter{prices: map[string]float64{"AAPL": 150}},
		&fakeOptionQuoter{prices: map[string]float64{"SPY": 2.0}},
	)

	require.NoError(t, r.RunOnce(context.Background()))

	aapl := store.equities["AAPL"]
	assert.InDelta(t, 150, aapl.CurrentPrice, 1e-9)
	assert.InDelta(t, 500, aapl.UnrealizedPL, 1e-9)

	spy := store.options[1]
	assert.InDelta(t, 2.0, spy.CurrentPrice, 1e-9)
	assert.InDelta(t, 200, spy.UnrealizedPL, 1e-9)

	// equity 1500 + options 400 + buying power (10000 - 1000 - 200)
	assert.InDelta(t, 10700, store.snapshots["2026-03-09"], 1e-9)
}

func TestRunOnceToleratesQuoteFailures(t *testing.T) {
	store := newFakeStore()
	store.settings = model.Settings{ID: 1, OriginalCapital: 1000}
	store.equities["AAPL"] = model.EquityPosition{Ticker: "AAPL", SharesHeld: 1, AvgCost: 100, CurrentPrice: 110, UnrealizedPL: 10}
	store.equities["FAIL"] = model.EquityPosition{Ticker: "FAIL", SharesHeld: 2, AvgCost: 50, CurrentPrice: 60, UnrealizedPL: 20}

	r := testRefresher(t, store,
		&fakeEquityQuoter{prices: map[string]float64{"AAPL": 120}},
		&fakeOptionQuoter{prices: map[string]float64{}},
	)

	require.NoError(t, r.RunOnce(context.Background()))

	// the failing row keeps its stored price instead of being zeroed
	assert.InDelta(t, 60, store.equities["FAIL"].CurrentPrice, 1e-9)
	assert.InDelta(t, 20, store.equities["FAIL"].UnrealizedPL, 1e-9)
	assert.InDelta(t, 120, store.equities["AAPL"].CurrentPrice, 1e-9)

	// snapshot still recorded from whatever prices are on hand
	assert.Len(t, store.snapshots, 1)
}

func TestRunOncePropagatesStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.listEquitiesErr = errors.New("store unreachable")

	r := testRefresher(t, store, &fakeEquityQuoter{}, &fakeOptionQuoter{})
	assert.Error(t, r.RunOnce(context.Background()))
}

func TestSnapshotOverwritesSameDay(t *testing.T) {
	store := newFakeStore()
	store.settings = model.Settings{ID: 1, OriginalCapital: 500}

	r := testRefresher(t, store, &fakeEquityQuoter{}, &fakeOptionQuoter{})

	require.NoError(t, r.RunOnce(context.Background()))
	store.settings.OriginalCapital = 750
	require.NoError(t, r.RunOnce(context.Background()))

	require.Len(t, store.snapshots, 1)
	assert.InDelta(t, 750, store.snapshots["2026-03-09"], 1e-9)
}
