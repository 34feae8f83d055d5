package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/efi-capital/portfolio-tracker/internal/logger"
	"github.com/efi-capital/portfolio-tracker/internal/metrics"
	"github.com/efi-capital/portfolio-tracker/internal/model"
	"github.com/efi-capital/portfolio-tracker/internal/valuation"
)

const _dateLayout = "2006-01-02"

type Store interface {
	ListEquities(ctx context.Context) ([]model.EquityPosition, error)
	UpsertEquity(ctx context.Context, p model.EquityPosition) error
	ListOptions(ctx context.Context) ([]model.OptionPosition, error)
	UpdateOption(ctx context.Context, p model.OptionPosition) error
	GetSettings(ctx context.Context) (model.Settings, error)
	UpsertPerformance(ctx context.Context, date string, totalValue float64) error
}

type EquityQuoter interface {
	LastClose(ctx context.Context, ticker string) (float64, error)
}

type OptionQuoter interface {
	MidPrice(ctx context.Context, symbol, expiration string, strike float64, callPut model.CallPut) (float64, error)
}

// Refresher re-prices every stored position and records the daily account
// value snapshot. One failing quote never aborts the remaining rows; store
// failures do.
type Refresher struct {
	store  Store
	equity EquityQuoter
	chain  OptionQuoter

	metrics *metrics.Metrics
	logger  logger.Logger
	now     func() time.Time
}

func NewRefresher(store Store, equity EquityQuoter, chain OptionQuoter, m *metrics.Metrics, logger logger.Logger) *Refresher {
	return &Refresher{
		store:   store,
		equity:  equity,
		chain:   chain,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

func (r *Refresher) RunOnce(ctx context.Context) error {
	if err := r.refreshEquities(ctx); err != nil {
		return err
	}
	if err := r.refreshOptions(ctx); err != nil {
		return err
	}
	if err := r.recordSnapshot(ctx); err != nil {
		return err
	}

	r.metrics.RefreshRuns.Inc()
	return nil
}

func (r *Refresher) refreshEquities(ctx context.Context) error {
	positions, err := r.store.ListEquities(ctx)
	if err != nil {
		return fmt.Errorf("%w: can't list equity positions", err)
	}

	for _, p := range positions {
		price, err := r.equity.LastClose(ctx, p.Ticker)
		if err != nil {
			// stale row keeps its previous price until the next pass
			r.logger.Warnf("%s: skipping equity %s on refresh", err, p.Ticker)
			continue
		}

		p.CurrentPrice = price
		p.UnrealizedPL = valuation.UnrealizedPL(price, p.AvgCost, p.SharesHeld, 1)
		if err := r.store.UpsertEquity(ctx, p); err != nil {
			return fmt.Errorf("%w: can't write refreshed equity %s", err, p.Ticker)
		}
	}

	return nil
}

func (r *Refresher) refreshOptions(ctx context.Context) error {
	positions, err := r.store.ListOptions(ctx)
	if err != nil {
		return fmt.Errorf("%w: can't list option positions", err)
	}

	for _, p := range positions {
		price, err := r.chain.MidPrice(ctx, p.Symbol, p.Expiration, p.Strike, p.CallPut)
		if err != nil {
			r.logger.Warnf("%s: skipping option %d (%s) on refresh", err, p.ID, p.Symbol)
			continue
		}

		p.CurrentPrice = price
		p.UnrealizedPL = valuation.UnrealizedPL(price, p.AvgCost, p.ContractsHeld, model.ContractMultiplier)
		if err := r.store.UpdateOption(ctx, p); err != nil {
			return fmt.Errorf("%w: can't write refreshed option %d", err, p.ID)
		}
	}

	return nil
}

// recordSnapshot upserts today's total account value, overwriting any
// earlier snapshot for the same date.
func (r *Refresher) recordSnapshot(ctx context.Context) error {
	equities, err := r.store.ListEquities(ctx)
	if err != nil {
		return fmt.Errorf("%w: can't list equity positions for snapshot", err)
	}
	options, err := r.store.ListOptions(ctx)
	if err != nil {
		return fmt.Errorf("%w: can't list option positions for snapshot", err)
	}
	settings, err := r.store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("%w: can't load settings for snapshot", err)
	}

	totals := valuation.Totals(equities, options, settings.OriginalCapital)

	date := r.now().Format(_dateLayout)
	if err := r.store.UpsertPerformance(ctx, date, totals.TotalValue); err != nil {
		return fmt.Errorf("%w: can't upsert performance snapshot", err)
	}
	r.metrics.SnapshotWrites.Inc()

	return nil
}
