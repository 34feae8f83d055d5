package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	EquityFetches       prometheus.Counter
	EquityFetchFailures prometheus.Counter
	ChainFetches        prometheus.Counter
	ChainFetchFailures  prometheus.Counter
	ChainCacheHits      prometheus.Counter
	RefreshRuns         prometheus.Counter
	SnapshotWrites      prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EquityFetches: factory.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_equity_quote_fetches_total",
			Help: "Outbound equity quote requests.",
		}),
		EquityFetchFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_equity_quote_failures_total",
			Help: "Equity quote requests that returned no usable price.",
		}),
		ChainFetches: factory.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_option_chain_fetches_total",
			Help: "Outbound option chain requests.",
		}),
		ChainFetchFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_option_chain_failures_total",
			Help: "Option chain requests that failed.",
		}),
		ChainCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_option_chain_cache_hits_total",
			Help: "Chain lookups served from the in-memory snapshot cache.",
		}),
		RefreshRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_refresh_runs_total",
			Help: "Completed session refresh passes.",
		}),
		SnapshotWrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_performance_snapshot_writes_total",
			Help: "Daily performance snapshot upserts.",
		}),
	}
}
