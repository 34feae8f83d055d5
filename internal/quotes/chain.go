package quotes

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/efi-capital/portfolio-tracker/internal/config"
	"github.com/efi-capital/portfolio-tracker/internal/logger"
	"github.com/efi-capital/portfolio-tracker/internal/metrics"
	"github.com/efi-capital/portfolio-tracker/internal/model"
	"github.com/efi-capital/portfolio-tracker/internal/tools"
	"github.com/patrickmn/go-cache"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

var (
	ErrNotFound     = errors.New("contract not found in chain")
	ErrInvalidQuote = errors.New("invalid quote")
)

const _maxReqID = 1_000_000

type ChainQuote struct {
	Bid float64 `json:"b"`
	Ask float64 `json:"a"`
}

type ChainExpiration struct {
	Calls map[string]ChainQuote `json:"c"`
	Puts  map[string]ChainQuote `json:"p"`
}

// ChainSnapshot is the provider's document: expiration date -> side ->
// 2-decimal strike string -> bid/ask.
type ChainSnapshot struct {
	Options map[string]ChainExpiration `json:"options"`
}

type ChainService struct {
	c   *resty.Client
	cfg config.QuotesConfig

	// one snapshot per underlying, kept for the configured TTL to bound
	// outbound request volume
	cache       *cache.Cache
	rateLimiter ratelimit.Limiter
	metrics     *metrics.Metrics
	logger      logger.Logger
}

func NewChainService(cfg config.QuotesConfig, m *metrics.Metrics, logger logger.Logger) *ChainService {
	client := resty.New().
		SetLogger(logger).
		SetBaseURL(cfg.ChainBaseURL).
		SetTimeout(cfg.Timeout)

	return &ChainService{
		c:           client,
		cfg:         cfg,
		cache:       cache.New(cfg.ChainCacheTTL, 2*cfg.ChainCacheTTL),
		rateLimiter: ratelimit.New(cfg.ChainRatePerMin, ratelimit.Per(1*time.Minute)),
		metrics:     m,
		logger:      logger,
	}
}

// Chain returns the snapshot for symbol, fetching at most once per TTL.
func (s *ChainService) Chain(ctx context.Context, symbol string) (*ChainSnapshot, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol")
	}

	if cached, found := s.cache.Get(symbol); found {
		s.metrics.ChainCacheHits.Inc()
		return cached.(*ChainSnapshot), nil
	}

	s.rateLimiter.Take()
	s.metrics.ChainFetches.Inc()

	resp, err := s.c.R().
		SetQueryParams(map[string]string{
			"stock": symbol,
			"reqId": strconv.Itoa(rand.IntN(_maxReqID) + 1),
		}).
		SetContext(ctx).
		Get("")
	if err != nil {
		s.metrics.ChainFetchFailures.Inc()
		return nil, fmt.Errorf("%w: can't fetch options chain for %s", err, symbol)
	}
	defer resp.Body.Close()

	s.logger.Debugf("got chain response %s status: %s, %s", resp.Request.URL, resp.Status(), resp.Duration())

	if !resp.IsSuccess() {
		s.metrics.ChainFetchFailures.Inc()
		return nil, fmt.Errorf("chain request for %s failed: %s", symbol, resp.Status())
	}

	var snapshot ChainSnapshot
	if err := sonic.Unmarshal(resp.Bytes(), &snapshot); err != nil {
		s.metrics.ChainFetchFailures.Inc()
		return nil, fmt.Errorf("%w: can't unmarshal chain for %s", err, symbol)
	}
	if snapshot.Options == nil {
		s.metrics.ChainFetchFailures.Inc()
		return nil, fmt.Errorf("chain for %s has no options document", symbol)
	}

	s.cache.Set(symbol, &snapshot, cache.DefaultExpiration)
	return &snapshot, nil
}

// MidPrice resolves one contract inside the memoized snapshot and returns
// (bid+ask)/2. Missing expiration, side or strike yields ErrNotFound; a
// non-positive ask yields ErrInvalidQuote.
func (s *ChainService) MidPrice(ctx context.Context, symbol, expiration string, strike float64, callPut model.CallPut) (float64, error) {
	snapshot, err := s.Chain(ctx, symbol)
	if err != nil {
		return 0, err
	}

	exp, ok := snapshot.Options[expiration]
	if !ok {
		return 0, fmt.Errorf("%w: no expiration %s for %s", ErrNotFound, expiration, symbol)
	}

	side := exp.Calls
	if callPut == model.Put {
		side = exp.Puts
	}
	if len(side) == 0 {
		return 0, fmt.Errorf("%w: no %s data for %s %s", ErrNotFound, callPut, symbol, expiration)
	}

	strikeKey := tools.FormatStrike(strike)
	quote, ok := side[strikeKey]
	if !ok {
		return 0, fmt.Errorf("%w: strike %s not in %s %s %s chain", ErrNotFound, strikeKey, symbol, callPut, expiration)
	}

	if quote.Ask <= 0 {
		return 0, fmt.Errorf("%w: ask %.2f for %s %s %s strike %s", ErrInvalidQuote, quote.Ask, symbol, callPut, expiration, strikeKey)
	}

	return (quote.Bid + quote.Ask) / 2, nil
}
