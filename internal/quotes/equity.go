package quotes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/efi-capital/portfolio-tracker/internal/config"
	"github.com/efi-capital/portfolio-tracker/internal/logger"
	"github.com/efi-capital/portfolio-tracker/internal/metrics"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const _quotePath = "/quote"

type equityQuoteResponse struct {
	Symbol string  `json:"symbol"`
	Close  float64 `json:"close"`
}

type EquityService struct {
	c   *resty.Client
	cfg config.QuotesConfig

	rateLimiter ratelimit.Limiter
	metrics     *metrics.Metrics
	logger      logger.Logger
}

func NewEquityService(cfg config.QuotesConfig, m *metrics.Metrics, logger logger.Logger) *EquityService {
	client := resty.New().
		SetLogger(logger).
		SetBaseURL(cfg.EquityBaseURL).
		SetTimeout(cfg.Timeout)

	return &EquityService{
		c:           client,
		cfg:         cfg,
		rateLimiter: ratelimit.New(cfg.EquityRatePerMin, ratelimit.Per(1*time.Minute)),
		metrics:     m,
		logger:      logger,
	}
}

// LastClose fetches the latest close price for ticker. Every failure mode
// (transport, timeout, non-2xx, unusable payload) comes back as an error;
// callers decide whether that blocks the operation or just skips the row.
func (s *EquityService) LastClose(ctx context.Context, ticker string) (float64, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return 0, fmt.Errorf("empty ticker")
	}

	s.rateLimiter.Take()
	s.metrics.EquityFetches.Inc()

	resp, err := s.c.R().
		SetQueryParam("symbol", ticker).
		SetContext(ctx).
		Get(_quotePath)
	if err != nil {
		s.metrics.EquityFetchFailures.Inc()
		return 0, fmt.Errorf("%w: can't fetch quote for %s", err, ticker)
	}
	defer resp.Body.Close()

	s.logger.Debugf("got quote response %s status: %s, %s", resp.Request.URL, resp.Status(), resp.Duration())

	if !resp.IsSuccess() {
		s.metrics.EquityFetchFailures.Inc()
		return 0, fmt.Errorf("quote request for %s failed: %s", ticker, resp.Status())
	}

	var quote equityQuoteResponse
	if err := sonic.Unmarshal(resp.Bytes(), &quote); err != nil {
		s.metrics.EquityFetchFailures.Inc()
		return 0, fmt.Errorf("%w: can't unmarshal quote for %s", err, ticker)
	}
	if quote.Close <= 0 {
		s.metrics.EquityFetchFailures.Inc()
		return 0, fmt.Errorf("no close price for %s", ticker)
	}

	return quote.Close, nil
}
