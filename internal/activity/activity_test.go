package activity

import (
	"testing"
	"time"

	"github.com/efi-capital/portfolio-tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedFormatter(t *testing.T) *Formatter {
	t.Helper()
	f, err := NewFormatter("America/New_York")
	require.NoError(t, err)
	// 2026-01-02 15:04 EST
	f.now = func() time.Time {
		return time.Date(2026, 1, 2, 20, 4, 0, 0, time.UTC)
	}
	return f
}

func TestEquityTradeBuy(t *testing.T) {
	f := fixedFormatter(t)
	got := f.EquityTrade("AAPL", 5, 150)
	assert.Equal(t, "BOUGHT +5 shares of AAPL at $150.00 (total +$750.00) on 01/02/2026 03:04PM", got)
}

func TestEquityTradeSell(t *testing.T) {
	f := fixedFormatter(t)
	got := f.EquityTrade("MSFT", -2.5, 1200.5)
	assert.Equal(t, "SOLD -2.5 shares of MSFT at $1,200.50 (total $3,001.25) on 01/02/2026 03:04PM", got)
}

func TestOptionTrade(t *testing.T) {
	f := fixedFormatter(t)
	got := f.OptionTrade("SPY", model.Call, "2025-06-20", 150, 2, 1.1)
	assert.Equal(t, "BOUGHT +2 contract(s) of SPY 150.00 CALL 2025-06-20 at $1.10 (total +$220.00) on 01/02/2026 03:04PM", got)

	got = f.OptionTrade("SPY", model.Put, "2025-06-20", 150.5, -1, 2.25)
	assert.Equal(t, "SOLD -1 contract(s) of SPY 150.50 PUT 2025-06-20 at $2.25 (total $225.00) on 01/02/2026 03:04PM", got)
}

func TestNewFormatterBadTimezone(t *testing.T) {
	_, err := NewFormatter("Not/AZone")
	assert.Error(t, err)
}
