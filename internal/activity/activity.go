package activity

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/efi-capital/portfolio-tracker/internal/model"
	"github.com/efi-capital/portfolio-tracker/internal/tools"
)

const _timestampLayout = "01/02/2006 03:04PM"

// Formatter renders trade log lines in one configured timezone so entries
// read consistently no matter where the server runs.
type Formatter struct {
	loc *time.Location
	now func() time.Time
}

func NewFormatter(timezone string) (*Formatter, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: can't load timezone %s", err, timezone)
	}
	return &Formatter{
		loc: loc,
		now: time.Now,
	}, nil
}

func usd(amount float64) string {
	return money.NewFromFloat(amount, money.USD).Display()
}

func quantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func sign(delta float64) string {
	if delta > 0 {
		return "+"
	}
	return ""
}

// EquityTrade describes a committed share fill. Callers only log deltas
// that actually changed the position (delta != 0).
func (f *Formatter) EquityTrade(ticker string, delta, price float64) string {
	action := "SOLD"
	if delta > 0 {
		action = "BOUGHT"
	}
	total := price * delta

	return fmt.Sprintf("%s %s%s shares of %s at %s (total %s%s) on %s",
		action, sign(delta), quantity(delta), ticker,
		usd(price), sign(delta), usd(math.Abs(total)),
		f.now().In(f.loc).Format(_timestampLayout),
	)
}

// OptionTrade describes a committed contract fill; the total carries the
// x100 contract multiplier.
func (f *Formatter) OptionTrade(symbol string, callPut model.CallPut, expiration string, strike, delta, price float64) string {
	action := "SOLD"
	if delta > 0 {
		action = "BOUGHT"
	}
	total := price * delta * model.ContractMultiplier

	return fmt.Sprintf("%s %s%s contract(s) of %s %s %s %s at %s (total %s%s) on %s",
		action, sign(delta), quantity(delta),
		symbol, tools.FormatStrike(strike), callPut, expiration,
		usd(price), sign(delta), usd(math.Abs(total)),
		f.now().In(f.loc).Format(_timestampLayout),
	)
}
