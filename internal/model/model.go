package model

import "time"

type CallPut string

const (
	Call CallPut = "CALL"
	Put  CallPut = "PUT"
)

func (c CallPut) Valid() bool {
	return c == Call || c == Put
}

// Settings is the singleton account configuration row (id always 1).
type Settings struct {
	ID              int64   `db:"id"`
	OriginalCapital float64 `db:"original_capital"`
}

type EquityPosition struct {
	Ticker       string  `db:"ticker"`
	SharesHeld   float64 `db:"shares_held"`
	AvgCost      float64 `db:"avg_cost"`
	CurrentPrice float64 `db:"current_price"`
	UnrealizedPL float64 `db:"unrealized_pl"`
}

// OptionPosition holds one contract line. AvgCost and CurrentPrice are
// per-contract quotes; UnrealizedPL carries the x100 contract multiplier.
type OptionPosition struct {
	ID            int64   `db:"id"`
	Symbol        string  `db:"symbol"`
	CallPut       CallPut `db:"call_put"`
	Expiration    string  `db:"expiration"` // YYYY-MM-DD
	Strike        float64 `db:"strike"`
	ContractsHeld float64 `db:"contracts_held"`
	AvgCost       float64 `db:"avg_cost"`
	CurrentPrice  float64 `db:"current_price"`
	UnrealizedPL  float64 `db:"unrealized_pl"`
}

type PerformanceSnapshot struct {
	Date       string  `db:"date"` // YYYY-MM-DD, one row per day
	TotalValue float64 `db:"total_value"`
}

type ActivityEntry struct {
	ID        int64     `db:"id"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

// PortfolioTotals is computed from current rows, never persisted.
type PortfolioTotals struct {
	TotalValue         float64
	EquityValue        float64
	OptionValue        float64
	BuyingPower        float64
	BuyingPowerPercent float64
}

const ContractMultiplier = 100.0
