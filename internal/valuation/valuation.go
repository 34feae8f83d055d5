package valuation

import (
	"errors"

	"github.com/efi-capital/portfolio-tracker/internal/model"
)

var ErrNegativeQuantity = errors.New("negative resulting quantity")

// WeightedAverageCost recomputes the cost basis as a quantity-weighted
// mean across the existing position and a new fill. Callers must not pass
// oldQty+deltaQty == 0 (the position closes instead of re-averaging).
func WeightedAverageCost(oldQty, oldAvg, deltaQty, deltaPrice float64) float64 {
	return (oldQty*oldAvg + deltaQty*deltaPrice) / (oldQty + deltaQty)
}

func UnrealizedPL(currentPrice, avgCost, qty, multiplier float64) float64 {
	return (currentPrice - avgCost) * qty * multiplier
}

// ApplyDelta validates a fill against the current position and returns the
// resulting quantity and average cost. closed reports a full close; no
// state is mutated here, so a rejected fill leaves nothing to roll back.
func ApplyDelta(oldQty, oldAvg, delta, price float64) (newQty, newAvg float64, closed bool, err error) {
	newQty = oldQty + delta
	if newQty < 0 {
		return 0, 0, false, ErrNegativeQuantity
	}
	if newQty == 0 {
		return 0, 0, true, nil
	}
	return newQty, WeightedAverageCost(oldQty, oldAvg, delta, price), false, nil
}

func Totals(equities []model.EquityPosition, options []model.OptionPosition, originalCapital float64) model.PortfolioTotals {
	var t model.PortfolioTotals

	var spentEquities, spentOptions float64
	for _, p := range equities {
		t.EquityValue += p.SharesHeld * p.CurrentPrice
		spentEquities += p.SharesHeld * p.AvgCost
	}
	for _, p := range options {
		t.OptionValue += p.ContractsHeld * model.ContractMultiplier * p.CurrentPrice
		spentOptions += p.ContractsHeld * model.ContractMultiplier * p.AvgCost
	}

	t.BuyingPower = originalCapital - spentEquities - spentOptions
	t.TotalValue = t.EquityValue + t.OptionValue + t.BuyingPower
	if t.TotalValue != 0 {
		t.BuyingPowerPercent = t.BuyingPower / t.TotalValue * 100
	}

	return t
}
