package tools

import "github.com/shopspring/decimal"

// FormatStrike renders a strike the way chain documents key it: a fixed
// 2-decimal string ("150.00"), computed via decimal so 149.999999 style
// float noise can't produce a key that misses the snapshot.
func FormatStrike(strike float64) string {
	return decimal.NewFromFloat(strike).Round(2).StringFixed(2)
}
