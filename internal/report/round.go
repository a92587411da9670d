package report

import "github.com/shopspring/decimal"

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// percent returns part/whole*100 rounded to places, or 0 when whole is 0.
func percent(part, whole float64, places int32) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromFloat(part).
		Div(decimal.NewFromFloat(whole)).
		Mul(decimal.NewFromInt(100)).
		Round(places).
		InexactFloat64()
}

// RoundAmount rounds a fee amount to the nearest whole rupee for display.
// Halves round up, so -1500.5 becomes -1500.
func RoundAmount(v float64) int64 {
	return decimal.NewFromFloat(v).Add(decimal.NewFromFloat(0.5)).Floor().IntPart()
}
