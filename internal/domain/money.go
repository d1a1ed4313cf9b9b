package domain

import "github.com/shopspring/decimal"

// moneyScale matches the NUMERIC(12,2) money columns
const moneyScale = 2

// RoundMoney rounds an amount to kopecks, half away from zero
func RoundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(moneyScale).InexactFloat64()
}

// LineTotal is quantity × unitPrice computed exactly on the kopeck-rounded price,
// so the stored total always equals the stored price times the quantity.
func LineTotal(quantity int, unitPrice float64) float64 {
	price := decimal.NewFromFloat(unitPrice).Round(moneyScale)
	return price.Mul(decimal.NewFromInt(int64(quantity))).InexactFloat64()
}
