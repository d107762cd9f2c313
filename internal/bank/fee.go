package bank

import "github.com/shopspring/decimal"

var (
	// MinFee is the floor charged on every transfer.
	MinFee = decimal.RequireFromString("5.00")
	// FeeRate is the proportional fee applied above the floor.
	FeeRate = decimal.RequireFromString("0.025")

	// SeedBalance is credited to every account at registration.
	SeedBalance = decimal.RequireFromString("10000.00")
)

// Fee returns max(MinFee, amount * FeeRate) in exact decimal arithmetic.
func Fee(amount decimal.Decimal) decimal.Decimal {
	fee := amount.Mul(FeeRate)
	if fee.LessThan(MinFee) {
		return MinFee
	}
	return fee
}
