package compound

import (
	"lending/core"
	"lending/pkg/number"

	"github.com/shopspring/decimal"
)

// CollateralValue risk weighted value of a collateral balance
// value = balance * price * collateral_factor
func CollateralValue(balance, price decimal.Decimal, collateralFactor core.Permille) decimal.Decimal {
	return balance.Mul(price).Mul(collateralFactor.Decimal()).Truncate(MaxPricision)
}

// BorrowValue value of a debt
func BorrowValue(owed, price decimal.Decimal) decimal.Decimal {
	return number.Ceil(owed.Mul(price), MaxPricision)
}

// HealthRatio collateral_value / borrow_value, ok is false when nothing is
// borrowed and the ratio is infinite
func HealthRatio(collateralValue, borrowValue decimal.Decimal) (ratio decimal.Decimal, ok bool) {
	if !borrowValue.IsPositive() {
		return decimal.Zero, false
	}

	return collateralValue.Div(borrowValue).Truncate(MaxPricision), true
}

// IsHealthy collateral_value * threshold >= borrow_value
func IsHealthy(collateralValue, borrowValue decimal.Decimal, threshold core.Permille) bool {
	if !borrowValue.IsPositive() {
		return true
	}

	return collateralValue.Mul(threshold.Decimal()).GreaterThanOrEqual(borrowValue)
}

// IsLiquidatable collateral_value * threshold < borrow_value
func IsLiquidatable(collateralValue, borrowValue decimal.Decimal, threshold core.Permille) bool {
	return !IsHealthy(collateralValue, borrowValue, threshold)
}
