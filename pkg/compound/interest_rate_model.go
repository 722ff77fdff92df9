package compound

import (
	"lending/core"

	"github.com/shopspring/decimal"
)

var (
	one = decimal.New(1, 0)
)

// UtilizationRate utilization rate
// utilization_rate = market.total_borrowed / market.total_supplied
func UtilizationRate(supplied, borrowed decimal.Decimal) decimal.Decimal {
	if !supplied.IsPositive() || !borrowed.IsPositive() {
		return decimal.Zero
	}

	return borrowed.Div(supplied).Truncate(MaxPricision)
}

// GetBorrowRate yearly borrow rate
//
// two-slope:
//   u <= optimal: base + u / optimal * multiplier
//   u > optimal:  base + multiplier + (u - optimal) / (1 - optimal) * jump_multiplier
// linear:
//   base + u * multiplier
func GetBorrowRate(utilizationRate decimal.Decimal, params *core.Parameters) decimal.Decimal {
	base := params.BaseRate.Decimal()
	multiplier := params.RateMultiplier.Decimal()

	if params.RateModel == core.RateModelLinear {
		return base.Add(utilizationRate.Mul(multiplier)).Truncate(MaxPricision)
	}

	optimal := params.OptimalUtilization.Decimal()
	if utilizationRate.LessThanOrEqual(optimal) {
		if !optimal.IsPositive() {
			return base
		}

		return base.Add(utilizationRate.Div(optimal).Mul(multiplier)).Truncate(MaxPricision)
	}

	normalRate := base.Add(multiplier)
	excessRange := one.Sub(optimal)
	if !excessRange.IsPositive() {
		return normalRate
	}

	excessUtilRate := utilizationRate.Sub(optimal).Div(excessRange)
	return normalRate.Add(excessUtilRate.Mul(params.JumpMultiplier.Decimal())).Truncate(MaxPricision)
}

// GetSupplyRate yearly supply rate
// supply_rate = borrow_rate * u * (1 - reserve_factor)
func GetSupplyRate(utilizationRate decimal.Decimal, params *core.Parameters) decimal.Decimal {
	borrowRate := GetBorrowRate(utilizationRate, params)
	rateToPool := borrowRate.Mul(one.Sub(params.ReserveFactor.Decimal()))
	return utilizationRate.Mul(rateToPool).Truncate(MaxPricision)
}

// GetBorrowRatePerBlock borrow rate per block
func GetBorrowRatePerBlock(utilizationRate decimal.Decimal, params *core.Parameters) decimal.Decimal {
	return perBlock(GetBorrowRate(utilizationRate, params), params)
}

// GetSupplyRatePerBlock supply rate per block
func GetSupplyRatePerBlock(utilizationRate decimal.Decimal, params *core.Parameters) decimal.Decimal {
	return perBlock(GetSupplyRate(utilizationRate, params), params)
}

// YearlyRate per block rate to APY (simple)
func YearlyRate(ratePerBlock decimal.Decimal, params *core.Parameters) decimal.Decimal {
	return ratePerBlock.Mul(decimal.NewFromInt(params.BlocksPerYear)).Truncate(MaxPricision)
}

func perBlock(rate decimal.Decimal, params *core.Parameters) decimal.Decimal {
	if params.BlocksPerYear <= 0 {
		return decimal.Zero
	}

	return rate.Div(decimal.NewFromInt(params.BlocksPerYear)).Truncate(MaxPricision)
}
