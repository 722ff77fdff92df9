package compound

import (
	"fmt"

	"lending/core"
	"lending/pkg/number"

	"github.com/shopspring/decimal"
)

var (
	// MaxPricision max pricision
	MaxPricision int32 = 16
	// MaxIndex interest indices must stay below this value; it bounds the
	// decimal(32,16) columns the indices are persisted in
	MaxIndex = decimal.New(1, 15)
)

// AccrueInterest bring the market current to block
//
// Interest accrues with the rates set at the previous touch:
//   borrow_index *= 1 + borrow_rate * elapsed
//   supply_index *= 1 + supply_rate * elapsed
// total borrowed and total supplied grow by the same factors and the reserve
// factor share of the new interest is added to the reserves. Accruing twice at
// the same block changes nothing.
func AccrueInterest(market *core.Market, params *core.Parameters, block int64) error {
	if !market.BorrowIndex.IsPositive() {
		market.BorrowIndex = one
	}

	if !market.SupplyIndex.IsPositive() {
		market.SupplyIndex = one
	}

	blockDelta := block - market.BlockNumber
	if blockDelta <= 0 {
		return nil
	}

	elapsed := decimal.NewFromInt(blockDelta)
	timesBorrowRate := market.BorrowRate.Mul(elapsed)
	timesSupplyRate := market.SupplyRate.Mul(elapsed)

	borrowIndexNew := number.Ceil(market.BorrowIndex.Add(timesBorrowRate.Mul(market.BorrowIndex)), MaxPricision)
	supplyIndexNew := market.SupplyIndex.Add(timesSupplyRate.Mul(market.SupplyIndex)).
		Truncate(MaxPricision)
	if borrowIndexNew.GreaterThanOrEqual(MaxIndex) || supplyIndexNew.GreaterThanOrEqual(MaxIndex) {
		return fmt.Errorf("market %s index overflow after %d blocks: %w", market.AssetID, blockDelta, core.ErrInvalidAmount)
	}

	interestAccumulated := market.TotalBorrowed.Mul(timesBorrowRate).Truncate(MaxPricision)
	supplyInterest := market.TotalSupplied.Mul(timesSupplyRate).Truncate(MaxPricision)

	market.TotalBorrowed = market.TotalBorrowed.Add(interestAccumulated)
	market.TotalSupplied = market.TotalSupplied.Add(supplyInterest)
	market.Reserves = market.Reserves.Add(interestAccumulated.Mul(params.ReserveFactor.Decimal()).Truncate(MaxPricision))
	market.BorrowIndex = borrowIndexNew
	market.SupplyIndex = supplyIndexNew
	market.BlockNumber = block

	return nil
}

// RefreshRates set the rates applied from now on, after accrual or any change
// of the market totals
func RefreshRates(market *core.Market, params *core.Parameters) {
	if market.TotalBorrowed.IsNegative() {
		market.TotalBorrowed = decimal.Zero
	}

	if market.TotalSupplied.IsNegative() {
		market.TotalSupplied = decimal.Zero
	}

	uRate := UtilizationRate(market.TotalSupplied, market.TotalBorrowed)
	market.UtilizationRate = uRate
	market.BorrowRate = GetBorrowRatePerBlock(uRate, params)
	market.SupplyRate = GetSupplyRatePerBlock(uRate, params)
}

// CurBorrowRate current borrow APY
func CurBorrowRate(market *core.Market, params *core.Parameters) decimal.Decimal {
	return YearlyRate(market.BorrowRate, params)
}

// CurSupplyRate current supply APY
func CurSupplyRate(market *core.Market, params *core.Parameters) decimal.Decimal {
	return YearlyRate(market.SupplyRate, params)
}
