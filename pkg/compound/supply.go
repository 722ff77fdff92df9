package compound

import (
	"lending/core"

	"github.com/shopspring/decimal"
)

// SupplyBalance current collateral balance
// balance = collateral.amount * market.supply_index / collateral.supply_index
func SupplyBalance(c *core.Collateral, market *core.Market) decimal.Decimal {
	if !market.SupplyIndex.IsPositive() {
		market.SupplyIndex = one
	}

	if !c.SupplyIndex.IsPositive() {
		c.SupplyIndex = market.SupplyIndex
	}

	if market.SupplyIndex.Equal(c.SupplyIndex) {
		return c.Amount
	}

	return c.Amount.Mul(market.SupplyIndex).Div(c.SupplyIndex).Truncate(MaxPricision)
}

// UpdateCollateral rebase the collateral on the current index with a new balance
func UpdateCollateral(c *core.Collateral, market *core.Market, balance decimal.Decimal) {
	c.Amount = balance
	c.SupplyIndex = market.SupplyIndex
	c.BlockNumber = market.BlockNumber
}

// WithdrawAllowed pool keeps enough cash for the withdrawal
func WithdrawAllowed(amount decimal.Decimal, market *core.Market) bool {
	return market.Cash().GreaterThanOrEqual(amount)
}
