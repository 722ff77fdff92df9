package compound

import (
	"lending/core"

	"github.com/shopspring/decimal"
)

// SeizeCandidate collateral the liquidation may take, in seize order
type SeizeCandidate struct {
	AssetID string
	Balance decimal.Decimal
	Price   decimal.Decimal
}

// SeizePlan collateral taken and the debt credited for it
type SeizePlan struct {
	// debt credited to the borrower
	RepayCredit decimal.Decimal
	SeizeValue  decimal.Decimal
	Seized      []*core.Seizure
	Shortfall   bool
}

// MaxRepay largest repay one liquidation accepts, owed * close_factor
func MaxRepay(owed decimal.Decimal, closeFactor core.Permille) decimal.Decimal {
	if closeFactor <= 0 || closeFactor >= core.PermilleOne {
		return owed
	}

	return owed.Mul(closeFactor.Decimal()).Truncate(MaxPricision)
}

// PlanSeize split the seize value over the candidates
//
// seize_value = repay * borrow_price * liquidation_incentive
//
// When the candidates can not cover seize_value the policy decides: cap seizes
// everything available and credits repay * available / seize_value, reject
// fails with ErrInsufficientCollateral.
func PlanSeize(repay, borrowPrice decimal.Decimal, candidates []*SeizeCandidate, params *core.Parameters) (*SeizePlan, error) {
	incentive := params.LiquidationIncentive.Decimal()
	seizeValue := repay.Mul(borrowPrice).Mul(incentive).Truncate(MaxPricision)
	plan := &SeizePlan{
		RepayCredit: repay,
		SeizeValue:  seizeValue,
	}

	available := decimal.Zero
	for _, c := range candidates {
		if c.Balance.IsPositive() && c.Price.IsPositive() {
			available = available.Add(c.Balance.Mul(c.Price))
		}
	}

	if available.LessThan(seizeValue) {
		if params.ShortfallPolicy == core.ShortfallReject {
			return nil, core.ErrInsufficientCollateral
		}

		plan.Shortfall = true
		plan.RepayCredit = repay.Mul(available).Div(seizeValue).Truncate(MaxPricision)
	}

	// share of every seized amount that is bonus, (incentive - 1) / incentive
	bonusShare := decimal.Zero
	if incentive.GreaterThan(one) {
		bonusShare = incentive.Sub(one).Div(incentive)
	}

	remaining := seizeValue
	for _, c := range candidates {
		if !remaining.IsPositive() {
			break
		}

		if !c.Balance.IsPositive() || !c.Price.IsPositive() {
			continue
		}

		amount := remaining.Div(c.Price).Truncate(MaxPricision)
		if plan.Shortfall || amount.GreaterThan(c.Balance) {
			amount = c.Balance
		}

		if !amount.IsPositive() {
			continue
		}

		fee := amount.Mul(bonusShare).Mul(params.ProtocolFee.Decimal()).Truncate(MaxPricision)
		plan.Seized = append(plan.Seized, &core.Seizure{
			AssetID: c.AssetID,
			Amount:  amount,
			Fee:     fee,
		})
		remaining = remaining.Sub(amount.Mul(c.Price))
	}

	return plan, nil
}
