package lending

import (
	"context"
	"fmt"

	"lending/core"
	"lending/pkg/compound"
	"lending/pkg/metric"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Liquidate repay part of an unhealthy borrow and seize the borrower's
// collateral at the liquidation incentive. Seized collateral, less the
// protocol fee, is credited to the liquidator's balance in the same asset.
func (s *service) Liquidate(ctx context.Context, req *core.LiquidateRequest) (result *core.LiquidationResult, err error) {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"action":     "liquidate",
		"liquidator": req.Liquidator,
		"borrower":   req.Borrower,
		"asset_id":   req.BorrowAssetID,
		"amount":     req.RepayAmount,
	})
	defer func() { metric.ObserveAction(core.ActionTypeLiquidate, err) }()

	params, block, err := s.prepare(ctx)
	if err != nil {
		return nil, err
	}

	if err := requirePositive(req.RepayAmount); err != nil {
		return nil, err
	}

	if req.Liquidator == req.Borrower {
		return nil, fmt.Errorf("self liquidation: %w", core.ErrUnauthorized)
	}

	err = s.ledger.Update(ctx, func(l core.Ledger) error {
		st := s.newState(ctx, l, params, block)

		borrow, err := l.FindBorrow(ctx, req.Borrower, req.BorrowAssetID)
		if err != nil {
			return err
		}

		if borrow.ID == 0 {
			return fmt.Errorf("no %s borrow of %s: %w", req.BorrowAssetID, req.Borrower, core.ErrPositionNotFound)
		}

		account, err := st.account(req.Borrower)
		if err != nil {
			return err
		}

		if !account.Liquidatable {
			return fmt.Errorf("collateral %s, borrowed %s: %w", account.CollateralValue, account.BorrowValue, core.ErrNotLiquidatable)
		}

		borrowAsset, err := st.asset(req.BorrowAssetID)
		if err != nil {
			return err
		}

		borrowPrice, err := st.price(borrowAsset)
		if err != nil {
			return err
		}

		borrowMarket, err := st.market(req.BorrowAssetID)
		if err != nil {
			return err
		}

		owed := compound.BorrowBalance(borrow, borrowMarket)
		repay := decimal.Min(req.RepayAmount, compound.MaxRepay(owed, params.CloseFactor))

		candidates, err := st.seizeCandidates(req.Borrower, req.SeizeAssetID)
		if err != nil {
			return err
		}

		plan, err := compound.PlanSeize(repay, borrowPrice, candidates, params)
		if err != nil {
			return err
		}

		if !plan.RepayCredit.IsPositive() || len(plan.Seized) == 0 {
			return fmt.Errorf("nothing to seize: %w", core.ErrInsufficientCollateral)
		}

		repaid, _, err := st.repay(borrow, borrowMarket, owed, plan.RepayCredit)
		if err != nil {
			return err
		}

		for _, seizure := range plan.Seized {
			if err := st.seize(req.Borrower, req.Liquidator, seizure); err != nil {
				return err
			}
		}

		if err := st.commit(); err != nil {
			return err
		}

		result = &core.LiquidationResult{
			Repaid:    repaid,
			Refund:    req.RepayAmount.Sub(repaid),
			Seized:    plan.Seized,
			Shortfall: plan.Shortfall,
		}

		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyBorrower, req.Borrower)
		extra.Put(core.TransactionKeyPrice, borrowPrice)
		extra.Put(core.TransactionKeyRepayAmount, req.RepayAmount)
		extra.Put(core.TransactionKeyRefund, result.Refund)
		extra.Put(core.TransactionKeySeized, plan.Seized)
		result.Transaction, err = st.record(core.ActionTypeLiquidate, req.Liquidator, req.BorrowAssetID, repaid, extra)
		return err
	})
	if err != nil {
		log.WithError(err).Infoln("liquidation rejected")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"repaid":    result.Repaid,
		"shortfall": result.Shortfall,
	}).Infoln("liquidated")
	return result, nil
}

// seizeCandidates collateral of the borrower in seize order: the requested
// asset first, then every other collateral enabled asset by asset id
func (st *state) seizeCandidates(borrower, preferred string) ([]*compound.SeizeCandidate, error) {
	collaterals, err := st.ledger.ListCollaterals(st.ctx, borrower)
	if err != nil {
		return nil, err
	}

	var first, rest []*compound.SeizeCandidate
	for _, c := range collaterals {
		asset, err := st.asset(c.AssetID)
		if err != nil {
			return nil, err
		}

		if !asset.CollateralEnabled {
			continue
		}

		market, err := st.market(c.AssetID)
		if err != nil {
			return nil, err
		}

		price, err := st.price(asset)
		if err != nil {
			return nil, err
		}

		candidate := &compound.SeizeCandidate{
			AssetID: c.AssetID,
			Balance: compound.SupplyBalance(c, market),
			Price:   price,
		}

		if c.AssetID == preferred {
			first = append(first, candidate)
		} else {
			rest = append(rest, candidate)
		}
	}

	return append(first, rest...), nil
}

// seize move seizure.Amount of collateral from borrower to liquidator, the
// fee stays in the market as reserves
func (st *state) seize(borrower, liquidator string, seizure *core.Seizure) error {
	market, err := st.market(seizure.AssetID)
	if err != nil {
		return err
	}

	from, err := st.ledger.FindCollateral(st.ctx, borrower, seizure.AssetID)
	if err != nil {
		return err
	}

	left := compound.SupplyBalance(from, market).Sub(seizure.Amount)
	if left.IsNegative() {
		return fmt.Errorf("seize %s of %s: %w", seizure.Amount, seizure.AssetID, core.ErrInsufficientCollateral)
	}

	if left.IsZero() {
		err = st.ledger.DeleteCollateral(st.ctx, from)
	} else {
		compound.UpdateCollateral(from, market, left)
		err = st.ledger.SaveCollateral(st.ctx, from)
	}
	if err != nil {
		return err
	}

	to, err := st.ledger.FindCollateral(st.ctx, liquidator, seizure.AssetID)
	if err != nil {
		return err
	}

	credited := compound.SupplyBalance(to, market).Add(seizure.Amount.Sub(seizure.Fee))
	compound.UpdateCollateral(to, market, credited)
	if err := st.ledger.SaveCollateral(st.ctx, to); err != nil {
		return err
	}

	market.TotalSupplied = market.TotalSupplied.Sub(seizure.Fee)
	market.Reserves = market.Reserves.Add(seizure.Fee)
	return nil
}
