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

// Repay pay back the user's debt in assetID. Anything above the owed amount
// is not taken and comes back as Refund.
func (s *service) Repay(ctx context.Context, userID, assetID string, amount decimal.Decimal) (result *core.RepayResult, err error) {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"action":   "repay",
		"user_id":  userID,
		"asset_id": assetID,
		"amount":   amount,
	})
	defer func() { metric.ObserveAction(core.ActionTypeRepay, err) }()

	params, block, err := s.prepare(ctx)
	if err != nil {
		return nil, err
	}

	if err := requirePositive(amount); err != nil {
		return nil, err
	}

	err = s.ledger.Update(ctx, func(l core.Ledger) error {
		st := s.newState(ctx, l, params, block)

		borrow, err := l.FindBorrow(ctx, userID, assetID)
		if err != nil {
			return err
		}

		if borrow.ID == 0 {
			return fmt.Errorf("no %s borrow of %s: %w", assetID, userID, core.ErrPositionNotFound)
		}

		market, err := st.market(assetID)
		if err != nil {
			return err
		}

		owed := compound.BorrowBalance(borrow, market)
		repaid, remaining, err := st.repay(borrow, market, owed, amount)
		if err != nil {
			return err
		}

		if err := st.commit(); err != nil {
			return err
		}

		result = &core.RepayResult{
			Repaid:    repaid,
			Refund:    amount.Sub(repaid),
			Remaining: remaining,
		}

		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyRefund, result.Refund)
		extra.Put(core.TransactionKeyBalance, remaining)
		result.Transaction, err = st.record(core.ActionTypeRepay, userID, assetID, repaid, extra)
		return err
	})
	if err != nil {
		log.WithError(err).Infoln("repay rejected")
		return nil, err
	}

	log.WithField("repaid", result.Repaid).Infoln("repaid")
	return result, nil
}

// repay reduce the borrow by min(amount, owed), the position is removed
// once nothing is owed
func (st *state) repay(borrow *core.Borrow, market *core.Market, owed, amount decimal.Decimal) (repaid, remaining decimal.Decimal, err error) {
	repaid = decimal.Min(amount, owed)
	remaining = owed.Sub(repaid)

	if remaining.IsPositive() {
		compound.UpdateBorrow(borrow, market, remaining)
		err = st.ledger.SaveBorrow(st.ctx, borrow)
	} else {
		err = st.ledger.DeleteBorrow(st.ctx, borrow)
	}
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	market.TotalBorrowed = market.TotalBorrowed.Sub(repaid)
	if market.TotalBorrowed.IsNegative() {
		market.TotalBorrowed = decimal.Zero
	}

	return repaid, remaining, nil
}
