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

// Withdraw take amount out of the user's balance of assetID. The pool must hold
// the cash and the account must stay within its borrow limit.
func (s *service) Withdraw(ctx context.Context, userID, assetID string, amount decimal.Decimal) (tx *core.Transaction, err error) {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"action":   "withdraw",
		"user_id":  userID,
		"asset_id": assetID,
		"amount":   amount,
	})
	defer func() { metric.ObserveAction(core.ActionTypeWithdraw, err) }()

	params, block, err := s.prepare(ctx)
	if err != nil {
		return nil, err
	}

	if err := requirePositive(amount); err != nil {
		return nil, err
	}

	err = s.ledger.Update(ctx, func(l core.Ledger) error {
		st := s.newState(ctx, l, params, block)

		market, err := st.market(assetID)
		if err != nil {
			return err
		}

		collateral, err := l.FindCollateral(ctx, userID, assetID)
		if err != nil {
			return err
		}

		balance := compound.SupplyBalance(collateral, market)
		if collateral.ID == 0 || balance.LessThan(amount) {
			return fmt.Errorf("balance %s less than %s: %w", balance, amount, core.ErrInvalidAmount)
		}

		if !compound.WithdrawAllowed(amount, market) {
			return fmt.Errorf("pool cash %s less than %s: %w", market.Cash(), amount, core.ErrInsufficientFunds)
		}

		balance = balance.Sub(amount)
		if balance.IsZero() {
			err = l.DeleteCollateral(ctx, collateral)
		} else {
			compound.UpdateCollateral(collateral, market, balance)
			err = l.SaveCollateral(ctx, collateral)
		}
		if err != nil {
			return err
		}

		market.TotalSupplied = market.TotalSupplied.Sub(amount)

		borrows, err := l.ListBorrows(ctx, userID)
		if err != nil {
			return err
		}

		if len(borrows) > 0 {
			if _, err := st.requireHealthy(userID); err != nil {
				return err
			}
		}

		if err := st.commit(); err != nil {
			return err
		}

		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyBalance, balance)
		tx, err = st.record(core.ActionTypeWithdraw, userID, assetID, amount, extra)
		return err
	})
	if err != nil {
		log.WithError(err).Infoln("withdraw rejected")
		return nil, err
	}

	log.Infoln("withdrawn")
	return tx, nil
}
