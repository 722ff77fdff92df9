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

// Borrow lend amount of assetID to the user against the collateral
func (s *service) Borrow(ctx context.Context, userID, assetID string, amount decimal.Decimal) (tx *core.Transaction, err error) {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"action":   "borrow",
		"user_id":  userID,
		"asset_id": assetID,
		"amount":   amount,
	})
	defer func() { metric.ObserveAction(core.ActionTypeBorrow, err) }()

	params, block, err := s.prepare(ctx)
	if err != nil {
		return nil, err
	}

	if err := requirePositive(amount); err != nil {
		return nil, err
	}

	err = s.ledger.Update(ctx, func(l core.Ledger) error {
		st := s.newState(ctx, l, params, block)

		asset, err := st.asset(assetID)
		if err != nil {
			return err
		}

		if !asset.BorrowEnabled {
			return fmt.Errorf("asset %s is not borrowable: %w", assetID, core.ErrInvalidAsset)
		}

		market, err := st.market(assetID)
		if err != nil {
			return err
		}

		if market.Cash().LessThan(amount) {
			return fmt.Errorf("pool cash %s less than %s: %w", market.Cash(), amount, core.ErrInsufficientFunds)
		}

		if asset.BorrowCap.IsPositive() && market.TotalBorrowed.Add(amount).GreaterThan(asset.BorrowCap) {
			return fmt.Errorf("borrow cap %s of %s: %w", asset.BorrowCap, assetID, core.ErrBorrowLimitReached)
		}

		borrow, err := l.FindBorrow(ctx, userID, assetID)
		if err != nil {
			return err
		}

		if borrow.ID == 0 && params.MaxBorrowPositions > 0 {
			borrows, err := l.ListBorrows(ctx, userID)
			if err != nil {
				return err
			}

			if len(borrows) >= params.MaxBorrowPositions {
				return fmt.Errorf("%d borrow positions open: %w", len(borrows), core.ErrBorrowLimitReached)
			}
		}

		owed := compound.BorrowBalance(borrow, market).Add(amount)
		compound.UpdateBorrow(borrow, market, owed)
		if err := l.SaveBorrow(ctx, borrow); err != nil {
			return err
		}

		market.TotalBorrowed = market.TotalBorrowed.Add(amount)

		account, err := st.requireHealthy(userID)
		if err != nil {
			return err
		}

		if account.CollateralValue.LessThan(params.MinimumCollateralValue) {
			return fmt.Errorf("collateral %s below minimum %s: %w", account.CollateralValue, params.MinimumCollateralValue, core.ErrInsufficientCollateral)
		}

		if err := st.commit(); err != nil {
			return err
		}

		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyBalance, owed)
		tx, err = st.record(core.ActionTypeBorrow, userID, assetID, amount, extra)
		return err
	})
	if err != nil {
		log.WithError(err).Infoln("borrow rejected")
		return nil, err
	}

	log.Infoln("borrowed")
	return tx, nil
}
