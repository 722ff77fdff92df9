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

// Supply add amount to the user's balance of assetID. The balance earns the
// supply rate and counts as collateral when the asset is collateral enabled.
func (s *service) Supply(ctx context.Context, userID, assetID string, amount decimal.Decimal) (tx *core.Transaction, err error) {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"action":   "supply",
		"user_id":  userID,
		"asset_id": assetID,
		"amount":   amount,
	})
	defer func() { metric.ObserveAction(core.ActionTypeSupply, err) }()

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

		if !asset.Supplyable() {
			return fmt.Errorf("asset %s is disabled: %w", assetID, core.ErrInvalidAsset)
		}

		market, err := st.market(assetID)
		if err != nil {
			return err
		}

		collateral, err := l.FindCollateral(ctx, userID, assetID)
		if err != nil {
			return err
		}

		balance := compound.SupplyBalance(collateral, market).Add(amount)
		compound.UpdateCollateral(collateral, market, balance)
		if err := l.SaveCollateral(ctx, collateral); err != nil {
			return err
		}

		market.TotalSupplied = market.TotalSupplied.Add(amount)
		if err := st.commit(); err != nil {
			return err
		}

		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyBalance, balance)
		tx, err = st.record(core.ActionTypeSupply, userID, assetID, amount, extra)
		return err
	})
	if err != nil {
		log.WithError(err).Infoln("supply rejected")
		return nil, err
	}

	log.Infoln("supplied")
	return tx, nil
}
