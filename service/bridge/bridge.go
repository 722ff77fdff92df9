package bridge

import (
	"context"
	"fmt"
	"strings"

	"lending/core"
	"lending/pkg/compound"
	"lending/pkg/id"
	"lending/pkg/metric"

	"github.com/asaskevich/govalidator"
	"github.com/btcsuite/btcutil"
	"github.com/fox-one/pkg/logger"
	foxuuid "github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type service struct {
	ledger core.LedgerStore
	params core.ParameterStore
	blocks core.BlockService
	config core.Bridge
}

// New new btc collateral bridge
func New(
	ledger core.LedgerStore,
	params core.ParameterStore,
	blocks core.BlockService,
	cfg *core.Config,
) core.BridgeService {
	return &service{
		ledger: ledger,
		params: params,
		blocks: blocks,
		config: cfg.Bridge,
	}
}

// normalizeTxID lower case 32 byte hex hash
func normalizeTxID(txID string) (string, error) {
	txID = strings.ToLower(strings.TrimSpace(txID))
	if len(txID) != 64 || !govalidator.IsHexadecimal(txID) {
		return "", fmt.Errorf("bad bitcoin tx id %q: %w", txID, core.ErrInvalidAssetState)
	}

	return txID, nil
}

func (s *service) isAttester(userID string) bool {
	return userID != "" && govalidator.IsIn(userID, s.config.Attesters...)
}

func (s *service) threshold() int {
	if s.config.Threshold <= 0 {
		return 1
	}

	return s.config.Threshold
}

func (s *service) checkPaused(ctx context.Context) (*core.Parameters, error) {
	params, err := s.params.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if params.Paused {
		return nil, core.ErrProtocolPaused
	}

	return params, nil
}

// traceID one audit record per deposit and step
func traceID(txID, step string) string {
	return foxuuid.Modify(id.TraceIDFrom(txID), step)
}

func record(ctx context.Context, l core.Ledger, action core.ActionType, deposit *core.BtcDeposit, step string, block int64) error {
	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyTxID, deposit.TxID)
	extra.Put(core.TransactionKeyBlock, block)

	tx := &core.Transaction{
		Action:      action,
		TraceID:     traceID(deposit.TxID, step),
		UserID:      deposit.UserID,
		AssetID:     "",
		Amount:      deposit.Amount,
		BlockNumber: block,
	}
	tx.SetExtraData(extra)
	return l.CreateTransaction(ctx, tx)
}

// Submit track a bitcoin deposit reported by userID, nothing is credited yet
func (s *service) Submit(ctx context.Context, userID, txID string, satoshis int64) (deposit *core.BtcDeposit, err error) {
	defer func() { metric.ObserveAction(core.ActionTypeBtcSubmit, err) }()

	if _, err := s.checkPaused(ctx); err != nil {
		return nil, err
	}

	if txID, err = normalizeTxID(txID); err != nil {
		return nil, err
	}

	if satoshis <= 0 || satoshis > btcutil.MaxSatoshi {
		return nil, fmt.Errorf("satoshis %d: %w", satoshis, core.ErrInvalidAmount)
	}

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return nil, err
	}

	err = s.ledger.Update(ctx, func(l core.Ledger) error {
		existing, err := l.FindBtcDeposit(ctx, txID)
		if err != nil {
			return err
		}

		if existing.ID > 0 {
			return fmt.Errorf("btc deposit %s already %s: %w", txID, existing.Status, core.ErrInvalidAssetState)
		}

		deposit = &core.BtcDeposit{
			TxID:           txID,
			UserID:         userID,
			Satoshis:       satoshis,
			Amount:         decimal.New(satoshis, -8),
			Status:         core.DepositStatusSubmitted,
			SubmittedBlock: block,
		}
		if err := l.SaveBtcDeposit(ctx, deposit); err != nil {
			return err
		}

		return record(ctx, l, core.ActionTypeBtcSubmit, deposit, "submit", block)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"tx_id":   txID,
		"user_id": userID,
		"amount":  btcutil.Amount(satoshis).String(),
	}).Infoln("btc deposit submitted")
	return deposit, nil
}

// Confirm attester reports confirmations of the deposit, it becomes
// Confirmed once enough distinct attesters agree
func (s *service) Confirm(ctx context.Context, attester, txID string, confirmations int64) (deposit *core.BtcDeposit, err error) {
	defer func() { metric.ObserveAction(core.ActionTypeBtcConfirm, err) }()

	if !s.isAttester(attester) {
		return nil, core.ErrUnauthorized
	}

	if txID, err = normalizeTxID(txID); err != nil {
		return nil, err
	}

	if confirmations < s.config.MinConfirmations {
		return nil, fmt.Errorf("%d of %d confirmations: %w", confirmations, s.config.MinConfirmations, core.ErrInvalidAssetState)
	}

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return nil, err
	}

	err = s.ledger.Update(ctx, func(l core.Ledger) error {
		deposit, err = l.FindBtcDeposit(ctx, txID)
		if err != nil {
			return err
		}

		if deposit.ID == 0 || deposit.Status != core.DepositStatusSubmitted {
			return fmt.Errorf("btc deposit %s is %s: %w", txID, deposit.Status, core.ErrInvalidAssetState)
		}

		if govalidator.IsIn(attester, deposit.Attesters...) {
			return fmt.Errorf("btc deposit %s already attested by %s: %w", txID, attester, core.ErrInvalidAssetState)
		}

		deposit.Attesters = append(deposit.Attesters, attester)
		if confirmations > deposit.Confirmations {
			deposit.Confirmations = confirmations
		}

		if len(deposit.Attesters) >= s.threshold() {
			deposit.Status = core.DepositStatusConfirmed
			deposit.ConfirmedBlock = block
		}

		if err := l.SaveBtcDeposit(ctx, deposit); err != nil {
			return err
		}

		return record(ctx, l, core.ActionTypeBtcConfirm, deposit, "confirm:"+attester, block)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"tx_id":    txID,
		"attester": attester,
		"status":   deposit.Status.String(),
	}).Infoln("btc deposit attested")
	return deposit, nil
}

// Reject attester marks the deposit invalid, only before it is credited
func (s *service) Reject(ctx context.Context, attester, txID, reason string) (deposit *core.BtcDeposit, err error) {
	defer func() { metric.ObserveAction(core.ActionTypeBtcReject, err) }()

	if !s.isAttester(attester) {
		return nil, core.ErrUnauthorized
	}

	if txID, err = normalizeTxID(txID); err != nil {
		return nil, err
	}

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return nil, err
	}

	err = s.ledger.Update(ctx, func(l core.Ledger) error {
		deposit, err = l.FindBtcDeposit(ctx, txID)
		if err != nil {
			return err
		}

		if deposit.ID == 0 || !deposit.Status.CanTransit(core.DepositStatusRejected) {
			return fmt.Errorf("btc deposit %s is %s: %w", txID, deposit.Status, core.ErrInvalidAssetState)
		}

		deposit.Status = core.DepositStatusRejected
		deposit.RejectReason = reason
		deposit.SettledBlock = block
		if err := l.SaveBtcDeposit(ctx, deposit); err != nil {
			return err
		}

		return record(ctx, l, core.ActionTypeBtcReject, deposit, "reject", block)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"tx_id":    txID,
		"attester": attester,
		"reason":   reason,
	}).Infoln("btc deposit rejected")
	return deposit, nil
}

// Credit add a confirmed deposit to the user's collateral of the synthetic
// btc asset, exactly once per bitcoin tx id
func (s *service) Credit(ctx context.Context, txID string) (deposit *core.BtcDeposit, err error) {
	defer func() { metric.ObserveAction(core.ActionTypeBtcCredit, err) }()

	params, err := s.checkPaused(ctx)
	if err != nil {
		return nil, err
	}

	if txID, err = normalizeTxID(txID); err != nil {
		return nil, err
	}

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return nil, err
	}

	err = s.ledger.Update(ctx, func(l core.Ledger) error {
		deposit, err = l.FindBtcDeposit(ctx, txID)
		if err != nil {
			return err
		}

		if deposit.ID == 0 || !deposit.Status.CanTransit(core.DepositStatusCredited) {
			return fmt.Errorf("btc deposit %s is %s: %w", txID, deposit.Status, core.ErrInvalidAssetState)
		}

		asset, err := l.FindAsset(ctx, s.config.AssetID)
		if err != nil {
			return err
		}

		if !asset.CollateralEnabled {
			return fmt.Errorf("asset %s is not collateral: %w", asset.AssetID, core.ErrInvalidAsset)
		}

		market, err := l.FindMarket(ctx, asset.AssetID)
		if err != nil {
			return err
		}

		if err := compound.AccrueInterest(market, params, block); err != nil {
			return err
		}

		collateral, err := l.FindCollateral(ctx, deposit.UserID, asset.AssetID)
		if err != nil {
			return err
		}

		balance := compound.SupplyBalance(collateral, market).Add(deposit.Amount)
		compound.UpdateCollateral(collateral, market, balance)
		if err := l.SaveCollateral(ctx, collateral); err != nil {
			return err
		}

		market.TotalSupplied = market.TotalSupplied.Add(deposit.Amount)
		compound.RefreshRates(market, params)
		if err := l.SaveMarket(ctx, market); err != nil {
			return err
		}

		deposit.Status = core.DepositStatusCredited
		deposit.SettledBlock = block
		if err := l.SaveBtcDeposit(ctx, deposit); err != nil {
			return err
		}

		return record(ctx, l, core.ActionTypeBtcCredit, deposit, "credit", block)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"tx_id":   txID,
		"user_id": deposit.UserID,
		"amount":  deposit.Amount,
	}).Infoln("btc deposit credited")
	return deposit, nil
}

// Find btc deposit by tx id, ID == 0 if none
func (s *service) Find(ctx context.Context, txID string) (*core.BtcDeposit, error) {
	txID, err := normalizeTxID(txID)
	if err != nil {
		return nil, err
	}

	var deposit *core.BtcDeposit
	err = s.ledger.View(ctx, func(l core.Ledger) error {
		deposit, err = l.FindBtcDeposit(ctx, txID)
		return err
	})

	return deposit, err
}
