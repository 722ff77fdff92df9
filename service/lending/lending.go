package lending

import (
	"context"
	"fmt"

	"lending/core"
	"lending/pkg/compound"
	"lending/pkg/id"

	"github.com/shopspring/decimal"
)

type service struct {
	ledger core.LedgerStore
	params core.ParameterStore
	prices core.PriceGateway
	blocks core.BlockService
}

// New new lending engine
func New(
	ledger core.LedgerStore,
	params core.ParameterStore,
	prices core.PriceGateway,
	blocks core.BlockService,
) core.LendingService {
	return &service{
		ledger: ledger,
		params: params,
		prices: prices,
		blocks: blocks,
	}
}

// prepare load the parameters snapshot and the current block of an action,
// fails first if the protocol is paused
func (s *service) prepare(ctx context.Context) (*core.Parameters, int64, error) {
	params, err := s.params.Snapshot(ctx)
	if err != nil {
		return nil, 0, err
	}

	if params.Paused {
		return nil, 0, core.ErrProtocolPaused
	}

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return nil, 0, err
	}

	return params, block, nil
}

// state one action's view of the ledger. Markets are accrued once on first
// touch and saved together by commit.
type state struct {
	ctx     context.Context
	ledger  core.Ledger
	prices  core.PriceGateway
	params  *core.Parameters
	block   int64
	assets  map[string]*core.Asset
	markets map[string]*core.Market
	order   []string
}

func (s *service) newState(ctx context.Context, l core.Ledger, params *core.Parameters, block int64) *state {
	return &state{
		ctx:     ctx,
		ledger:  l,
		prices:  s.prices,
		params:  params,
		block:   block,
		assets:  map[string]*core.Asset{},
		markets: map[string]*core.Market{},
	}
}

func (st *state) asset(assetID string) (*core.Asset, error) {
	if asset, ok := st.assets[assetID]; ok {
		return asset, nil
	}

	asset, err := st.ledger.FindAsset(st.ctx, assetID)
	if err != nil {
		return nil, err
	}

	st.assets[assetID] = asset
	return asset, nil
}

// market the market of assetID brought current to the action's block
func (st *state) market(assetID string) (*core.Market, error) {
	if market, ok := st.markets[assetID]; ok {
		return market, nil
	}

	market, err := st.ledger.FindMarket(st.ctx, assetID)
	if err != nil {
		return nil, err
	}

	if err := compound.AccrueInterest(market, st.params, st.block); err != nil {
		return nil, err
	}

	st.markets[assetID] = market
	st.order = append(st.order, assetID)
	return market, nil
}

func (st *state) price(asset *core.Asset) (decimal.Decimal, error) {
	price, err := st.prices.GetPrice(st.ctx, asset, st.block, st.params.OracleStaleness)
	if err != nil {
		return decimal.Zero, err
	}

	return price.Price, nil
}

// commit refresh the rates of every touched market and save it
func (st *state) commit() error {
	for _, assetID := range st.order {
		market := st.markets[assetID]
		compound.RefreshRates(market, st.params)
		if err := st.ledger.SaveMarket(st.ctx, market); err != nil {
			return err
		}
	}

	return nil
}

// account value every position of userID
func (st *state) account(userID string) (*core.Account, error) {
	account := &core.Account{
		UserID:          userID,
		CollateralValue: decimal.Zero,
		BorrowValue:     decimal.Zero,
		Collaterals:     []*core.AccountPosition{},
		Borrows:         []*core.AccountPosition{},
	}

	collaterals, err := st.ledger.ListCollaterals(st.ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, c := range collaterals {
		asset, err := st.asset(c.AssetID)
		if err != nil {
			return nil, err
		}

		market, err := st.market(c.AssetID)
		if err != nil {
			return nil, err
		}

		position := &core.AccountPosition{
			AssetID: c.AssetID,
			Balance: compound.SupplyBalance(c, market),
			Value:   decimal.Zero,
		}
		account.Collaterals = append(account.Collaterals, position)

		if !asset.CollateralEnabled {
			continue
		}

		if position.Price, err = st.price(asset); err != nil {
			return nil, err
		}

		position.Value = compound.CollateralValue(position.Balance, position.Price, asset.CollateralFactor)
		account.CollateralValue = account.CollateralValue.Add(position.Value)
	}

	borrows, err := st.ledger.ListBorrows(st.ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, b := range borrows {
		asset, err := st.asset(b.AssetID)
		if err != nil {
			return nil, err
		}

		market, err := st.market(b.AssetID)
		if err != nil {
			return nil, err
		}

		position := &core.AccountPosition{
			AssetID: b.AssetID,
			Balance: compound.BorrowBalance(b, market),
		}

		if position.Price, err = st.price(asset); err != nil {
			return nil, err
		}

		position.Value = compound.BorrowValue(position.Balance, position.Price)
		account.BorrowValue = account.BorrowValue.Add(position.Value)
		account.Borrows = append(account.Borrows, position)
	}

	if ratio, ok := compound.HealthRatio(account.CollateralValue, account.BorrowValue); ok {
		account.HealthRatio = &ratio
	}

	account.Liquidatable = compound.IsLiquidatable(account.CollateralValue, account.BorrowValue, st.params.LiquidationThreshold)
	return account, nil
}

// requireHealthy the account of userID passes the borrow limit after the action
func (st *state) requireHealthy(userID string) (*core.Account, error) {
	account, err := st.account(userID)
	if err != nil {
		return nil, err
	}

	if !compound.IsHealthy(account.CollateralValue, account.BorrowValue, st.params.LiquidationThreshold) {
		return nil, fmt.Errorf("collateral %s, borrowed %s: %w", account.CollateralValue, account.BorrowValue, core.ErrInsufficientCollateral)
	}

	return account, nil
}

func (st *state) record(action core.ActionType, userID, assetID string, amount decimal.Decimal, extra core.TransactionExtraData) (*core.Transaction, error) {
	extra.Put(core.TransactionKeyBlock, st.block)

	tx := &core.Transaction{
		Action:      action,
		TraceID:     id.GenTraceID(),
		UserID:      userID,
		AssetID:     assetID,
		Amount:      amount,
		BlockNumber: st.block,
	}
	tx.SetExtraData(extra)

	if err := st.ledger.CreateTransaction(st.ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// maxAmount amounts are stored as decimal(32,16)
var maxAmount = decimal.New(1, 16)

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount %s: %w", amount, core.ErrInvalidAmount)
	}

	return nil
}
