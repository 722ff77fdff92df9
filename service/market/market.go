package market

import (
	"context"

	"lending/core"
	"lending/pkg/compound"
)

type service struct {
	ledger   core.LedgerStore
	params   core.ParameterStore
	blockSrv core.BlockService
}

// New new market service
func New(
	ledger core.LedgerStore,
	params core.ParameterStore,
	blockSrv core.BlockService,
) core.MarketService {
	return &service{
		ledger:   ledger,
		params:   params,
		blockSrv: blockSrv,
	}
}

func (s *service) All(ctx context.Context) ([]*core.MarketView, error) {
	params, block, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var views []*core.MarketView
	err = s.ledger.View(ctx, func(l core.Ledger) error {
		assets, err := l.ListAssets(ctx)
		if err != nil {
			return err
		}

		views = make([]*core.MarketView, 0, len(assets))
		for _, asset := range assets {
			view, err := s.view(ctx, l, asset, params, block)
			if err != nil {
				return err
			}

			views = append(views, view)
		}

		return nil
	})

	return views, err
}

func (s *service) Find(ctx context.Context, assetID string) (*core.MarketView, error) {
	params, block, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var view *core.MarketView
	err = s.ledger.View(ctx, func(l core.Ledger) error {
		asset, err := l.FindAsset(ctx, assetID)
		if err != nil {
			return err
		}

		view, err = s.view(ctx, l, asset, params, block)
		return err
	})

	return view, err
}

func (s *service) snapshot(ctx context.Context) (*core.Parameters, int64, error) {
	params, err := s.params.Snapshot(ctx)
	if err != nil {
		return nil, 0, err
	}

	block, err := s.blockSrv.CurrentBlock(ctx)
	if err != nil {
		return nil, 0, err
	}

	return params, block, nil
}

// view market accrued to block, the ledger is read only here
func (s *service) view(ctx context.Context, l core.Ledger, asset *core.Asset, params *core.Parameters, block int64) (*core.MarketView, error) {
	market, err := l.FindMarket(ctx, asset.AssetID)
	if err != nil {
		return nil, err
	}

	if err := compound.AccrueInterest(market, params, block); err != nil {
		return nil, err
	}
	compound.RefreshRates(market, params)

	suppliers, err := l.CountCollaterals(ctx, asset.AssetID)
	if err != nil {
		return nil, err
	}

	borrowers, err := l.CountBorrows(ctx, asset.AssetID)
	if err != nil {
		return nil, err
	}

	return &core.MarketView{
		Market:    *market,
		Symbol:    asset.Symbol,
		Asset:     asset,
		SupplyAPY: compound.CurSupplyRate(market, params),
		BorrowAPY: compound.CurBorrowRate(market, params),
		Suppliers: suppliers,
		Borrowers: borrowers,
	}, nil
}
