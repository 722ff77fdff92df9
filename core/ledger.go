package core

import (
	"context"
)

// Ledger state view of one atomic action. Finders return a zero valued
// record (ID == 0) when nothing is stored, except FindAsset and FindMarket
// which fail with ErrInvalidAsset.
type Ledger interface {
	FindAsset(ctx context.Context, assetID string) (*Asset, error)
	ListAssets(ctx context.Context) ([]*Asset, error)
	SaveAsset(ctx context.Context, asset *Asset) error

	FindMarket(ctx context.Context, assetID string) (*Market, error)
	SaveMarket(ctx context.Context, market *Market) error

	FindCollateral(ctx context.Context, userID, assetID string) (*Collateral, error)
	ListCollaterals(ctx context.Context, userID string) ([]*Collateral, error)
	SaveCollateral(ctx context.Context, collateral *Collateral) error
	DeleteCollateral(ctx context.Context, collateral *Collateral) error
	CountCollaterals(ctx context.Context, assetID string) (int64, error)

	FindBorrow(ctx context.Context, userID, assetID string) (*Borrow, error)
	ListBorrows(ctx context.Context, userID string) ([]*Borrow, error)
	SaveBorrow(ctx context.Context, borrow *Borrow) error
	DeleteBorrow(ctx context.Context, borrow *Borrow) error
	CountBorrows(ctx context.Context, assetID string) (int64, error)
	Borrowers(ctx context.Context) ([]string, error)

	FindBtcDeposit(ctx context.Context, txID string) (*BtcDeposit, error)
	SaveBtcDeposit(ctx context.Context, deposit *BtcDeposit) error

	CreateTransaction(ctx context.Context, tx *Transaction) error
}

// LedgerStore runs actions against the shared ledger. Update commits every
// write of fn or none of them.
type LedgerStore interface {
	View(ctx context.Context, fn func(Ledger) error) error
	Update(ctx context.Context, fn func(Ledger) error) error
}
