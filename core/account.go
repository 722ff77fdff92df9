package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Account valuation of one user, all figures post accrual
type Account struct {
	UserID string `json:"user_id"`
	// Σ balance * price * collateral factor
	CollateralValue decimal.Decimal `json:"collateral_value"`
	// Σ owed * price
	BorrowValue decimal.Decimal `json:"borrow_value"`
	// collateral_value / borrow_value, empty when nothing is borrowed
	HealthRatio  *decimal.Decimal   `json:"health_ratio,omitempty"`
	Liquidatable bool               `json:"liquidatable"`
	Collaterals  []*AccountPosition `json:"collaterals"`
	Borrows      []*AccountPosition `json:"borrows"`
}

// AccountPosition current balance of one asset
type AccountPosition struct {
	AssetID string          `json:"asset_id"`
	Balance decimal.Decimal `json:"balance"`
	Price   decimal.Decimal `json:"price"`
	Value   decimal.Decimal `json:"value"`
}

// LiquidateRequest liquidator repays RepayAmount of the borrower's debt in
// BorrowAssetID and seizes collateral, SeizeAssetID first
type LiquidateRequest struct {
	Liquidator    string          `json:"liquidator"`
	Borrower      string          `json:"borrower"`
	BorrowAssetID string          `json:"borrow_asset_id"`
	RepayAmount   decimal.Decimal `json:"repay_amount"`
	SeizeAssetID  string          `json:"seize_asset_id"`
}

// Seizure collateral taken from the borrower in one asset
type Seizure struct {
	AssetID string          `json:"asset_id"`
	Amount  decimal.Decimal `json:"amount"`
	// part of Amount routed to reserves
	Fee decimal.Decimal `json:"fee"`
}

// LiquidationResult outcome of a liquidation
type LiquidationResult struct {
	Transaction *Transaction    `json:"transaction"`
	Repaid      decimal.Decimal `json:"repaid"`
	Refund      decimal.Decimal `json:"refund"`
	Seized      []*Seizure      `json:"seized"`
	Shortfall   bool            `json:"shortfall"`
}

// RepayResult outcome of a repay
type RepayResult struct {
	Transaction *Transaction    `json:"transaction"`
	Repaid      decimal.Decimal `json:"repaid"`
	Refund      decimal.Decimal `json:"refund"`
	Remaining   decimal.Decimal `json:"remaining"`
}

// LendingService user actions. Each runs as one atomic ledger transaction.
type LendingService interface {
	Supply(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*Transaction, error)
	Withdraw(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*Transaction, error)
	Borrow(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*Transaction, error)
	Repay(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*RepayResult, error)
	Liquidate(ctx context.Context, req *LiquidateRequest) (*LiquidationResult, error)
	// AccountLiquidity read only valuation, nothing is persisted
	AccountLiquidity(ctx context.Context, userID string) (*Account, error)
}
