package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// CollateralFactorMax max collateral factor in permille
const CollateralFactorMax Permille = 900

// Asset supported asset, maintained by governance and read-only to the engines
type Asset struct {
	ID        int64  `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID   string `sql:"size:36;unique_index:idx_assets_asset_id" json:"asset_id"`
	Symbol    string `sql:"size:20" json:"symbol"`
	OracleRef string `sql:"size:64" json:"oracle_ref"`
	// 抵押因子, permille of 1000, must not exceed 900
	CollateralFactor  Permille `json:"collateral_factor"`
	BorrowEnabled     bool     `json:"borrow_enabled"`
	CollateralEnabled bool     `json:"collateral_enabled"`
	// total borrows cap of the market, zero means unlimited
	BorrowCap decimal.Decimal `sql:"type:decimal(32,16)" json:"borrow_cap"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Validate check the registry invariants of the asset
func (a *Asset) Validate() error {
	if a.AssetID == "" {
		return ErrInvalidAsset
	}

	if a.CollateralFactor < 0 || a.CollateralFactor > CollateralFactorMax {
		return ErrInvalidAsset
	}

	if a.BorrowCap.IsNegative() {
		return ErrInvalidAmount
	}

	return nil
}

// Supplyable whether the asset accepts supply at all
func (a *Asset) Supplyable() bool {
	return a.BorrowEnabled || a.CollateralEnabled
}
