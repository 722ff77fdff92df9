package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collateral user supply balance of one asset, also counted as collateral
// when the asset is collateral enabled
type Collateral struct {
	ID      int64  `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID  string `sql:"size:36;unique_index:idx_collaterals_user_asset" json:"user_id"`
	AssetID string `sql:"size:36;unique_index:idx_collaterals_user_asset" json:"asset_id"`
	// principal at SupplyIndex
	Amount      decimal.Decimal `sql:"type:decimal(32,16)" json:"amount"`
	SupplyIndex decimal.Decimal `sql:"type:decimal(32,16);default:1" json:"supply_index"`
	BlockNumber int64           `json:"block_number"`
	Version     int64           `sql:"default:0" json:"version"`
	CreatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}
