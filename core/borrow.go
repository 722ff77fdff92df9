package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Borrow user borrow model
type Borrow struct {
	ID            int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID        string          `sql:"size:36;unique_index:idx_borrows_user_asset" json:"user_id"`
	AssetID       string          `sql:"size:36;unique_index:idx_borrows_user_asset" json:"asset_id"`
	Principal     decimal.Decimal `sql:"type:decimal(32,16)" json:"principal"`
	InterestIndex decimal.Decimal `sql:"type:decimal(32,16);default:1" json:"interest_index"`
	// last_update_block
	BlockNumber int64     `json:"block_number"`
	Version     int64     `sql:"default:0" json:"version"`
	CreatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}
