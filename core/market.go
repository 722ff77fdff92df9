package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Market market data of one asset, mutated only by accrual and engine actions
type Market struct {
	ID            int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID       string          `sql:"size:36;unique_index:idx_markets_asset_id" json:"asset_id"`
	TotalSupplied decimal.Decimal `sql:"type:decimal(32,16)" json:"total_supplied"`
	TotalBorrowed decimal.Decimal `sql:"type:decimal(32,16)" json:"total_borrowed"`
	// 保留金
	Reserves decimal.Decimal `sql:"type:decimal(32,16)" json:"reserves"`
	// per block
	SupplyRate decimal.Decimal `sql:"type:decimal(20,16)" json:"supply_rate"`
	// per block
	BorrowRate      decimal.Decimal `sql:"type:decimal(20,16)" json:"borrow_rate"`
	SupplyIndex     decimal.Decimal `sql:"type:decimal(32,16)" json:"supply_index"`
	BorrowIndex     decimal.Decimal `sql:"type:decimal(32,16)" json:"borrow_index"`
	UtilizationRate decimal.Decimal `sql:"type:decimal(20,16)" json:"utilization_rate"`
	// last_update_block
	BlockNumber int64     `json:"block_number"`
	Version     int64     `sql:"default:0" json:"version"`
	CreatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// NewMarket empty market opened at block
func NewMarket(assetID string, block int64) *Market {
	return &Market{
		AssetID:     assetID,
		SupplyIndex: decimal.New(1, 0),
		BorrowIndex: decimal.New(1, 0),
		BlockNumber: block,
	}
}

// Cash liquidity available for borrowing or withdrawal
func (m *Market) Cash() decimal.Decimal {
	cash := m.TotalSupplied.Sub(m.TotalBorrowed)
	if cash.IsNegative() {
		return decimal.Zero
	}

	return cash
}

// MarketService market read service
type MarketService interface {
	// All markets brought current to the latest block, not persisted
	All(ctx context.Context) ([]*MarketView, error)
	Find(ctx context.Context, assetID string) (*MarketView, error)
}

// MarketView market with its asset and yearly rates
type MarketView struct {
	Market
	Symbol    string          `json:"symbol"`
	Asset     *Asset          `json:"asset"`
	SupplyAPY decimal.Decimal `json:"supply_apy"`
	BorrowAPY decimal.Decimal `json:"borrow_apy"`
	Suppliers int64           `json:"suppliers"`
	Borrowers int64           `json:"borrowers"`
}
