package core

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// Price oracle reading of one feed at a block
type Price struct {
	ID          int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	OracleRef   string          `sql:"size:64;unique_index:idx_prices" json:"oracle_ref,omitempty"`
	BlockNumber int64           `sql:"default:0;unique_index:idx_prices" json:"block_number,omitempty"`
	Price       decimal.Decimal `sql:"type:decimal(32,16)" json:"price,omitempty"`
	Content     types.JSONText  `sql:"type:varchar(1024)" json:"content,omitempty"`
	CreatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// PriceTicker price ticker
type PriceTicker struct {
	Provider string          `json:"provider,omitempty"`
	Symbol   string          `json:"symbol,omitempty"`
	Price    decimal.Decimal `json:"price,omitempty"`
}

// PriceStore price store interface, the read-only oracle source of the gateway
type PriceStore interface {
	Create(ctx context.Context, price *Price) error
	// Latest newest reading of the feed not after block, ID == 0 if none
	Latest(ctx context.Context, oracleRef string, block int64) (*Price, error)
	DeleteBefore(ctx context.Context, block int64) error
}

// PriceGateway every valuation reads prices through it
type PriceGateway interface {
	// GetPrice fails with ErrInvalidAsset when no oracle is bound and with
	// ErrOracleDataExpired when the reading is older than maxAge blocks
	GetPrice(ctx context.Context, asset *Asset, current, maxAge int64) (*Price, error)
}

// PriceTickerService pulls tickers from the external oracle endpoint
type PriceTickerService interface {
	PullPriceTicker(ctx context.Context, oracleRef string, t time.Time) (*PriceTicker, error)
}
