package compound

import (
	"errors"
	"testing"

	"lending/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMarket() *core.Market {
	market := core.NewMarket("btc", 100)
	market.TotalSupplied = decimal.NewFromInt(1000)
	market.TotalBorrowed = decimal.NewFromInt(400)
	market.BorrowRate = decimal.RequireFromString("0.001")
	market.SupplyRate = decimal.RequireFromString("0.00036")
	return market
}

func TestAccrueInterest(t *testing.T) {
	params := testParams()
	market := newTestMarket()

	require.NoError(t, AccrueInterest(market, params, 110))

	assert.Equal(t, int64(110), market.BlockNumber)
	assert.Equal(t, "1.01", market.BorrowIndex.String())
	assert.Equal(t, "1.0036", market.SupplyIndex.String())
	assert.Equal(t, "404", market.TotalBorrowed.String())
	assert.Equal(t, "1003.6", market.TotalSupplied.String())
	assert.Equal(t, "0.4", market.Reserves.String())
}

func TestAccrueInterestIdempotent(t *testing.T) {
	params := testParams()
	market := newTestMarket()

	require.NoError(t, AccrueInterest(market, params, 110))
	snapshot := *market

	require.NoError(t, AccrueInterest(market, params, 110))
	assert.Equal(t, snapshot, *market)

	// clock regression is a no-op as well
	require.NoError(t, AccrueInterest(market, params, 105))
	assert.Equal(t, snapshot, *market)
}

func TestAccrueInterestMonotonic(t *testing.T) {
	params := testParams()
	market := newTestMarket()

	block := market.BlockNumber
	for i := 0; i < 20; i++ {
		borrowIndex, supplyIndex := market.BorrowIndex, market.SupplyIndex
		block += int64(i * 7)
		require.NoError(t, AccrueInterest(market, params, block))
		RefreshRates(market, params)

		assert.True(t, market.BorrowIndex.GreaterThanOrEqual(borrowIndex))
		assert.True(t, market.SupplyIndex.GreaterThanOrEqual(supplyIndex))
		assert.Equal(t, block, market.BlockNumber)
	}
}

func TestAccrueInterestOverflow(t *testing.T) {
	params := testParams()
	market := newTestMarket()
	market.BorrowRate = decimal.NewFromInt(1000)

	err := AccrueInterest(market, params, 100+1_000_000_000_000)
	assert.True(t, errors.Is(err, core.ErrInvalidAmount))
	// nothing changed
	assert.Equal(t, int64(100), market.BlockNumber)
	assert.Equal(t, "1", market.BorrowIndex.String())
}

func TestRefreshRates(t *testing.T) {
	params := testParams()
	params.BlocksPerYear = 1000
	market := newTestMarket()

	RefreshRates(market, params)
	assert.Equal(t, "0.4", market.UtilizationRate.String())
	assert.Equal(t, "0.00007", market.BorrowRate.String())
	assert.Equal(t, "0.0000252", market.SupplyRate.String())
}

func TestBorrowBalance(t *testing.T) {
	market := newTestMarket()
	borrow := &core.Borrow{
		Principal:     decimal.NewFromInt(100),
		InterestIndex: decimal.New(1, 0),
	}

	assert.Equal(t, "100", BorrowBalance(borrow, market).String())

	market.BorrowIndex = decimal.RequireFromString("1.05")
	assert.Equal(t, "105", BorrowBalance(borrow, market).String())

	UpdateBorrow(borrow, market, decimal.NewFromInt(50))
	assert.Equal(t, "1.05", borrow.InterestIndex.String())
	assert.Equal(t, "50", BorrowBalance(borrow, market).String())
}

func TestSupplyBalance(t *testing.T) {
	market := newTestMarket()
	collateral := &core.Collateral{
		Amount:      decimal.NewFromInt(3),
		SupplyIndex: decimal.New(1, 0),
	}

	market.SupplyIndex = decimal.RequireFromString("1.1")
	assert.Equal(t, "3.3", SupplyBalance(collateral, market).String())
}
