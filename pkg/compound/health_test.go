package compound

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCollateralValue(t *testing.T) {
	v := CollateralValue(decimal.RequireFromString("0.5"), decimal.NewFromInt(30000), 750)
	assert.Equal(t, "11250", v.String())

	owed := BorrowValue(decimal.RequireFromString("100.5"), decimal.RequireFromString("1.01"))
	assert.Equal(t, "101.505", owed.String())
}

func TestHealthRatio(t *testing.T) {
	_, ok := HealthRatio(decimal.NewFromInt(100), decimal.Zero)
	assert.False(t, ok)

	ratio, ok := HealthRatio(decimal.NewFromInt(150), decimal.NewFromInt(100))
	assert.True(t, ok)
	assert.Equal(t, "1.5", ratio.String())
}

func TestIsLiquidatable(t *testing.T) {
	cv := decimal.NewFromInt(1000)

	// 1000 * 0.75 = 750 < 900
	assert.True(t, IsLiquidatable(cv, decimal.NewFromInt(900), 750))
	// 750 >= 700
	assert.False(t, IsLiquidatable(cv, decimal.NewFromInt(700), 750))
	// boundary is healthy
	assert.True(t, IsHealthy(cv, decimal.NewFromInt(750), 750))
	// no debt is never liquidatable
	assert.False(t, IsLiquidatable(decimal.Zero, decimal.Zero, 750))
}
