package compound

import (
	"testing"

	"lending/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testParams() *core.Parameters {
	p := core.DefaultParameters()
	p.BaseRate = 20
	p.RateMultiplier = 100
	p.JumpMultiplier = 1000
	p.OptimalUtilization = 800
	p.ReserveFactor = 100
	return p
}

func TestUtilizationRate(t *testing.T) {
	assert.True(t, UtilizationRate(decimal.Zero, decimal.NewFromInt(10)).IsZero())
	assert.True(t, UtilizationRate(decimal.NewFromInt(10), decimal.Zero).IsZero())
	assert.Equal(t, "0.25", UtilizationRate(decimal.NewFromInt(100), decimal.NewFromInt(25)).String())
}

func TestGetBorrowRate(t *testing.T) {
	params := testParams()

	data := map[string]string{
		"0":    "0.02",
		"0.4":  "0.07",
		"0.8":  "0.12",
		"0.9":  "0.62",
		"1":    "1.12",
		"0.85": "0.37",
	}

	for u, rate := range data {
		t.Run(u, func(t *testing.T) {
			got := GetBorrowRate(decimal.RequireFromString(u), params)
			assert.Equal(t, rate, got.String())
		})
	}
}

func TestBorrowRateContinuousAtKnee(t *testing.T) {
	params := testParams()
	knee := params.OptimalUtilization.Decimal()
	epsilon := decimal.New(1, -12)

	atKnee := GetBorrowRate(knee, params)
	below := GetBorrowRate(knee.Sub(epsilon), params)
	above := GetBorrowRate(knee.Add(epsilon), params)

	assert.Equal(t, "0.12", atKnee.String())
	// both sides converge to the knee value
	assert.True(t, atKnee.Sub(below).LessThan(decimal.New(1, -9)))
	assert.True(t, above.Sub(atKnee).LessThan(decimal.New(1, -9)))
	assert.True(t, below.LessThanOrEqual(atKnee))
	assert.True(t, above.GreaterThanOrEqual(atKnee))
}

func TestGetBorrowRateLinear(t *testing.T) {
	params := testParams()
	params.RateModel = core.RateModelLinear

	got := GetBorrowRate(decimal.RequireFromString("0.9"), params)
	assert.Equal(t, "0.11", got.String())
}

func TestGetSupplyRate(t *testing.T) {
	params := testParams()

	// 0.07 * 0.4 * 0.9
	got := GetSupplyRate(decimal.RequireFromString("0.4"), params)
	assert.Equal(t, "0.0252", got.String())

	assert.True(t, GetSupplyRate(decimal.Zero, params).IsZero())
}

func TestRatePerBlock(t *testing.T) {
	params := testParams()
	params.BlocksPerYear = 1000

	perBlock := GetBorrowRatePerBlock(decimal.RequireFromString("0.4"), params)
	assert.Equal(t, "0.00007", perBlock.String())
	assert.Equal(t, "0.07", YearlyRate(perBlock, params).String())
}
