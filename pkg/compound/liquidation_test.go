package compound

import (
	"testing"

	"lending/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seizeParams() *core.Parameters {
	params := core.DefaultParameters()
	params.LiquidationIncentive = 1080
	params.ProtocolFee = 100
	return params
}

func approx(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	diff := decimal.RequireFromString(expected).Sub(actual).Abs()
	assert.True(t, diff.LessThan(decimal.New(1, -12)), "expected %s, got %s", expected, actual)
}

func TestMaxRepay(t *testing.T) {
	owed := decimal.NewFromInt(100)
	assert.Equal(t, "50", MaxRepay(owed, 500).String())
	assert.Equal(t, "100", MaxRepay(owed, 0).String())
	assert.Equal(t, "100", MaxRepay(owed, 1000).String())
}

func TestPlanSeize(t *testing.T) {
	params := seizeParams()
	candidates := []*SeizeCandidate{
		{AssetID: "btc", Balance: decimal.NewFromInt(1), Price: decimal.NewFromInt(50)},
		{AssetID: "eth", Balance: decimal.NewFromInt(10), Price: decimal.NewFromInt(10)},
	}

	plan, err := PlanSeize(decimal.NewFromInt(100), decimal.NewFromInt(1), candidates, params)
	require.NoError(t, err)

	assert.False(t, plan.Shortfall)
	assert.Equal(t, "100", plan.RepayCredit.String())
	assert.Equal(t, "108", plan.SeizeValue.String())
	require.Len(t, plan.Seized, 2)

	// requested asset is drained first
	assert.Equal(t, "btc", plan.Seized[0].AssetID)
	assert.Equal(t, "1", plan.Seized[0].Amount.String())
	assert.Equal(t, "eth", plan.Seized[1].AssetID)
	assert.Equal(t, "5.8", plan.Seized[1].Amount.String())

	// fee = amount * 0.08 / 1.08 * 0.1
	approx(t, "0.0074074074074074", plan.Seized[0].Fee)
	approx(t, "0.0429629629629629", plan.Seized[1].Fee)
}

func TestPlanSeizeShortfall(t *testing.T) {
	candidates := []*SeizeCandidate{
		{AssetID: "btc", Balance: decimal.NewFromInt(1), Price: decimal.NewFromInt(50)},
		{AssetID: "eth", Balance: decimal.RequireFromString("0.4"), Price: decimal.NewFromInt(10)},
	}

	t.Run("cap", func(t *testing.T) {
		params := seizeParams()
		params.ShortfallPolicy = core.ShortfallCap

		plan, err := PlanSeize(decimal.NewFromInt(100), decimal.NewFromInt(1), candidates, params)
		require.NoError(t, err)

		assert.True(t, plan.Shortfall)
		// 100 * 54 / 108
		assert.Equal(t, "50", plan.RepayCredit.String())
		require.Len(t, plan.Seized, 2)
		assert.Equal(t, "1", plan.Seized[0].Amount.String())
		assert.Equal(t, "0.4", plan.Seized[1].Amount.String())
	})

	t.Run("reject", func(t *testing.T) {
		params := seizeParams()
		params.ShortfallPolicy = core.ShortfallReject

		_, err := PlanSeize(decimal.NewFromInt(100), decimal.NewFromInt(1), candidates, params)
		assert.ErrorIs(t, err, core.ErrInsufficientCollateral)
	})
}
