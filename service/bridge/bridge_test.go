package bridge

import (
	"context"
	"strings"
	"testing"
	"time"

	"lending/core"
	"lending/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sbtc  = "c6d0c728-2624-429b-8e0d-d9d19b6592fa"
	alice = "a0ad5d4e-7b44-4f46-8bd3-1ad8d6c5e0a1"

	attester1 = "e1000000-0000-4000-8000-000000000001"
	attester2 = "e2000000-0000-4000-8000-000000000002"
	stranger  = "f0000000-0000-4000-8000-00000000000f"
)

var txID = strings.Repeat("ab", 32)

type fixedParams struct {
	params core.Parameters
}

func (f *fixedParams) Snapshot(ctx context.Context) (*core.Parameters, error) {
	p := f.params
	return &p, nil
}

func (f *fixedParams) Update(ctx context.Context, patch *core.ParametersPatch) (*core.Parameters, error) {
	f.params = patch.Apply(f.params)
	p := f.params
	return &p, nil
}

type clock struct {
	block int64
}

func (c *clock) CurrentBlock(ctx context.Context) (int64, error) {
	return c.block, nil
}

func (c *clock) GetBlock(ctx context.Context, t time.Time) (int64, error) {
	return c.block, nil
}

type harness struct {
	ctx    context.Context
	store  *memory.Store
	params *fixedParams
	clock  *clock
	svc    core.BridgeService
}

func newHarness(t *testing.T, threshold int) *harness {
	h := &harness{
		ctx:    context.Background(),
		store:  memory.New(),
		params: &fixedParams{params: *core.DefaultParameters()},
		clock:  &clock{block: 100},
	}

	cfg := &core.Config{
		Bridge: core.Bridge{
			AssetID:          sbtc,
			Attesters:        []string{attester1, attester2},
			Threshold:        threshold,
			MinConfirmations: 6,
		},
	}
	h.svc = New(h.store, h.params, h.clock, cfg)

	require.NoError(t, h.store.Update(h.ctx, func(l core.Ledger) error {
		asset := &core.Asset{AssetID: sbtc, Symbol: "BTC", OracleRef: "BTC", CollateralFactor: 750, CollateralEnabled: true}
		if err := l.SaveAsset(h.ctx, asset); err != nil {
			return err
		}

		return l.SaveMarket(h.ctx, core.NewMarket(sbtc, 100))
	}))

	return h
}

func (h *harness) collateral(t *testing.T) decimal.Decimal {
	var collateral *core.Collateral
	require.NoError(t, h.store.View(h.ctx, func(l core.Ledger) (err error) {
		collateral, err = l.FindCollateral(h.ctx, alice, sbtc)
		return err
	}))
	return collateral.Amount
}

func (h *harness) market(t *testing.T) *core.Market {
	var market *core.Market
	require.NoError(t, h.store.View(h.ctx, func(l core.Ledger) (err error) {
		market, err = l.FindMarket(h.ctx, sbtc)
		return err
	}))
	return market
}

func TestSubmit(t *testing.T) {
	h := newHarness(t, 1)

	deposit, err := h.svc.Submit(h.ctx, alice, strings.ToUpper(txID), 50000000)
	require.NoError(t, err)
	assert.Equal(t, txID, deposit.TxID)
	assert.Equal(t, "0.5", deposit.Amount.String())
	assert.Equal(t, core.DepositStatusSubmitted, deposit.Status)
	assert.EqualValues(t, 100, deposit.SubmittedBlock)
	assert.True(t, h.collateral(t).IsZero())

	t.Run("duplicate", func(t *testing.T) {
		_, err := h.svc.Submit(h.ctx, alice, txID, 50000000)
		assert.ErrorIs(t, err, core.ErrInvalidAssetState)
	})

	t.Run("bad tx id", func(t *testing.T) {
		_, err := h.svc.Submit(h.ctx, alice, "not-a-hash", 1)
		assert.ErrorIs(t, err, core.ErrInvalidAssetState)
	})

	t.Run("bad amount", func(t *testing.T) {
		other := strings.Repeat("cd", 32)
		for _, sats := range []int64{0, -1, 21e14 + 1} {
			_, err := h.svc.Submit(h.ctx, alice, other, sats)
			assert.ErrorIs(t, err, core.ErrInvalidAmount, sats)
		}
	})

	t.Run("paused", func(t *testing.T) {
		paused := true
		_, _ = h.params.Update(h.ctx, &core.ParametersPatch{Paused: &paused})
		defer func() {
			paused = false
			_, _ = h.params.Update(h.ctx, &core.ParametersPatch{Paused: &paused})
		}()

		_, err := h.svc.Submit(h.ctx, alice, strings.Repeat("ef", 32), 1)
		assert.ErrorIs(t, err, core.ErrProtocolPaused)
	})
}

func TestConfirmAndCredit(t *testing.T) {
	h := newHarness(t, 2)

	_, err := h.svc.Submit(h.ctx, alice, txID, 100000000)
	require.NoError(t, err)

	_, err = h.svc.Credit(h.ctx, txID)
	assert.ErrorIs(t, err, core.ErrInvalidAssetState, "credit before confirmation")

	_, err = h.svc.Confirm(h.ctx, stranger, txID, 6)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	_, err = h.svc.Confirm(h.ctx, attester1, txID, 5)
	assert.ErrorIs(t, err, core.ErrInvalidAssetState, "not deep enough")

	deposit, err := h.svc.Confirm(h.ctx, attester1, txID, 6)
	require.NoError(t, err)
	assert.Equal(t, core.DepositStatusSubmitted, deposit.Status)

	_, err = h.svc.Confirm(h.ctx, attester1, txID, 7)
	assert.ErrorIs(t, err, core.ErrInvalidAssetState, "same attester twice")

	h.clock.block = 110
	deposit, err = h.svc.Confirm(h.ctx, attester2, txID, 8)
	require.NoError(t, err)
	assert.Equal(t, core.DepositStatusConfirmed, deposit.Status)
	assert.EqualValues(t, 8, deposit.Confirmations)
	assert.EqualValues(t, 110, deposit.ConfirmedBlock)
	assert.ElementsMatch(t, []string{attester1, attester2}, deposit.Attesters)

	deposit, err = h.svc.Credit(h.ctx, txID)
	require.NoError(t, err)
	assert.Equal(t, core.DepositStatusCredited, deposit.Status)
	assert.Equal(t, "1", h.collateral(t).String())
	assert.Equal(t, "1", h.market(t).TotalSupplied.String())

	_, err = h.svc.Credit(h.ctx, txID)
	assert.ErrorIs(t, err, core.ErrInvalidAssetState)
	assert.Equal(t, "1", h.collateral(t).String(), "second credit leaves collateral unchanged")

	_, err = h.svc.Reject(h.ctx, attester1, txID, "late")
	assert.ErrorIs(t, err, core.ErrInvalidAssetState, "credited is terminal")

	found, err := h.svc.Find(h.ctx, txID)
	require.NoError(t, err)
	assert.Equal(t, core.DepositStatusCredited, found.Status)

	txs, err := h.store.List(h.ctx, core.TransactionQuery{UserID: alice})
	require.NoError(t, err)
	assert.Len(t, txs, 4)
	assert.Equal(t, core.ActionTypeBtcCredit, txs[0].Action)
}

func TestReject(t *testing.T) {
	h := newHarness(t, 1)

	submitted := strings.Repeat("01", 32)
	confirmed := strings.Repeat("02", 32)

	for _, tx := range []string{submitted, confirmed} {
		_, err := h.svc.Submit(h.ctx, alice, tx, 1000)
		require.NoError(t, err)
	}

	_, err := h.svc.Confirm(h.ctx, attester2, confirmed, 6)
	require.NoError(t, err)

	_, err = h.svc.Reject(h.ctx, stranger, submitted, "fraud")
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	for _, tx := range []string{submitted, confirmed} {
		deposit, err := h.svc.Reject(h.ctx, attester1, tx, "double spend")
		require.NoError(t, err)
		assert.Equal(t, core.DepositStatusRejected, deposit.Status)
		assert.Equal(t, "double spend", deposit.RejectReason)

		_, err = h.svc.Credit(h.ctx, tx)
		assert.ErrorIs(t, err, core.ErrInvalidAssetState)

		_, err = h.svc.Confirm(h.ctx, attester1, tx, 10)
		assert.ErrorIs(t, err, core.ErrInvalidAssetState)
	}

	assert.True(t, h.collateral(t).IsZero())
}

func TestFindUnknown(t *testing.T) {
	h := newHarness(t, 1)

	deposit, err := h.svc.Find(h.ctx, txID)
	require.NoError(t, err)
	assert.Zero(t, deposit.ID)

	_, err = h.svc.Credit(h.ctx, txID)
	assert.ErrorIs(t, err, core.ErrInvalidAssetState)
}
