package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lending/core"
	"lending/handler/auth"
	"lending/service/bridge"
	"lending/service/lending"
	"lending/service/market"
	"lending/service/param"
	"lending/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	btc      = "c6d0c728-2624-429b-8e0d-d9d19b6592fa"
	alice    = "a0ad5d4e-7b44-4f46-8bd3-1ad8d6c5e0a1"
	admin    = "d0000000-0000-4000-8000-00000000000d"
	attester = "e1000000-0000-4000-8000-000000000001"
)

type mapKV map[string]string

func (m mapKV) Get(ctx context.Context, key string) (string, error) {
	return m[key], nil
}

func (m mapKV) Save(ctx context.Context, key, value string) error {
	m[key] = value
	return nil
}

type fixedPrice struct{}

func (fixedPrice) GetPrice(ctx context.Context, asset *core.Asset, current, maxAge int64) (*core.Price, error) {
	return &core.Price{OracleRef: asset.OracleRef, BlockNumber: current, Price: decimal.NewFromInt(30000)}, nil
}

type clock struct{}

func (clock) CurrentBlock(ctx context.Context) (int64, error) {
	return 100, nil
}

func (clock) GetBlock(ctx context.Context, t time.Time) (int64, error) {
	return 100, nil
}

type errorBody struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func newHandler(t *testing.T) http.Handler {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Update(ctx, func(l core.Ledger) error {
		asset := &core.Asset{AssetID: btc, Symbol: "BTC", OracleRef: "BTC", CollateralFactor: 750, CollateralEnabled: true, BorrowEnabled: true}
		if err := l.SaveAsset(ctx, asset); err != nil {
			return err
		}

		return l.SaveMarket(ctx, core.NewMarket(btc, 100))
	}))

	cfg := &core.Config{
		Admins: []string{admin},
		Bridge: core.Bridge{
			AssetID:          btc,
			Attesters:        []string{attester},
			Threshold:        1,
			MinConfirmations: 1,
		},
	}

	params := param.New(mapKV{})
	return Handle(
		cfg,
		lending.New(store, params, fixedPrice{}, clock{}),
		bridge.New(store, params, clock{}, cfg),
		market.New(store, params, clock{}),
		params,
		store,
	)
}

func do(h http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		r.Header.Set(auth.HeaderUserID, userID)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestActions(t *testing.T) {
	h := newHandler(t)

	w := do(h, "GET", "/markets", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var markets []*core.MarketView
	decode(t, w, &markets)
	require.Len(t, markets, 1)
	assert.Equal(t, "BTC", markets[0].Symbol)

	w = do(h, "POST", "/supply", "", `{"asset_id":"`+btc+`","amount":"1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(h, "POST", "/supply", alice, `{"asset_id":"`+btc+`","amount":"1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var tx core.Transaction
	decode(t, w, &tx)
	assert.Equal(t, core.ActionTypeSupply, tx.Action)
	assert.Equal(t, alice, tx.UserID)

	w = do(h, "POST", "/withdraw", alice, `{"asset_id":"`+btc+`","amount":"2"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var e errorBody
	decode(t, w, &e)
	assert.Equal(t, int(core.ErrInvalidAmount), e.Code)

	w = do(h, "GET", "/accounts/"+alice, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var account core.Account
	decode(t, w, &account)
	assert.Equal(t, "22500", account.CollateralValue.String())
	assert.False(t, account.Liquidatable)

	w = do(h, "GET", "/accounts/nobody", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(h, "GET", "/transactions?user_id="+alice+"&limit=10", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var txs []*core.Transaction
	decode(t, w, &txs)
	assert.Len(t, txs, 1)

	w = do(h, "POST", "/repay", alice, `{"asset_id":"`+btc+`","amount":"1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	decode(t, w, &e)
	assert.Equal(t, int(core.ErrPositionNotFound), e.Code)
}

func TestDeposits(t *testing.T) {
	h := newHandler(t)
	txID := strings.Repeat("9f", 32)

	w := do(h, "GET", "/btc-deposits/"+txID, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(h, "POST", "/btc-deposits", alice, `{"tx_id":"`+txID+`","satoshis":10000000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(h, "POST", "/btc-deposits/"+txID+"/confirm", alice, `{"confirmations":3}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(h, "POST", "/btc-deposits/"+txID+"/confirm", attester, `{"confirmations":3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(h, "POST", "/btc-deposits/"+txID+"/credit", alice, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(h, "POST", "/btc-deposits/"+txID+"/credit", alice, "")
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)

	w = do(h, "GET", "/btc-deposits/"+txID, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var deposit core.BtcDeposit
	decode(t, w, &deposit)
	assert.Equal(t, core.DepositStatusCredited, deposit.Status)
	assert.Equal(t, "0.1", deposit.Amount.String())
}

func TestParameters(t *testing.T) {
	h := newHandler(t)

	w := do(h, "PUT", "/parameters", alice, `{"paused":true}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(h, "PUT", "/parameters", admin, `{"paused":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(h, "GET", "/parameters", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var params core.Parameters
	decode(t, w, &params)
	assert.True(t, params.Paused)

	w = do(h, "POST", "/supply", alice, `{"asset_id":"`+btc+`","amount":"1"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var e errorBody
	decode(t, w, &e)
	assert.Equal(t, int(core.ErrProtocolPaused), e.Code)

	w = do(h, "PUT", "/parameters", admin, `{"liquidation_threshold":2000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
