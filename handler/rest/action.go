package rest

import (
	"context"
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
	"lending/handler/request"

	"github.com/shopspring/decimal"
)

type actionRequest struct {
	AssetID string          `json:"asset_id"`
	Amount  decimal.Decimal `json:"amount"`
}

type actionFunc func(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*core.Transaction, error)

// actionHandler supply, withdraw and borrow share the request shape
func actionHandler(action actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, _ := request.NewContext(ctx).GetUser()

		var body actionRequest
		if err := param.Binding(r, &body); err != nil {
			render.BadRequest(w, err)
			return
		}

		tx, err := action(ctx, userID, body.AssetID, body.Amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, tx)
	}
}

func repayHandler(lendings core.LendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, _ := request.NewContext(ctx).GetUser()

		var body actionRequest
		if err := param.Binding(r, &body); err != nil {
			render.BadRequest(w, err)
			return
		}

		result, err := lendings.Repay(ctx, userID, body.AssetID, body.Amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, result)
	}
}

func liquidateHandler(lendings core.LendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, _ := request.NewContext(ctx).GetUser()

		var req core.LiquidateRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}
		req.Liquidator = userID

		result, err := lendings.Liquidate(ctx, &req)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, result)
	}
}
