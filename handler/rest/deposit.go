package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
	"lending/handler/request"

	"github.com/go-chi/chi"
)

func findDepositHandler(bridges core.BridgeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deposit, err := bridges.Find(r.Context(), chi.URLParam(r, "tx_id"))
		if err != nil {
			render.Error(w, err)
			return
		}

		if deposit.ID == 0 {
			render.NotFoundRequest(w, "btc deposit not found")
			return
		}

		render.JSON(w, deposit)
	}
}

func submitDepositHandler(bridges core.BridgeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, _ := request.NewContext(ctx).GetUser()

		var body struct {
			TxID     string `json:"tx_id"`
			Satoshis int64  `json:"satoshis"`
		}
		if err := param.Binding(r, &body); err != nil {
			render.BadRequest(w, err)
			return
		}

		deposit, err := bridges.Submit(ctx, userID, body.TxID, body.Satoshis)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, deposit)
	}
}

func confirmDepositHandler(bridges core.BridgeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		attester, _ := request.NewContext(ctx).GetUser()

		var body struct {
			Confirmations int64 `json:"confirmations"`
		}
		if err := param.Binding(r, &body); err != nil {
			render.BadRequest(w, err)
			return
		}

		deposit, err := bridges.Confirm(ctx, attester, chi.URLParam(r, "tx_id"), body.Confirmations)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, deposit)
	}
}

func rejectDepositHandler(bridges core.BridgeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		attester, _ := request.NewContext(ctx).GetUser()

		var body struct {
			Reason string `json:"reason"`
		}
		if err := param.Binding(r, &body); err != nil {
			render.BadRequest(w, err)
			return
		}

		deposit, err := bridges.Reject(ctx, attester, chi.URLParam(r, "tx_id"), body.Reason)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, deposit)
	}
}

func creditDepositHandler(bridges core.BridgeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deposit, err := bridges.Credit(r.Context(), chi.URLParam(r, "tx_id"))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, deposit)
	}
}
