package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
)

// response transactions, newest first
func transactionsHandler(transactions core.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var query core.TransactionQuery
		if err := param.Binding(r, &query); err != nil {
			render.BadRequest(w, err)
			return
		}

		txs, err := transactions.List(r.Context(), query)
		if err != nil {
			render.Error(w, err)
			return
		}

		if txs == nil {
			txs = []*core.Transaction{}
		}

		render.JSON(w, txs)
	}
}
