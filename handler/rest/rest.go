package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/auth"
	"lending/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	cfg *core.Config,
	lendings core.LendingService,
	bridges core.BridgeService,
	markets core.MarketService,
	params core.ParameterStore,
	transactions core.TransactionStore,
) http.Handler {
	router := chi.NewRouter()
	router.Use(auth.HandleAuthentication())

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, "not found")
	})

	router.Get("/markets", allMarketsHandler(markets))
	router.Get("/markets/{asset_id}", marketHandler(markets))
	router.Get("/accounts/{user_id}", accountHandler(lendings))
	router.Get("/transactions", transactionsHandler(transactions))
	router.Get("/parameters", parametersHandler(params))
	router.Get("/btc-deposits/{tx_id}", findDepositHandler(bridges))

	router.Group(func(r chi.Router) {
		r.Use(auth.HandleAuthorization())

		r.Post("/supply", actionHandler(lendings.Supply))
		r.Post("/withdraw", actionHandler(lendings.Withdraw))
		r.Post("/borrow", actionHandler(lendings.Borrow))
		r.Post("/repay", repayHandler(lendings))
		r.Post("/liquidate", liquidateHandler(lendings))

		r.Post("/btc-deposits", submitDepositHandler(bridges))
		r.Post("/btc-deposits/{tx_id}/confirm", confirmDepositHandler(bridges))
		r.Post("/btc-deposits/{tx_id}/reject", rejectDepositHandler(bridges))
		r.Post("/btc-deposits/{tx_id}/credit", creditDepositHandler(bridges))

		r.With(auth.HandleAdmin(cfg)).Put("/parameters", updateParametersHandler(params))
	})

	return router
}
