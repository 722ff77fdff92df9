package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/render"

	"github.com/go-chi/chi"
)

func allMarketsHandler(markets core.MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := markets.All(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views)
	}
}

func marketHandler(markets core.MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := markets.Find(r.Context(), chi.URLParam(r, "asset_id"))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, view)
	}
}
