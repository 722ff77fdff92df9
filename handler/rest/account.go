package rest

import (
	"errors"
	"net/http"

	"lending/core"
	"lending/handler/render"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi"
)

func accountHandler(lendings core.LendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "user_id")
		if !govalidator.IsUUID(userID) {
			render.BadRequest(w, errors.New("invalid user id"))
			return
		}

		account, err := lendings.AccountLiquidity(r.Context(), userID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, account)
	}
}
