package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"

	"github.com/fox-one/pkg/logger"
)

func parametersHandler(params core.ParameterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := params.Snapshot(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, snapshot)
	}
}

func updateParametersHandler(params core.ParameterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var patch core.ParametersPatch
		if err := param.Binding(r, &patch); err != nil {
			render.BadRequest(w, err)
			return
		}

		snapshot, err := params.Update(ctx, &patch)
		if err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("update parameters")
			render.Error(w, err)
			return
		}

		render.JSON(w, snapshot)
	}
}
