package handler

import (
	"net/http"

	"lending/core"
	"lending/handler/render"
	"lending/handler/rest"

	"github.com/go-chi/chi"
	"github.com/twitchtv/twirp"
)

// Server server
type Server struct {
	cfg          *core.Config
	lendings     core.LendingService
	bridges      core.BridgeService
	markets      core.MarketService
	params       core.ParameterStore
	transactions core.TransactionStore
}

// New new server function
func New(
	cfg *core.Config,
	lendings core.LendingService,
	bridges core.BridgeService,
	markets core.MarketService,
	params core.ParameterStore,
	transactions core.TransactionStore,
) Server {
	return Server{
		cfg:          cfg,
		lendings:     lendings,
		bridges:      bridges,
		markets:      markets,
		params:       params,
		transactions: transactions,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(render.WrapResponse(true))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, twirp.NotFoundError("not found"))
	})

	r.Mount("/", rest.Handle(s.cfg, s.lendings, s.bridges, s.markets, s.params, s.transactions))

	return r
}
