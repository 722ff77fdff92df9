package auth

import (
	"net/http"
	"strings"

	"lending/core"
	"lending/handler/render"
	"lending/handler/request"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	"github.com/twitchtv/twirp"
)

// HeaderUserID set by the authenticating gateway in front of the api
const HeaderUserID = "X-User-Id"

// HandleAuthentication handle authentication
func HandleAuthentication() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromContext(ctx)

			userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !govalidator.IsUUID(userID) {
				log.Debugln("ignore malformed user id", userID)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(request.NewContext(ctx).WithUser(userID)))
		}

		return http.HandlerFunc(fn)
	}
}

// HandleAuthorization reject anonymous requests
func HandleAuthorization() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if _, ok := request.NewContext(r.Context()).GetUser(); !ok {
				render.Error(w, twirp.NewError(twirp.Unauthenticated, "authentication required"))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

// HandleAdmin only admins in config pass
func HandleAdmin(cfg *core.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			userID, _ := request.NewContext(r.Context()).GetUser()
			if !cfg.IsAdmin(userID) {
				render.Error(w, core.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}
