package http

import (
	"context"
	"net/http"

	"github.com/go-chi/render"
	"github.com/shortlyhq/shortly/internal/entity"
	"github.com/shortlyhq/shortly/pkg/response"
)

type contextKey struct {
	name string
}

var userContextKey = contextKey{"user"}

// requireUser authenticates the request's bearer credential and places the
// resolved local user in the request context. Requests without a valid
// credential are rejected with 401.
func requireUser(idSvc IdentityService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := idSvc.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.UnauthenticatedResponse)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userFromContext returns the user placed in the context by requireUser.
func userFromContext(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(userContextKey).(*entity.User)
	return user, ok
}
