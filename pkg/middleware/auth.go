package middleware

import (
	"net/http"
	"strings"

	"github.com/danuartha/kopistore/pkg/auth"
	"github.com/danuartha/kopistore/pkg/response"
)

// RequireAuth validates the bearer token and stores the resolved identity
// in the request context for downstream handlers.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		ctx := auth.WithIdentity(r.Context(), auth.Identity{
			UserID:  claims.UserID,
			IsAdmin: claims.IsAdmin,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects non-admin callers. Must be wired after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromCtx(r.Context())
		if !ok {
			response.Unauthorized(w)
			return
		}
		if !id.IsAdmin {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
