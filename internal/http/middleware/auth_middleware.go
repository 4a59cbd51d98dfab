package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/visatide/identity-service/internal/http/response"
	"github.com/visatide/identity-service/internal/security"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

// AuthMiddleware authenticates the request from its bearer token. Expired,
// malformed and tampered tokens all collapse to the same 401.
func AuthMiddleware(jwtMgr *security.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ""
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
				raw = strings.TrimSpace(auth[7:])
			}
			if raw == "" {
				response.Fail(w, r, http.StatusUnauthorized, response.SourceUnauthorized, "missing access token")
				return
			}
			claims, err := jwtMgr.Parse(raw)
			if err != nil {
				response.Fail(w, r, http.StatusUnauthorized, response.SourceUnauthorized, "invalid access token")
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*security.Claims, bool) {
	c, ok := ctx.Value(ClaimsContextKey).(*security.Claims)
	return c, ok
}
