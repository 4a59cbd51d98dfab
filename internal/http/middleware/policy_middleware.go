package middleware

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/visatide/identity-service/internal/http/response"
	"github.com/visatide/identity-service/internal/security"
)

// forbiddenMessage is deliberately uniform: a 403 never reveals which rule
// rejected the request.
const forbiddenMessage = "You do not have permission to perform this action"

// AccessPolicy is a declarative per-route authorization rule evaluated
// against the authenticated claims.
type AccessPolicy interface {
	Allows(claims *security.Claims, r *http.Request) bool
}

type adminOnly struct{}

func (adminOnly) Allows(claims *security.Claims, _ *http.Request) bool {
	return claims.IsAdmin
}

// AdminOnly admits only callers with the admin flag.
func AdminOnly() AccessPolicy { return adminOnly{} }

type selfOnly struct{ param string }

func (p selfOnly) Allows(claims *security.Claims, r *http.Request) bool {
	return pathUserID(r, p.param) == claims.UserID
}

// SelfOnly admits only the user the route targets; admins get no bypass.
func SelfOnly(param string) AccessPolicy { return selfOnly{param: param} }

type adminOrSelf struct{ param string }

func (p adminOrSelf) Allows(claims *security.Claims, r *http.Request) bool {
	return claims.IsAdmin || pathUserID(r, p.param) == claims.UserID
}

// AdminOrSelf admits the targeted user or any admin.
func AdminOrSelf(param string) AccessPolicy { return adminOrSelf{param: param} }

type roleIn struct{ roles map[string]struct{} }

func (p roleIn) Allows(claims *security.Claims, _ *http.Request) bool {
	_, ok := p.roles[claims.Role]
	return ok
}

// RoleIn admits callers whose role is in the allowed set.
func RoleIn(roles ...string) AccessPolicy {
	set := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return roleIn{roles: set}
}

// RequirePolicy evaluates one policy after authentication.
func RequirePolicy(policy AccessPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Fail(w, r, http.StatusUnauthorized, response.SourceUnauthorized, "missing auth context")
				return
			}
			if !policy.Allows(claims, r) {
				response.Fail(w, r, http.StatusForbidden, response.SourceForbidden, forbiddenMessage)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func pathUserID(r *http.Request, param string) uint {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
