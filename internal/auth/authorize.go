package auth

import (
	"fmt"
	"net/http"

	"github.com/redmonkez12/storefront-api/internal/httputil"
	"github.com/redmonkez12/storefront-api/internal/logging"
)

// RoleSet is an immutable allow-list of role names
type RoleSet struct {
	roles map[string]struct{}
}

// NewRoleSet copies roles into a new set
func NewRoleSet(roles ...string) RoleSet {
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return RoleSet{roles: set}
}

func (s RoleSet) Contains(role string) bool {
	_, ok := s.roles[role]
	return ok
}

// RequireRoles only lets through requests whose attached principal has one of
// roles. It must run after RequireCustomer or RequireSeller.
func (a *Authenticator) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := NewRoleSet(roles...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			role := p.Role()

			if p.Kind != KindNone && allowed.Contains(role) {
				next.ServeHTTP(w, r)
				return
			}

			logged := role
			if p.Kind == KindNone {
				logged = "No Role"
			}
			logging.FromContext(r.Context(), a.logger).Warn("access denied", "role", logged)

			shown := role
			if shown == "" {
				shown = "User"
			}
			httputil.WriteError(w, httputil.Forbidden(httputil.CodeInsufficientRole,
				fmt.Sprintf("%s cannot access this resource!", shown)))
		})
	}
}
