package middleware

import (
	"context"
	"net/http"

	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
	"github.com/gestao-urbana/backoffice-go/internal/handler/http/response"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
)

// RequireGlobal admits platform admins only.
func RequireGlobal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, err := jwt.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		if !ident.Global() {
			response.HandleError(w, user.ErrInsufficientPermissions)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserLookup resolves the stored grants of the caller.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// Capabilities builds per-section guards. Grants are read per request so a
// revoked section closes without waiting for the token to expire.
type Capabilities struct {
	users UserLookup
}

func NewCapabilities(users UserLookup) *Capabilities {
	return &Capabilities{users: users}
}

func (c *Capabilities) Require(capability user.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := jwt.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}
			if ident.Global() {
				next.ServeHTTP(w, r)
				return
			}
			u, err := c.users.GetByID(r.Context(), ident.UserID)
			if err != nil {
				response.HandleError(w, err)
				return
			}
			if !u.Sections().Has(capability) {
				response.Forbidden(w, "Section "+string(capability)+" is not available to this user")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
