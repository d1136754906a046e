package middleware

import (
	"net/http"

	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
	"github.com/gestao-urbana/backoffice-go/internal/handler/http/response"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
)

// CompanyHeader lets global admins pick the company a request acts on.
const CompanyHeader = "X-Company-ID"

// CompanyScope applies CompanyHeader for global callers. Anyone else naming a
// company other than their own is refused.
func CompanyScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested := r.Header.Get(CompanyHeader)
		if requested == "" {
			next.ServeHTTP(w, r)
			return
		}
		ident, err := jwt.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		if !ident.Global() {
			if requested != ident.CompanyID {
				response.HandleError(w, user.ErrInsufficientPermissions)
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(jwt.WithCompany(r.Context(), requested)))
	})
}

// RequireCompany refuses requests that resolve to no company.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := jwt.CompanyFromContext(r.Context()); err != nil {
			response.HandleError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
