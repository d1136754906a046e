package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/gestao-urbana/backoffice-go/internal/domain/auth"
	"github.com/gestao-urbana/backoffice-go/internal/handler/http/response"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
)

// AuthRequired admits only verified access tokens. Refresh and event-stream
// tokens are signed with the same key and must not open the API.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		if tokenType, ok := claims["type"].(string); !ok || tokenType != jwt.TokenTypeAccess {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		next.ServeHTTP(w, r)
	})
}
