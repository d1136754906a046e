package jwt

import (
	"context"
	"errors"

	"github.com/go-chi/jwtauth/v5"

	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
)

var (
	ErrMissingClaims  = errors.New("missing or invalid token claims")
	ErrCompanyMissing = errors.New("company_id claim is missing")
)

// Identity is the caller as described by a verified access token.
type Identity struct {
	UserID    string
	CompanyID string
	Role      user.Role
}

// Global reports whether the caller may see every company.
func (i Identity) Global() bool {
	return i.Role.IsGlobal()
}

// FromContext reads the identity placed in ctx by the jwtauth verifier.
func FromContext(ctx context.Context) (Identity, error) {
	if id, ok := ctx.Value(identityKey{}).(Identity); ok {
		return id, nil
	}
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil || claims == nil {
		return Identity{}, ErrMissingClaims
	}
	return identityFromClaims(claims)
}

// CompanyFromContext returns the tenant of the caller. Global callers may act
// on a company chosen per request through WithCompany.
func CompanyFromContext(ctx context.Context) (string, error) {
	if id, ok := ctx.Value(companyOverrideKey{}).(string); ok && id != "" {
		return id, nil
	}
	ident, err := FromContext(ctx)
	if err != nil {
		return "", err
	}
	if ident.CompanyID == "" {
		return "", ErrCompanyMissing
	}
	return ident.CompanyID, nil
}

type (
	companyOverrideKey struct{}
	identityKey        struct{}
)

// WithIdentity puts an already trusted identity in ctx. The CLI and tests use
// it in place of a verified token.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// WithCompany scopes ctx to companyID. Only middleware that has checked the
// caller is global, or trusted tooling, should call it.
func WithCompany(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, companyOverrideKey{}, companyID)
}

func identityFromClaims(claims map[string]interface{}) (Identity, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Identity{}, ErrMissingClaims
	}
	role, _ := claims["role"].(string)
	companyID, _ := claims["company_id"].(string)
	return Identity{UserID: userID, CompanyID: companyID, Role: user.Role(role)}, nil
}
