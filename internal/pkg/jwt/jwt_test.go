package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
)

func newTestService() Service {
	return NewJWTService("test-secret", 15*time.Minute, 24*time.Hour, false)
}

func TestAccessTokenClaims(t *testing.T) {
	svc := newTestService()
	companyID := "company-1"

	token, exp, err := svc.GenerateAccessToken(user.User{ID: "u1", Email: "a@b.c", CompanyID: &companyID, Role: user.RoleManager})
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := parsed.AsMap(context.Background())
	require.NoError(t, err)

	ident, err := identityFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "u1", CompanyID: "company-1", Role: user.RoleManager}, ident)
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestAdminTokenHasNoCompany(t *testing.T) {
	svc := newTestService()
	token, _, err := svc.GenerateAccessToken(user.User{ID: "root", Role: user.RoleAdmin})
	require.NoError(t, err)

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), parsed, nil)

	ident, err := FromContext(ctx)
	require.NoError(t, err)
	assert.True(t, ident.Global())

	_, err = CompanyFromContext(ctx)
	assert.ErrorIs(t, err, ErrCompanyMissing)

	companyID, err := CompanyFromContext(WithCompany(ctx, "c9"))
	require.NoError(t, err)
	assert.Equal(t, "c9", companyID)
}

func TestSSEToken(t *testing.T) {
	svc := newTestService()
	token, expiresIn, err := svc.GenerateSSEToken(Identity{UserID: "u1", CompanyID: "c1", Role: user.RoleOwner})
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	ident, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "c1", ident.CompanyID)

	access, _, err := svc.GenerateAccessToken(user.User{ID: "u1", Role: user.RoleOwner})
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(access)
	assert.ErrorIs(t, err, ErrInvalidSSEToken)
}

func TestFromContextWithoutToken(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrMissingClaims)
}

func TestRefreshCookie(t *testing.T) {
	svc := newTestService()
	c := svc.RefreshTokenCookie("tok", time.Now().Add(time.Hour).Unix())
	assert.Equal(t, "refresh_token", c.Name)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, -1, svc.ClearRefreshTokenCookie().MaxAge)
}
