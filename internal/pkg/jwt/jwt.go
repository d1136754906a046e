package jwt

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
	TokenTypeSSE     = "sse"

	sseTokenLifetime = 5 * time.Minute
)

var ErrInvalidSSEToken = errors.New("invalid event stream token")

type Service interface {
	GenerateAccessToken(u user.User) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	// GenerateSSEToken issues a short-lived token for EventSource clients,
	// which cannot send an Authorization header.
	GenerateSSEToken(id Identity) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (Identity, error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	ClearRefreshTokenCookie() *http.Cookie
}

type JWTService struct {
	accessTokenLifetime  time.Duration
	refreshTokenLifetime time.Duration
	secureCookie         bool
	tokenAuth            *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenLifetime, refreshTokenLifetime time.Duration, secureCookie bool) Service {
	return &JWTService{
		accessTokenLifetime:  accessTokenLifetime,
		refreshTokenLifetime: refreshTokenLifetime,
		secureCookie:         secureCookie,
		tokenAuth:            jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(u user.User) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenLifetime).Unix()

	claims := map[string]interface{}{
		"user_id":    u.ID,
		"email":      u.Email,
		"company_id": valueOrNil(u.CompanyID),
		"role":       string(u.Role),
		"type":       TokenTypeAccess,
		"exp":        expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.refreshTokenLifetime).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"exp":     expiresAt,
		"type":    TokenTypeRefresh,
		// Distinguishes tokens minted within the same second.
		"iat_ns": time.Now().UnixNano(),
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) ClearRefreshTokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) GenerateSSEToken(id Identity) (token string, expiresIn int, err error) {
	expiresAt := time.Now().Add(sseTokenLifetime).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":    id.UserID,
		"company_id": id.CompanyID,
		"role":       string(id.Role),
		"type":       TokenTypeSSE,
		"exp":        expiresAt,
	})
	if err != nil {
		return "", 0, err
	}
	return tokenString, int(sseTokenLifetime.Seconds()), nil
}

func (j *JWTService) ValidateSSEToken(tokenString string) (Identity, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Identity{}, ErrInvalidSSEToken
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		return Identity{}, ErrInvalidSSEToken
	}
	if claims["type"] != TokenTypeSSE {
		return Identity{}, ErrInvalidSSEToken
	}
	return identityFromClaims(claims)
}

func valueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
