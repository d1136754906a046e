package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/gestao-urbana/backoffice-go/internal/domain/auth"
	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/database"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	user.UserRepository
	auth.RefreshTokenRepository
	jwt.Service
	tx     database.Transactor
	logger *slog.Logger
}

func NewAuthService(
	userRepo user.UserRepository,
	tokenRepo auth.RefreshTokenRepository,
	jwtService jwt.Service,
	tx database.Transactor,
	logger *slog.Logger,
) auth.AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthServiceImpl{
		UserRepository:         userRepo,
		RefreshTokenRepository: tokenRepo,
		Service:                jwtService,
		tx:                     tx,
		logger:                 logger,
	}
}

func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	u, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("get user by email: %w", err)
	}
	// Google-only accounts have no password.
	if u.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(ctx, u, session)
}

func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, email string, googleID string, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	u, err := a.UserRepository.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrUserNotFound
		}
		return auth.TokenResponse{}, fmt.Errorf("get user by email: %w", err)
	}

	if u.OAuthProviderID == nil || *u.OAuthProviderID != googleID {
		linked, err := a.UserRepository.LinkGoogleAccount(context.WithoutCancel(ctx), googleID, u.Email)
		if err != nil {
			return auth.TokenResponse{}, fmt.Errorf("link google account: %w", err)
		}
		u = linked
		a.logger.InfoContext(ctx, "google account linked", slog.String("user_id", u.ID))
	}

	return a.issueTokens(ctx, u, session)
}

func (a *AuthServiceImpl) issueTokens(ctx context.Context, u user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var resp auth.TokenResponse
	var err error

	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(u)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("create access token: %w", err)
	}
	resp.RefreshToken, resp.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("create refresh token: %w", err)
	}

	ctx = context.WithoutCancel(ctx)
	if err := a.RefreshTokenRepository.CreateRefreshToken(ctx, u.ID, resp.RefreshToken, resp.RefreshTokenExpiresIn, session); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("save refresh token: %w", err)
	}
	return resp, nil
}

func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	return a.withinTx(ctx, func(ctx context.Context) error {
		_, revoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(ctx, refreshToken)
		if err != nil {
			return fmt.Errorf("check refresh token: %w", err)
		}
		if revoked {
			return nil
		}
		if err := a.RefreshTokenRepository.RevokeRefreshToken(ctx, refreshToken); err != nil {
			return fmt.Errorf("revoke refresh token: %w", err)
		}
		return nil
	})
}

func (a *AuthServiceImpl) withinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if a.tx == nil {
		return fn(ctx)
	}
	return a.tx.WithinTx(ctx, fn)
}

func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	// Signature and expiry first, then type, then revocation.
	token, err := jwtauth.VerifyToken(a.Service.JWTAuth(), req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if typ, _ := claims["type"].(string); typ != jwt.TokenTypeRefresh {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	userID, revoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("check refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	u, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrUserNotFound
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(u)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("generate access token: %w", err)
	}
	return resp, nil
}

// Session reads the user fresh so grants changed since the token was minted
// apply immediately.
func (a *AuthServiceImpl) Session(ctx context.Context) (auth.Session, error) {
	ident, err := jwt.FromContext(ctx)
	if err != nil {
		return auth.Session{}, err
	}
	u, err := a.UserRepository.GetByID(ctx, ident.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.Session{}, auth.ErrUserNotFound
		}
		return auth.Session{}, fmt.Errorf("get user: %w", err)
	}
	return auth.Session{
		UserID:    u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CompanyID: u.CompanyID,
		Global:    u.Role.IsGlobal(),
		Sections:  u.Sections(),
	}, nil
}
