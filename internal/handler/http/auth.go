package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gestao-urbana/backoffice-go/internal/domain/auth"
	"github.com/gestao-urbana/backoffice-go/internal/handler/http/response"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/oauth"
)

const oauthStateCookie = "oauth_state"

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	LoginWithGoogle(w http.ResponseWriter, r *http.Request)
	OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Session(w http.ResponseWriter, r *http.Request)
	EventsToken(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService    jwt.Service
	authService   auth.AuthService
	googleService oauth.GoogleService
	frontendURL   string
	secureCookie  bool
}

// NewAuthHandler accepts a nil googleService when Google sign-in is not
// configured.
func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService, googleService oauth.GoogleService, frontendURL string, secureCookie bool) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:    jwtService,
		authService:   authService,
		googleService: googleService,
		frontendURL:   frontendURL,
		secureCookie:  secureCookie,
	}
}

func sessionTracking(r *http.Request) auth.SessionTrackingRequest {
	return auth.SessionTrackingRequest{IPAddress: r.RemoteAddr, UserAgent: r.UserAgent()}
}

func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokens, err := a.authService.Login(r.Context(), req, sessionTracking(r))
	if err != nil {
		slog.Warn("Login failed", "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokens.RefreshToken, tokens.RefreshTokenExpiresIn))
	response.Created(w, "User logged in successfully", tokens)
}

func (a *AuthHandlerImpl) LoginWithGoogle(w http.ResponseWriter, r *http.Request) {
	if a.googleService == nil {
		response.HandleError(w, auth.ErrOAuthDisabled)
		return
	}
	state, err := a.googleService.GenerateState()
	if err != nil {
		response.HandleError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/v1/auth/oauth/callback/google",
		Expires:  time.Now().Add(5 * time.Minute),
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, a.googleService.RedirectURL(state), http.StatusTemporaryRedirect)
}

func (a *AuthHandlerImpl) OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request) {
	redirectWithError := func(code string) {
		target := fmt.Sprintf("%s/auth/callback/google?error=%s", a.frontendURL, url.QueryEscape(code))
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	}
	if a.googleService == nil {
		redirectWithError("oauth_disabled")
		return
	}

	if errValue := r.URL.Query().Get("error"); errValue != "" {
		slog.Warn("Google OAuth callback error", "error", errValue)
		redirectWithError(errValue)
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	state := r.URL.Query().Get("state")
	if err != nil || cookie.Value == "" || state != cookie.Value || !a.googleService.ValidState(state) {
		slog.Warn("Google OAuth state rejected", "error", auth.ErrInvalidOAuthState)
		redirectWithError("state_mismatch")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		redirectWithError("code_empty")
		return
	}
	token, err := a.googleService.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("Google token exchange failed", "error", err)
		redirectWithError("token_exchange_failed")
		return
	}
	info, err := a.googleService.UserInfo(r.Context(), token)
	if err != nil {
		slog.Error("Google user info failed", "error", err)
		redirectWithError("user_verification_failed")
		return
	}
	if !info.VerifiedEmail {
		redirectWithError("email_not_verified")
		return
	}

	tokens, err := a.authService.LoginWithGoogle(r.Context(), info.Email, info.GoogleID, sessionTracking(r))
	if err != nil {
		slog.Warn("Google login rejected", "error", err)
		redirectWithError("login_failed")
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokens.RefreshToken, tokens.RefreshTokenExpiresIn))
	target := fmt.Sprintf("%s/auth/callback/google?access_token=%s&expires_in=%d",
		a.frontendURL,
		url.QueryEscape(tokens.AccessToken),
		tokens.AccessTokenExpiresIn,
	)
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		refreshToken = cookie.Value
	}
	if err := a.authService.Logout(r.Context(), refreshToken); err != nil {
		response.HandleError(w, err)
		return
	}
	http.SetCookie(w, a.jwtService.ClearRefreshTokenCookie())
	response.SuccessWithMessage(w, "User logged out successfully", nil)
}

func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshTokenRequest

	// Cookie first, JSON body as a fallback for non-browser clients.
	if cookie, err := r.Cookie("refresh_token"); err == nil && cookie.Value != "" {
		req.RefreshToken = cookie.Value
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Refresh Token decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokens, err := a.authService.RefreshToken(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Token refreshed successfully", tokens)
}

func (a *AuthHandlerImpl) Session(w http.ResponseWriter, r *http.Request) {
	session, err := a.authService.Session(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, session)
}

type eventsTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// EventsToken issues the short-lived token EventSource clients pass as ?token=.
func (a *AuthHandlerImpl) EventsToken(w http.ResponseWriter, r *http.Request) {
	ident, err := jwt.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if companyID, err := jwt.CompanyFromContext(r.Context()); err == nil {
		ident.CompanyID = companyID
	}
	token, expiresIn, err := a.jwtService.GenerateSSEToken(ident)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, eventsTokenResponse{Token: token, ExpiresIn: expiresIn})
}
