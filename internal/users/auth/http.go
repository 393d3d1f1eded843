// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/constants"
	"github.com/taibuivan/mangashelf/internal/platform/middleware"
	requestutil "github.com/taibuivan/mangashelf/internal/platform/request"
	"github.com/taibuivan/mangashelf/internal/platform/respond"
	"github.com/taibuivan/mangashelf/internal/platform/validate"
	"github.com/taibuivan/mangashelf/internal/users/account"
)

// # Definitions & Constructors

// Handler implements the authentication endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs an auth [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns the routes mounted under /auth.
//
// # Endpoints
//   - POST /register        : Creates an account.
//   - POST /login           : Issues an access token and a refresh cookie.
//   - POST /refresh         : Rotates the refresh cookie.
//   - POST /logout          : Ends the refresh cookie's session.
//   - POST /verify-email    : Redeems a verification token.
//   - POST /change-password : Authenticated; signs out other sessions.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)
	router.Post("/verify-email", handler.verifyEmail)

	router.With(middleware.RequireAuth).Post("/change-password", handler.changePassword)

	return router
}

// # Request Payloads

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*
POST /api/v1/auth/register

Request:
  - Body: {"username", "email", "password", "gender", "is_adult"}

Response:
  - 201: User
  - 400: VALIDATION_ERROR
  - 409: CONFLICT when the username or email is taken
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input account.RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, user)
}

/*
POST /api/v1/auth/login

Response:
  - 200: {"access_token", "token_type", "expires_in", "user"} plus the refresh cookie
  - 401: UNAUTHORIZED
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Login:     input.Login,
		Password:  input.Password,
		UserAgent: request.UserAgent(),
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session)
	respond.OK(writer, tokenResponse(session))
}

// refresh handles POST /api/v1/auth/refresh.
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token"))
		return
	}

	session, err := handler.authService.Refresh(request.Context(), cookie.Value, request.UserAgent(), middleware.RealIP(request))
	if err != nil {
		clearRefreshCookie(writer)
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session)
	respond.OK(writer, tokenResponse(session))
}

// logout handles POST /api/v1/auth/logout and always clears the cookie.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		if err := handler.authService.Logout(request.Context(), cookie.Value); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	clearRefreshCookie(writer)
	respond.NoContent(writer)
}

// verifyEmail handles POST /api/v1/auth/verify-email.
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	var input verifyEmailRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.VerifyEmail(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{FieldMessage: "Email verified successfully"})
}

// changePassword handles POST /api/v1/auth/change-password.
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := (&validate.Validator{}).Required(FieldCurrentPassword, input.CurrentPassword).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	currentToken := ""
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		currentToken = cookie.Value
	}

	err = handler.authService.ChangePassword(request.Context(), actor, input.CurrentPassword, input.NewPassword, currentToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{FieldMessage: "Password changed successfully"})
}

// # Helpers

func tokenResponse(session *LoginSession) map[string]any {
	return map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   int(AccessTokenTTL / time.Second),
		FieldUser:        session.User,
	}
}

// refreshCookie scopes the refresh token to the auth routes. A zero expiry
// deletes it.
func refreshCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    value,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  expires,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	if expires.IsZero() {
		cookie.MaxAge = -1
	}
	return cookie
}

func setRefreshCookie(writer http.ResponseWriter, session *LoginSession) {
	http.SetCookie(writer, refreshCookie(session.RefreshToken, session.RefreshTokenExpiresAt))
}

func clearRefreshCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, refreshCookie("", time.Time{}))
}
