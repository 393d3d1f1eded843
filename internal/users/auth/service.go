// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth issues and rotates the credentials that identify the acting user.

Login returns a short-lived RS256 access token and a long-lived refresh token.
The refresh token itself is never stored; Redis keeps its SHA-256 hash as the
session key. Each refresh consumes the old session and creates a new one, so
a replayed refresh token fails.

Accounts themselves belong to package account; this package only delegates.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/internal/users/account"
)

// # Contracts

// TokenProvider signs access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// Accounts is the subset of the account service used for authentication.
type Accounts interface {
	Register(context context.Context, input account.RegisterInput) (*account.User, error)
	Authenticate(context context.Context, login, password string) (*account.User, error)
	FindByID(context context.Context, id string) (*account.User, error)
	ChangePassword(context context.Context, actor sec.Actor, currentPassword, newPassword string) error
	VerifyEmail(context context.Context, token string) error
}

// Service implements the authentication use cases.
type Service struct {
	accounts Accounts
	sessions SessionStore
	tokens   TokenProvider
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs an auth [Service].
func NewService(accounts Accounts, sessions SessionStore, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{accounts: accounts, sessions: sessions, tokens: tokens, logger: logger, now: time.Now}
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login     string // username or email
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession is an issued pair of tokens.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *account.User
}

// Register creates an account. It does not log the user in.
func (service *Service) Register(context context.Context, input account.RegisterInput) (*account.User, error) {
	return service.accounts.Register(context, input)
}

/*
Login validates credentials and opens a session.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Access and refresh tokens
  - error: UNAUTHORIZED for unknown users and wrong passwords alike
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.accounts.Authenticate(context, input.Login, input.Password)
	if err != nil {
		return nil, err
	}

	session, err := service.issue(context, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_logged_in", slog.String("user_id", user.ID))
	return session, nil
}

/*
Refresh rotates a refresh token.

Description: The old session is consumed before the user is loaded, so two
concurrent refreshes with the same token cannot both succeed.

Returns:
  - *LoginSession: A new token pair
  - error: UNAUTHORIZED when the token is unknown, used or expired
*/
func (service *Service) Refresh(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	previous, err := service.sessions.Take(context, sec.HashToken(refreshToken))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized("Invalid or expired refresh token")
		}
		return nil, err
	}

	user, err := service.accounts.FindByID(context, previous.UserID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized("Account no longer exists")
		}
		return nil, err
	}

	return service.issue(context, user, userAgent, ipAddress)
}

// Logout ends the session of a refresh token. Unknown tokens are ignored.
func (service *Service) Logout(context context.Context, refreshToken string) error {
	session, err := service.sessions.Take(context, sec.HashToken(refreshToken))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil
		}
		return err
	}

	service.logger.Info("user_logged_out", slog.String("user_id", session.UserID))
	return nil
}

/*
ChangePassword updates the actor's password and signs out every other
session. The session of currentRefreshToken, if any, stays valid.
*/
func (service *Service) ChangePassword(context context.Context, actor sec.Actor, currentPassword, newPassword, currentRefreshToken string) error {
	if err := service.accounts.ChangePassword(context, actor, currentPassword, newPassword); err != nil {
		return err
	}

	keep := ""
	if currentRefreshToken != "" {
		keep = sec.HashToken(currentRefreshToken)
	}
	if err := service.sessions.RevokeOthers(context, actor.UserID, keep); err != nil {
		service.logger.Warn("session_revoke_failed", slog.String("user_id", actor.UserID), slog.Any("error", err))
	}
	return nil
}

// VerifyEmail redeems an email verification token.
func (service *Service) VerifyEmail(context context.Context, token string) error {
	return service.accounts.VerifyEmail(context, token)
}

func (service *Service) issue(context context.Context, user *account.User, userAgent, ipAddress string) (*LoginSession, error) {
	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_access_token_failed: %w", err))
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_refresh_token_failed: %w", err))
	}

	expiresAt := service.now().Add(RefreshTokenTTL)
	session := &Session{
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
	}
	if err := service.sessions.Create(context, sec.HashToken(refreshToken), session, RefreshTokenTTL); err != nil {
		return nil, apperr.Internal(err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}
