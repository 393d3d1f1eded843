// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the duration a refresh token session remains valid.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random refresh token.
	RefreshTokenLength = 32
)

// # Field Identifiers

const (
	FieldLogin           = "login"
	FieldPassword        = "password"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
)
