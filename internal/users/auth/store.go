// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// Session is the server-side state behind one refresh token.
type Session struct {
	UserID    string    `json:"user_id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
}

// # Session Data Access

// SessionStore keeps refresh-token sessions keyed by the token hash.
type SessionStore interface {

	/*
		Create stores a session that expires after ttl.

		Parameters:
		  - context: context.Context
		  - tokenHash: string (SHA-256 of the refresh token)
		  - session: *Session
		  - ttl: time.Duration
	*/
	Create(context context.Context, tokenHash string, session *Session, ttl time.Duration) error

	/*
		Take returns and deletes a session in one step, so a refresh token
		can be rotated at most once.

		Returns:
		  - *Session: The session
		  - error: apperr.NotFound when the token is unknown, used or expired
	*/
	Take(context context.Context, tokenHash string) (*Session, error)

	// RevokeOthers deletes every session of the user except keepHash.
	RevokeOthers(context context.Context, userID, keepHash string) error
}
