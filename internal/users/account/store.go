// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"time"
)

// # User Data Access

// Repository defines persistence for accounts.
type Repository interface {

	/*
		Create inserts a new account.

		Returns:
		  - error: CONFLICT wrapping the unique violation, so callers can tell
		    the username, email and slug constraints apart
	*/
	Create(context context.Context, user *User) error

	// FindByID returns the account with the given ID.
	FindByID(context context.Context, id string) (*User, error)

	// FindBySlug returns the account with the given profile slug.
	FindBySlug(context context.Context, slug string) (*User, error)

	// FindByLogin returns the account whose username or email equals login.
	FindByLogin(context context.Context, login string) (*User, error)

	// Recent returns the newest accounts first.
	Recent(context context.Context, limit int) ([]*User, error)

	// UpdateProfile applies the non-nil fields of patch.
	UpdateProfile(context context.Context, id string, patch ProfilePatch) error

	// SetAvatar stores a new avatar ref and returns the previous one.
	SetAvatar(context context.Context, id, avatar string) (string, error)

	// UpdateEmail replaces the email and clears the verified flag.
	UpdateEmail(context context.Context, id, email string) error

	// UpdatePassword replaces the password hash.
	UpdatePassword(context context.Context, id, passwordHash string) error

	// MarkVerified sets the verified flag.
	MarkVerified(context context.Context, id string) error
}

// # Verification Tokens

// TokenStore keeps single-use verification tokens with a TTL.
type TokenStore interface {
	Set(context context.Context, token, userID string, ttl time.Duration) error

	// Take returns the user of a token and deletes it in one step.
	Take(context context.Context, token string) (string, error)
}
