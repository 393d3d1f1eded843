// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account owns user identities and public profiles.

# Slugs

Every user gets a URL slug derived from the username. When the slug is
already taken the next candidate (alice-2, alice-3, ...) is tried; the clash
is detected from the unique violation raised by the insert, never from a
pre-query, so two concurrent registrations cannot both win the same slug.
A taken username is a hard conflict.

# Email verification

Changing the email marks the account unverified and issues a single-use
token kept in Redis until it is consumed or expires.
*/
package account

import (
	"time"

	"github.com/taibuivan/mangashelf/internal/platform/sec"
)

// Gender is the self-declared gender shown on a profile.
type Gender string

const (
	GenderMale         Gender = "Male"
	GenderFemale       Gender = "Female"
	GenderNotSpecified Gender = "Not Specified"
)

// Genders lists every accepted [Gender].
var Genders = []string{string(GenderMale), string(GenderFemale), string(GenderNotSpecified)}

// User is a registered account.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Gender       Gender       `json:"gender"`
	IsAdult      bool         `json:"is_adult"`
	Avatar       string       `json:"-"`
	AvatarURL    string       `json:"avatar_url"`
	Slug         string       `json:"slug"`
	Role         sec.UserRole `json:"role"`
	IsVerified   bool         `json:"is_verified"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Profile is the public view of a [User].
type Profile struct {
	Username  string    `json:"username"`
	Slug      string    `json:"slug"`
	Gender    Gender    `json:"gender"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Public strips private fields.
func (user *User) Public() *Profile {
	return &Profile{
		Username:  user.Username,
		Slug:      user.Slug,
		Gender:    user.Gender,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

// Actor returns the principal acting as this user.
func (user *User) Actor() sec.Actor {
	return sec.Actor{UserID: user.ID, Username: user.Username, Role: user.Role}
}

// RegisterInput holds the data required to create an account.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Gender   Gender `json:"gender"`
	IsAdult  bool   `json:"is_adult"`
}

// ProfilePatch updates the editable profile fields. Nil fields are kept.
type ProfilePatch struct {
	Gender  *Gender `json:"gender"`
	IsAdult *bool   `json:"is_adult"`
}

// # Field Identifiers

const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldGender   = "gender"
	FieldAvatar   = "avatar"
	FieldToken    = "token"
)

const (
	AvatarDir = "users/avatars"

	minUsernameLength = 3
	maxUsernameLength = 150
	maxEmailLength    = 254
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72

	// VerificationTokenTTL bounds how long an email verification link works.
	VerificationTokenTTL    = 24 * time.Hour
	verificationTokenLength = 32
)
