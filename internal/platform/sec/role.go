// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can moderate comments and users in addition to editor rights
	RoleModerator UserRole = "moderator"

	// Content manager: maintains reference data, manga, chapters and pages
	RoleEditor UserRole = "editor"

	// Default role for registered readers
	RoleMember UserRole = "member"
)

// IsValid reports whether r is one of the known roles.
func (r UserRole) IsValid() bool {
	return r.level() > 0
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 40
	case RoleModerator:
		return 30
	case RoleEditor:
		return 20
	case RoleMember:
		return 10
	default:
		return 0
	}
}

// # Acting Principal

// Actor is the authenticated user on whose behalf a mutating operation runs.
// Services receive it explicitly instead of reading request state.
type Actor struct {
	UserID   string
	Username string
	Role     UserRole
}

// Owns reports whether the actor is the owner identified by userID.
func (a Actor) Owns(userID string) bool {
	return a.UserID != "" && a.UserID == userID
}

// CanManageContent reports whether the actor may edit catalogue content.
func (a Actor) CanManageContent() bool {
	return a.Role.AtLeast(RoleEditor)
}
