// Copyright (c) 2026 Ultimate Library. All rights reserved.

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Reserved for community moderation; carries no extra API privileges yet
	RoleModerator UserRole = "moderator"

	// Default role for standard registered users
	RoleUser UserRole = "user"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// IsAdmin reports whether the role grants administrative access.
//
// Admin-only endpoints require exactly this role; moderators do not qualify.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}
