// Copyright (c) 2026 Ultimate Library. All rights reserved.

/*
Package users implements the user identity layer: registration, login,
profile management, and the admin surface.

# Architecture

Entities defined here are the "truth" of the system. The password hash is
never serialized into a response, never logged, and never reversible.
Accounts are soft-deleted: flagged and excluded from every read and auth
path, but retained in storage.
*/
package users

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fabinnerself/ultimate-library/internal/platform/sec"
)

// User represents a registered account.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Lastname       string             `bson:"lastname" json:"lastname"`
	Email          string             `bson:"email" json:"email"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Birthday       string             `bson:"birthday,omitempty" json:"birthday,omitempty"`
	Avatar         string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Role           sec.UserRole       `bson:"role" json:"role"`
	HashedPassword string             `bson:"hashed_password" json:"-"` // Explicitly omitted from JSON for security.
	IsActive       bool               `bson:"is_active" json:"is_active"`
	IsVerified     bool               `bson:"is_verified" json:"is_verified"`
	IsDeleted      bool               `bson:"is_deleted" json:"-"`
	LastLogin      *time.Time         `bson:"last_login" json:"last_login"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
	DeletedAt      *time.Time         `bson:"deleted_at,omitempty" json:"-"` // soft-delete tracker
}

// Summary is the compact user representation embedded in the login response.
type Summary struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Lastname string       `json:"lastname"`
	Email    string       `json:"email"`
	Role     sec.UserRole `json:"role"`
}

// Summary returns the compact representation of the user.
func (u *User) Summary() Summary {
	return Summary{
		ID:       u.ID.Hex(),
		Name:     u.Name,
		Lastname: u.Lastname,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// ListQuery holds the parameters for a paginated, filtered user search.
type ListQuery struct {
	// Keyword is a case-insensitive substring filter over name, lastname, and email.
	Keyword string
	// Role restricts results to a single role when non-empty.
	Role string
	// IsActive restricts results by active flag when non-nil.
	IsActive *bool
	// OrderBy is one of the allow-listed sort fields.
	OrderBy string
	// Desc selects descending order.
	Desc bool
}

// Allow-listed sort fields and defaults for the admin list endpoint.
const (
	DefaultLimit   = 10
	DefaultOrderBy = "created_at"
)

// OrderFields are the only accepted order_by values.
var OrderFields = []string{"name", "lastname", "email", "created_at", "updated_at"}

// Global field names for validation and patch construction
const (
	FieldName            = "name"
	FieldLastname        = "lastname"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldBirthday        = "birthday"
	FieldAvatar          = "avatar"
	FieldRole            = "role"
	FieldPassword        = "password"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldOrderBy         = "order_by"
	FieldSortBy          = "sort_by"
	FieldIsActive        = "is_active"
)
