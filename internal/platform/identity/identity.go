// Copyright (c) 2026 Ultimate Library. All rights reserved.

/*
Package identity models the resolved caller of a request as a chain of
increasingly constrained capability types.

The chain mirrors the authorization pipeline:

	bearer token → Authenticated → Active → Admin

Each narrowing step is a pure function that either returns the stronger
capability or a terminal [apperr.AppError]. A handler declares the minimum
capability it needs and never re-checks weaker guarantees.
*/
package identity

import (
	"context"

	"github.com/fabinnerself/ultimate-library/internal/platform/apperr"
	"github.com/fabinnerself/ultimate-library/internal/platform/sec"
)

// Principal is the identity of the caller as loaded from storage at request
// time. It is immutable for the duration of the request.
type Principal struct {
	ID       string
	Email    string
	Name     string
	Lastname string
	Role     sec.UserRole
	IsActive bool
}

// Authenticated is a principal whose bearer token verified and whose subject
// resolved to a non-deleted user record.
type Authenticated struct {
	Principal
}

// Active narrows [Authenticated]: the account's is_active flag is set.
type Active struct {
	Authenticated
}

// Admin narrows [Active]: the account holds the admin role.
type Admin struct {
	Active
}

// Active checks the account's active flag and returns the narrowed capability.
func (a Authenticated) Active() (Active, error) {
	if !a.IsActive {
		return Active{}, apperr.InvalidState("Inactive user")
	}
	return Active{a}, nil
}

// Admin checks the account's role and returns the narrowed capability.
func (a Active) Admin() (Admin, error) {
	if !a.Role.IsAdmin() {
		return Admin{}, apperr.Forbidden("Not enough permissions")
	}
	return Admin{a}, nil
}

// Resolver loads the principal for a verified token subject.
//
// Implementations must only resolve non-deleted users: a valid claim naming a
// deleted or renamed account fails with an unauthenticated error.
type Resolver interface {
	ResolveSubject(ctx context.Context, email string) (*Authenticated, error)
}
