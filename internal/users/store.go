// Copyright (c) 2026 Ultimate Library. All rights reserved.

package users

import "context"

// Repository defines the data access contract for user accounts.
//
// Every read, including the ones the auth pipeline performs, must exclude
// soft-deleted users; the document remains in storage but never resolves.
type Repository interface {
	// List returns one page of non-deleted users plus the total count over
	// the same filter.
	List(ctx context.Context, query ListQuery, skip, limit int64) ([]*User, int64, error)

	// FindByID returns the non-deleted user with the given hex ID.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the non-deleted user with the given email.
	// Comparison is literal; no case folding.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// EmailTaken reports whether a non-deleted user other than excludeID
	// already holds the email. Pass an empty excludeID for registration.
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)

	// Create persists a brand-new account; the generated ID is written back.
	Create(ctx context.Context, user *User) error

	// Patch applies a partial $set update to the non-deleted user and
	// returns the post-update record. Fields absent from set are untouched.
	Patch(ctx context.Context, id string, set map[string]interface{}) (*User, error)

	// SoftDelete flags the account deleted (is_deleted, deleted_at,
	// is_active=false, updated_at) without removing the document.
	SoftDelete(ctx context.Context, id string) error
}
