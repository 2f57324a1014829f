// Copyright (c) 2026 Ultimate Library. All rights reserved.

package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fabinnerself/ultimate-library/internal/platform/apperr"
	"github.com/fabinnerself/ultimate-library/internal/platform/identity"
	"github.com/fabinnerself/ultimate-library/internal/platform/mongodb"
	"github.com/fabinnerself/ultimate-library/internal/platform/sec"
	"github.com/fabinnerself/ultimate-library/internal/platform/validate"
)

// TokenIssuer defines the contract for producing signed access tokens.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// Service implements user identity use cases.
//
// Any changes to hashing, registration, or login logic are security
// sensitive and reviewed accordingly.
type Service struct {
	repo   Repository
	tokens TokenIssuer
	logger *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(repo Repository, tokens TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Name     string
	Lastname string
	Email    string
	Password string
	Phone    string
	Birthday string
	Avatar   string
	Role     string
}

// Register validates, hashes, and persists a brand new user account.
//
// Email uniqueness is checked against non-deleted users with a literal
// comparison; the storage layer's partial unique index is the backstop for
// concurrent registrations.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	role := input.Role
	if role == "" {
		role = string(sec.RoleUser)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 50).
		Required(FieldLastname, input.Lastname).
		MaxLen(FieldLastname, input.Lastname, 50).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Password(FieldPassword, input.Password).
		OneOf(FieldRole, role, string(sec.RoleAdmin), string(sec.RoleUser), string(sec.RoleModerator)).
		MaxLen(FieldAvatar, input.Avatar, 500)

	if input.Phone != "" {
		validator.Phone(FieldPhone, input.Phone)
	}
	if input.Birthday != "" {
		validator.PastDate(FieldBirthday, input.Birthday)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	taken, err := service.repo.EmailTaken(ctx, input.Email, "")
	if err != nil {
		return nil, fmt.Errorf("users: registration email check: %w", err)
	}
	if taken {
		return nil, apperr.Conflict("Email already registered")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("users: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &User{
		Name:           input.Name,
		Lastname:       input.Lastname,
		Email:          input.Email,
		Phone:          input.Phone,
		Birthday:       input.Birthday,
		Avatar:         input.Avatar,
		Role:           sec.UserRole(role),
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsVerified:     false,
		IsDeleted:      false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := service.repo.Create(ctx, user); err != nil {
		// The unique index closes the check-then-insert race.
		if mongodb.IsDuplicateKey(err) {
			return nil, apperr.Conflict("Email already registered")
		}
		return nil, fmt.Errorf("users: create account: %w", err)
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID.Hex()))
	return user, nil
}

// # Authentication Flow

// LoginResult represents a successfully established session.
type LoginResult struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        Summary `json:"user"`
}

// Login validates credentials and issues an access token.
//
// Unknown email and wrong password produce the same generic message to
// prevent account enumeration. Deactivated accounts are rejected after the
// credential check, with a distinct client error.
func (service *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := service.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, apperr.Unauthenticated("Incorrect email or password")
		}
		return nil, fmt.Errorf("users: login lookup: %w", err)
	}

	if !sec.CheckPasswordHash(password, user.HashedPassword) {
		return nil, apperr.Unauthenticated("Incorrect email or password")
	}

	if !user.IsActive {
		return nil, apperr.InvalidState("User account is deactivated")
	}

	accessToken, err := service.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("users: issue token: %w", err)
	}

	// Stamp last_login; a failure here must not fail the login.
	if _, err := service.repo.Patch(ctx, user.ID.Hex(), map[string]interface{}{
		"last_login": time.Now().UTC(),
	}); err != nil {
		service.logger.Warn("last_login_stamp_failed", slog.String("user_id", user.ID.Hex()), slog.Any("error", err))
	}

	service.logger.Info("user_logged_in", slog.String("user_id", user.ID.Hex()))

	return &LoginResult{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User:        user.Summary(),
	}, nil
}

// ResolveSubject implements [identity.Resolver]: it loads the non-deleted
// user behind a verified token subject.
//
// A valid claim for a deleted account fails exactly like an invalid token.
func (service *Service) ResolveSubject(ctx context.Context, email string) (*identity.Authenticated, error) {
	user, err := service.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, apperr.Unauthenticated("Could not validate credentials")
		}
		return nil, fmt.Errorf("users: resolve subject: %w", err)
	}

	return &identity.Authenticated{Principal: identity.Principal{
		ID:       user.ID.Hex(),
		Email:    user.Email,
		Name:     user.Name,
		Lastname: user.Lastname,
		Role:     user.Role,
		IsActive: user.IsActive,
	}}, nil
}

// # Profile Management

// Profile returns the full (password-free) record of an account.
func (service *Service) Profile(ctx context.Context, userID string) (*User, error) {
	user, err := service.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("users: load profile: %w", err)
	}
	return user, nil
}

// UpdateInput holds the optional fields of a partial account update. Nil
// fields are not touched.
type UpdateInput struct {
	Name     *string
	Lastname *string
	Email    *string
	Phone    *string
	Birthday *string
	Avatar   *string
	// Role is honored only on the admin path; self-updates ignore it.
	Role *string
}

// Update applies a partial update to the account with the given ID.
//
// Only fields present in the input are validated and written; a patch with
// zero effective fields is a client error. On email change, uniqueness is
// re-checked against non-deleted users excluding the current record.
func (service *Service) Update(ctx context.Context, userID string, input UpdateInput) (*User, error) {
	validator := &validate.Validator{}
	set := map[string]interface{}{}

	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, 50)
		set[FieldName] = *input.Name
	}
	if input.Lastname != nil {
		validator.Required(FieldLastname, *input.Lastname).MaxLen(FieldLastname, *input.Lastname, 50)
		set[FieldLastname] = *input.Lastname
	}
	if input.Email != nil {
		validator.Required(FieldEmail, *input.Email).Email(FieldEmail, *input.Email)
		set[FieldEmail] = *input.Email
	}
	if input.Phone != nil {
		validator.Phone(FieldPhone, *input.Phone)
		set[FieldPhone] = *input.Phone
	}
	if input.Birthday != nil {
		validator.PastDate(FieldBirthday, *input.Birthday)
		set[FieldBirthday] = *input.Birthday
	}
	if input.Avatar != nil {
		validator.MaxLen(FieldAvatar, *input.Avatar, 500)
		set[FieldAvatar] = *input.Avatar
	}
	if input.Role != nil {
		validator.OneOf(FieldRole, *input.Role, string(sec.RoleAdmin), string(sec.RoleUser), string(sec.RoleModerator))
		set[FieldRole] = *input.Role
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if len(set) == 0 {
		return nil, apperr.ValidationError("No fields to update")
	}

	if input.Email != nil {
		taken, err := service.repo.EmailTaken(ctx, *input.Email, userID)
		if err != nil {
			return nil, fmt.Errorf("users: update email check: %w", err)
		}
		if taken {
			return nil, apperr.Conflict("Email already in use")
		}
	}

	set["updated_at"] = time.Now().UTC()

	user, err := service.repo.Patch(ctx, userID, set)
	if err != nil {
		if mongodb.IsDuplicateKey(err) {
			return nil, apperr.Conflict("Email already in use")
		}
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("users: update account: %w", err)
	}

	service.logger.Info("user_updated", slog.String("user_id", userID))
	return user, nil
}

// ChangePassword rotates the account password.
//
// The current password must verify against the stored hash before the new
// one is accepted. The new password is re-validated against the policy.
func (service *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := service.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return fmt.Errorf("users: change password lookup: %w", err)
	}

	if !sec.CheckPasswordHash(currentPassword, user.HashedPassword) {
		return apperr.ValidationError("Current password is incorrect")
	}

	validator := &validate.Validator{}
	validator.Password(FieldNewPassword, newPassword)
	if err := validator.Err(); err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("users: hash new password: %w", err)
	}

	if _, err := service.repo.Patch(ctx, userID, map[string]interface{}{
		"hashed_password": hashedPassword,
		"updated_at":      time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("users: change password update: %w", err)
	}

	service.logger.Info("user_password_changed", slog.String("user_id", userID))
	return nil
}

// # Admin Surface

// List returns one page of non-deleted users and the total matching count.
func (service *Service) List(ctx context.Context, query ListQuery, skip, limit int64) ([]*User, int64, error) {
	return service.repo.List(ctx, query, skip, limit)
}

// Get returns a single non-deleted user by ID.
func (service *Service) Get(ctx context.Context, id string) (*User, error) {
	if !mongodb.IsValidID(id) {
		return nil, apperr.ValidationError("Invalid user ID")
	}
	return service.Profile(ctx, id)
}

// AdminUpdate applies a partial update to an arbitrary account.
func (service *Service) AdminUpdate(ctx context.Context, id string, input UpdateInput) (*User, error) {
	if !mongodb.IsValidID(id) {
		return nil, apperr.ValidationError("Invalid user ID")
	}
	return service.Update(ctx, id, input)
}

// Delete soft-deletes the target account.
//
// An admin may not delete their own account; the self-delete check runs
// before any store call, so it rejects even when the target is absent.
func (service *Service) Delete(ctx context.Context, actorID, targetID string) error {
	if !mongodb.IsValidID(targetID) {
		return apperr.ValidationError("Invalid user ID")
	}

	if actorID == targetID {
		return apperr.ValidationError("Cannot delete your own account")
	}

	if err := service.repo.SoftDelete(ctx, targetID); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return fmt.Errorf("users: soft delete: %w", err)
	}

	service.logger.Warn("user_soft_deleted", slog.String("user_id", targetID), slog.String("actor_id", actorID))
	return nil
}
