// Copyright (c) 2026 Ultimate Library. All rights reserved.

package users

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fabinnerself/ultimate-library/internal/platform/apperr"
	"github.com/fabinnerself/ultimate-library/internal/platform/mongodb"
	"github.com/fabinnerself/ultimate-library/internal/platform/sec"
	"github.com/fabinnerself/ultimate-library/pkg/pointer"
)

// fakeRepository is an in-memory Repository for service tests. It mirrors
// the store contract: soft-deleted users exist but never resolve.
type fakeRepository struct {
	users map[string]*User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: map[string]*User{}}
}

func (f *fakeRepository) List(ctx context.Context, query ListQuery, skip, limit int64) ([]*User, int64, error) {
	matched := make([]*User, 0)
	for _, user := range f.users {
		if user.IsDeleted {
			continue
		}
		if query.Role != "" && string(user.Role) != query.Role {
			continue
		}
		if query.IsActive != nil && user.IsActive != *query.IsActive {
			continue
		}
		matched = append(matched, user)
	}

	total := int64(len(matched))
	if skip >= total {
		return []*User{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return matched[skip:end], total, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id string) (*User, error) {
	user, ok := f.users[id]
	if !ok || user.IsDeleted {
		return nil, mongodb.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	for _, user := range f.users {
		if !user.IsDeleted && user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (f *fakeRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	for id, user := range f.users {
		if !user.IsDeleted && user.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) Create(ctx context.Context, user *User) error {
	user.ID = primitive.NewObjectID()
	copied := *user
	f.users[user.ID.Hex()] = &copied
	return nil
}

func (f *fakeRepository) Patch(ctx context.Context, id string, set map[string]interface{}) (*User, error) {
	user, ok := f.users[id]
	if !ok || user.IsDeleted {
		return nil, mongodb.ErrNotFound
	}
	for field, value := range set {
		switch field {
		case FieldName:
			user.Name = value.(string)
		case FieldLastname:
			user.Lastname = value.(string)
		case FieldEmail:
			user.Email = value.(string)
		case FieldPhone:
			user.Phone = value.(string)
		case FieldBirthday:
			user.Birthday = value.(string)
		case FieldAvatar:
			user.Avatar = value.(string)
		case FieldRole:
			user.Role = sec.UserRole(value.(string))
		case "hashed_password":
			user.HashedPassword = value.(string)
		case "last_login":
			stamp := value.(time.Time)
			user.LastLogin = &stamp
		}
	}
	copied := *user
	return &copied, nil
}

func (f *fakeRepository) SoftDelete(ctx context.Context, id string) error {
	user, ok := f.users[id]
	if !ok || user.IsDeleted {
		return mongodb.ErrNotFound
	}
	now := time.Now().UTC()
	user.IsDeleted = true
	user.IsActive = false
	user.DeletedAt = &now
	return nil
}

// fakeIssuer returns a canned token.
type fakeIssuer struct{}

func (fakeIssuer) Issue(subject string) (string, error) {
	return "token-for-" + subject, nil
}

func newTestService(t *testing.T) (*Service, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	return NewService(repo, fakeIssuer{}, slog.Default()), repo
}

func register(t *testing.T, service *Service, email string) *User {
	t.Helper()
	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "Ada",
		Lastname: "Lovelace",
		Email:    email,
		Password: "Secret123",
	})
	require.NoError(t, err)
	return user
}

func TestService_Register(t *testing.T) {
	service, _ := newTestService(t)

	t.Run("valid_input", func(t *testing.T) {
		user := register(t, service, "ada@example.com")
		assert.False(t, user.ID.IsZero())
		assert.Equal(t, sec.RoleUser, user.Role)
		assert.True(t, user.IsActive)
		assert.False(t, user.IsVerified)
		assert.NotEqual(t, "Secret123", user.HashedPassword)
		assert.True(t, sec.CheckPasswordHash("Secret123", user.HashedPassword))
	})

	t.Run("duplicate_email", func(t *testing.T) {
		_, err := service.Register(context.Background(), RegisterInput{
			Name:     "Other",
			Lastname: "Person",
			Email:    "ada@example.com",
			Password: "Secret123",
		})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
		assert.Equal(t, "Email already registered", ae.Message)
	})

	t.Run("weak_password", func(t *testing.T) {
		_, err := service.Register(context.Background(), RegisterInput{
			Name:     "Ada",
			Lastname: "Lovelace",
			Email:    "weak@example.com",
			Password: "short",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Password must be at least 8 characters long")
	})

	t.Run("invalid_role", func(t *testing.T) {
		_, err := service.Register(context.Background(), RegisterInput{
			Name:     "Ada",
			Lastname: "Lovelace",
			Email:    "role@example.com",
			Password: "Secret123",
			Role:     "superuser",
		})
		require.Error(t, err)
	})

	t.Run("explicit_role_honored", func(t *testing.T) {
		user, err := service.Register(context.Background(), RegisterInput{
			Name:     "Mod",
			Lastname: "Erator",
			Email:    "mod@example.com",
			Password: "Secret123",
			Role:     "moderator",
		})
		require.NoError(t, err)
		assert.Equal(t, sec.RoleModerator, user.Role)
	})
}

func TestService_Login(t *testing.T) {
	service, repo := newTestService(t)
	user := register(t, service, "ada@example.com")

	t.Run("valid_credentials", func(t *testing.T) {
		result, err := service.Login(context.Background(), "ada@example.com", "Secret123")
		require.NoError(t, err)
		assert.Equal(t, "token-for-ada@example.com", result.AccessToken)
		assert.Equal(t, "bearer", result.TokenType)
		assert.Equal(t, user.ID.Hex(), result.User.ID)

		// last_login is stamped on success.
		stored := repo.users[user.ID.Hex()]
		assert.NotNil(t, stored.LastLogin)
	})

	t.Run("unknown_email_and_wrong_password_look_identical", func(t *testing.T) {
		_, unknownErr := service.Login(context.Background(), "ghost@example.com", "Secret123")
		_, wrongErr := service.Login(context.Background(), "ada@example.com", "WrongPass1")

		require.Error(t, unknownErr)
		require.Error(t, wrongErr)
		assert.Equal(t, apperr.As(unknownErr).Message, apperr.As(wrongErr).Message)
		assert.Equal(t, http.StatusUnauthorized, apperr.As(unknownErr).HTTPStatus)
	})

	t.Run("deactivated_account", func(t *testing.T) {
		repo.users[user.ID.Hex()].IsActive = false
		defer func() { repo.users[user.ID.Hex()].IsActive = true }()

		_, err := service.Login(context.Background(), "ada@example.com", "Secret123")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
		assert.Equal(t, "User account is deactivated", ae.Message)
	})
}

func TestService_ResolveSubject(t *testing.T) {
	service, _ := newTestService(t)
	user := register(t, service, "ada@example.com")

	t.Run("resolves_live_account", func(t *testing.T) {
		principal, err := service.ResolveSubject(context.Background(), "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID.Hex(), principal.ID)
		assert.Equal(t, sec.RoleUser, principal.Role)
	})

	t.Run("soft_deleted_account_does_not_resolve", func(t *testing.T) {
		admin := register(t, service, "admin@example.com")
		require.NoError(t, service.Delete(context.Background(), admin.ID.Hex(), user.ID.Hex()))

		_, err := service.ResolveSubject(context.Background(), "ada@example.com")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
		assert.Equal(t, "Could not validate credentials", ae.Message)
	})
}

func TestService_Update(t *testing.T) {
	service, _ := newTestService(t)
	user := register(t, service, "ada@example.com")

	t.Run("partial_patch", func(t *testing.T) {
		updated, err := service.Update(context.Background(), user.ID.Hex(), UpdateInput{
			Phone: pointer.To("+59167712345"),
		})
		require.NoError(t, err)
		assert.Equal(t, "+59167712345", updated.Phone)
		assert.Equal(t, "Ada", updated.Name)
	})

	t.Run("empty_patch_rejected", func(t *testing.T) {
		_, err := service.Update(context.Background(), user.ID.Hex(), UpdateInput{})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "No fields to update", ae.Message)
	})

	t.Run("email_collision", func(t *testing.T) {
		register(t, service, "taken@example.com")

		_, err := service.Update(context.Background(), user.ID.Hex(), UpdateInput{
			Email: pointer.To("taken@example.com"),
		})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "Email already in use", ae.Message)
	})

	t.Run("keeping_own_email_is_not_a_collision", func(t *testing.T) {
		_, err := service.Update(context.Background(), user.ID.Hex(), UpdateInput{
			Email: pointer.To("ada@example.com"),
		})
		assert.NoError(t, err)
	})
}

func TestService_ChangePassword(t *testing.T) {
	service, _ := newTestService(t)
	user := register(t, service, "ada@example.com")

	t.Run("wrong_current_password", func(t *testing.T) {
		err := service.ChangePassword(context.Background(), user.ID.Hex(), "WrongPass1", "NewSecret1")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "Current password is incorrect", ae.Message)
	})

	t.Run("weak_new_password", func(t *testing.T) {
		err := service.ChangePassword(context.Background(), user.ID.Hex(), "Secret123", "weak")
		require.Error(t, err)
	})

	t.Run("successful_rotation", func(t *testing.T) {
		require.NoError(t, service.ChangePassword(context.Background(), user.ID.Hex(), "Secret123", "NewSecret1"))

		_, err := service.Login(context.Background(), "ada@example.com", "NewSecret1")
		assert.NoError(t, err)

		_, err = service.Login(context.Background(), "ada@example.com", "Secret123")
		assert.Error(t, err)
	})
}

func TestService_Delete(t *testing.T) {
	service, _ := newTestService(t)
	admin := register(t, service, "admin@example.com")
	target := register(t, service, "target@example.com")

	t.Run("self_delete_rejected_before_store", func(t *testing.T) {
		err := service.Delete(context.Background(), admin.ID.Hex(), admin.ID.Hex())
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
		assert.Equal(t, "Cannot delete your own account", ae.Message)
	})

	t.Run("soft_delete_frees_the_email", func(t *testing.T) {
		require.NoError(t, service.Delete(context.Background(), admin.ID.Hex(), target.ID.Hex()))

		// The record no longer resolves.
		_, err := service.Get(context.Background(), target.ID.Hex())
		assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

		// A fresh registration may reuse the freed address.
		reborn := register(t, service, "target@example.com")
		assert.NotEqual(t, target.ID, reborn.ID)
	})

	t.Run("already_deleted", func(t *testing.T) {
		err := service.Delete(context.Background(), admin.ID.Hex(), target.ID.Hex())
		assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
	})

	t.Run("malformed_id", func(t *testing.T) {
		err := service.Delete(context.Background(), admin.ID.Hex(), "not-an-id")
		assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
	})
}

func TestService_AdminSurface(t *testing.T) {
	service, _ := newTestService(t)
	user := register(t, service, "ada@example.com")

	t.Run("get_malformed_id", func(t *testing.T) {
		_, err := service.Get(context.Background(), "xyz")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "Invalid user ID", ae.Message)
	})

	t.Run("admin_update_can_change_role", func(t *testing.T) {
		updated, err := service.AdminUpdate(context.Background(), user.ID.Hex(), UpdateInput{
			Role: pointer.To("moderator"),
		})
		require.NoError(t, err)
		assert.Equal(t, sec.RoleModerator, updated.Role)
	})

	t.Run("list_filters_by_role", func(t *testing.T) {
		register(t, service, "plain@example.com")

		results, total, err := service.List(context.Background(), ListQuery{Role: "moderator"}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, results, 1)
		assert.Equal(t, user.ID, results[0].ID)
	})
}
