// Copyright (c) 2026 Ultimate Library. All rights reserved.

package users

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fabinnerself/ultimate-library/internal/platform/constants"
	"github.com/fabinnerself/ultimate-library/internal/platform/mongodb"
)

// MongoRepository implements [Repository] on top of the collection gateway.
type MongoRepository struct {
	users *mongodb.Collection[User]
}

// NewMongoRepository creates a user repository bound to the users collection.
func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{
		users: mongodb.NewCollection[User](database, constants.CollectionUsers),
	}
}

// notDeleted is the base filter every read starts from.
func notDeleted() bson.M {
	return bson.M{"is_deleted": false}
}

// List returns one page of non-deleted users plus the total count over the
// same filter.
func (repository *MongoRepository) List(ctx context.Context, query ListQuery, skip, limit int64) ([]*User, int64, error) {
	filter := notDeleted()

	if query.Keyword != "" {
		keyword := bson.M{"$regex": regexp.QuoteMeta(query.Keyword), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"name": keyword},
			bson.M{"lastname": keyword},
			bson.M{"email": keyword},
		}
	}
	if query.Role != "" {
		filter["role"] = query.Role
	}
	if query.IsActive != nil {
		filter["is_active"] = *query.IsActive
	}

	sort := mongodb.Sort{Field: query.OrderBy, Desc: query.Desc}

	results, err := repository.users.Find(ctx, filter, sort, skip, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := repository.users.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// FindByID returns the non-deleted user with the given hex ID.
func (repository *MongoRepository) FindByID(ctx context.Context, id string) (*User, error) {
	objectID, err := mongodb.ParseID(id)
	if err != nil {
		return nil, mongodb.ErrNotFound
	}

	filter := notDeleted()
	filter["_id"] = objectID
	return repository.users.FindOne(ctx, filter)
}

// FindByEmail returns the non-deleted user with the given email.
func (repository *MongoRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	filter := notDeleted()
	filter["email"] = email
	return repository.users.FindOne(ctx, filter)
}

// EmailTaken reports whether a non-deleted user other than excludeID already
// holds the email.
func (repository *MongoRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	filter := notDeleted()
	filter["email"] = email

	if excludeID != "" {
		objectID, err := mongodb.ParseID(excludeID)
		if err != nil {
			return false, mongodb.ErrNotFound
		}
		filter["_id"] = bson.M{"$ne": objectID}
	}

	count, err := repository.users.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create persists a brand-new account.
func (repository *MongoRepository) Create(ctx context.Context, user *User) error {
	insertedID, err := repository.users.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = insertedID
	return nil
}

// Patch applies the partial $set update to the non-deleted user and returns
// the post-update record.
func (repository *MongoRepository) Patch(ctx context.Context, id string, set map[string]interface{}) (*User, error) {
	objectID, err := mongodb.ParseID(id)
	if err != nil {
		return nil, mongodb.ErrNotFound
	}

	filter := notDeleted()
	filter["_id"] = objectID
	return repository.users.PatchOne(ctx, filter, bson.M(set))
}

// SoftDelete flags the account deleted without removing the document.
func (repository *MongoRepository) SoftDelete(ctx context.Context, id string) error {
	objectID, err := mongodb.ParseID(id)
	if err != nil {
		return mongodb.ErrNotFound
	}

	now := time.Now().UTC()
	filter := notDeleted()
	filter["_id"] = objectID

	return repository.users.UpdateOne(ctx, filter, bson.M{
		"is_deleted": true,
		"deleted_at": now,
		"is_active":  false,
		"updated_at": now,
	})
}
