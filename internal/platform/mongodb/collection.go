// Copyright (c) 2026 Ultimate Library. All rights reserved.

package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a single-document lookup or update matches
// nothing. Services translate it into the resource-specific [apperr] kind.
var ErrNotFound = errors.New("mongodb: document not found")

// Sort describes a single-field sort. Pagination is offset-based; cursor
// pagination is out of scope.
type Sort struct {
	Field string
	Desc  bool
}

// spec returns the driver sort document.
func (s Sort) spec() bson.D {
	direction := 1
	if s.Desc {
		direction = -1
	}
	return bson.D{{Key: s.Field, Value: direction}}
}

// Collection is a typed gateway over a single MongoDB collection.
//
// It exposes the full contract a resource store needs (filtered find,
// paginated list, single find, insert, partial update, delete, count) and
// nothing else. Every operation is atomic only at the single-document level.
type Collection[T any] struct {
	coll *mongo.Collection
}

// NewCollection wraps the named collection of the database.
func NewCollection[T any](database *mongo.Database, name string) *Collection[T] {
	return &Collection[T]{coll: database.Collection(name)}
}

// Find returns the documents matching filter, sorted by sort, paginated with
// skip/limit. It always returns a non-nil slice.
func (c *Collection[T]) Find(ctx context.Context, filter interface{}, sort Sort, skip, limit int64) ([]*T, error) {
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(sort.spec())

	cursor, err := c.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb: find %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	results := make([]*T, 0, limit)
	for cursor.Next(ctx) {
		doc := new(T)
		if err := cursor.Decode(doc); err != nil {
			return nil, fmt.Errorf("mongodb: decode %s: %w", c.coll.Name(), err)
		}
		results = append(results, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongodb: cursor %s: %w", c.coll.Name(), err)
	}

	return results, nil
}

// FindOne returns the first document matching filter, or [ErrNotFound].
func (c *Collection[T]) FindOne(ctx context.Context, filter interface{}) (*T, error) {
	doc := new(T)
	err := c.coll.FindOne(ctx, filter).Decode(doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongodb: find one %s: %w", c.coll.Name(), err)
	}
	return doc, nil
}

// Count returns the number of documents matching filter.
func (c *Collection[T]) Count(ctx context.Context, filter interface{}) (int64, error) {
	count, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("mongodb: count %s: %w", c.coll.Name(), err)
	}
	return count, nil
}

// InsertOne persists the document and returns the generated ObjectID.
func (c *Collection[T]) InsertOne(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	result, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("mongodb: insert %s: %w", c.coll.Name(), err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("mongodb: insert %s: unexpected id type %T", c.coll.Name(), result.InsertedID)
	}
	return id, nil
}

// PatchOne applies a partial $set update to the first document matching
// filter and returns the post-update document, or [ErrNotFound].
//
// Only the fields present in set are touched; everything else is preserved.
func (c *Collection[T]) PatchOne(ctx context.Context, filter interface{}, set bson.M) (*T, error) {
	updateOptions := options.FindOneAndUpdate().SetReturnDocument(options.After)

	doc := new(T)
	err := c.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, updateOptions).Decode(doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongodb: patch %s: %w", c.coll.Name(), err)
	}
	return doc, nil
}

// UpdateOne applies a partial $set update without reading the document back.
// It returns [ErrNotFound] when the filter matches nothing.
func (c *Collection[T]) UpdateOne(ctx context.Context, filter interface{}, set bson.M) error {
	result, err := c.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("mongodb: update %s: %w", c.coll.Name(), err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOne physically removes the first document matching filter.
// It returns [ErrNotFound] when the filter matches nothing.
func (c *Collection[T]) DeleteOne(ctx context.Context, filter interface{}) error {
	result, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongodb: delete %s: %w", c.coll.Name(), err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// # ID Helpers

// IsValidID reports whether s is a well-formed ObjectID hex string.
//
// Handlers validate the format before any store call so malformed IDs
// surface as a 400, distinct from a 404 for a well-formed absent ID.
func IsValidID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}

// ParseID converts a hex string into an ObjectID.
func ParseID(s string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(s)
}

// IsDuplicateKey reports whether err is a unique-index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
