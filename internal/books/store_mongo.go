package books

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fabinnerself/ultimate-library/internal/platform/constants"
	"github.com/fabinnerself/ultimate-library/internal/platform/mongodb"
)

// MongoRepository implements [Repository] on top of the collection gateway.
type MongoRepository struct {
	books *mongodb.Collection[Book]
}

// NewMongoRepository creates a book repository bound to the books collection.
func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{
		books: mongodb.NewCollection[Book](database, constants.CollectionBooks),
	}
}

// List returns one page of books plus the total count over the same filter.
//
// The count is an independent query; a write landing between count and fetch
// is an accepted eventual-consistency window.
func (repository *MongoRepository) List(ctx context.Context, query ListQuery, skip, limit int64) ([]*Book, int64, error) {
	filter := bson.M{}
	if query.Keyword != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(query.Keyword), "$options": "i"}
	}

	sort := mongodb.Sort{Field: query.OrderBy, Desc: query.Desc}

	results, err := repository.books.Find(ctx, filter, sort, skip, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := repository.books.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// FindByID returns the book with the given hex ID, or [mongodb.ErrNotFound].
func (repository *MongoRepository) FindByID(ctx context.Context, id string) (*Book, error) {
	objectID, err := mongodb.ParseID(id)
	if err != nil {
		return nil, mongodb.ErrNotFound
	}
	return repository.books.FindOne(ctx, bson.M{"_id": objectID})
}

// Create persists a new book; the generated ID is written back to the entity.
func (repository *MongoRepository) Create(ctx context.Context, book *Book) error {
	insertedID, err := repository.books.InsertOne(ctx, book)
	if err != nil {
		return err
	}
	book.ID = insertedID
	return nil
}

// Patch applies the partial $set update and returns the post-update book.
func (repository *MongoRepository) Patch(ctx context.Context, id string, set map[string]interface{}) (*Book, error) {
	objectID, err := mongodb.ParseID(id)
	if err != nil {
		return nil, mongodb.ErrNotFound
	}
	return repository.books.PatchOne(ctx, bson.M{"_id": objectID}, bson.M(set))
}

// Delete physically removes the book, or returns [mongodb.ErrNotFound].
func (repository *MongoRepository) Delete(ctx context.Context, id string) error {
	objectID, err := mongodb.ParseID(id)
	if err != nil {
		return mongodb.ErrNotFound
	}
	return repository.books.DeleteOne(ctx, bson.M{"_id": objectID})
}
