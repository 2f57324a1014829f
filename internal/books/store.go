package books

import "context"

// Repository defines the data access contract for the book catalogue.
//
// The partial-update contract: Patch applies only the fields present in set;
// fields absent from set are never touched.
type Repository interface {
	List(ctx context.Context, query ListQuery, skip, limit int64) ([]*Book, int64, error)
	FindByID(ctx context.Context, id string) (*Book, error)
	Create(ctx context.Context, book *Book) error
	Patch(ctx context.Context, id string, set map[string]interface{}) (*Book, error)
	Delete(ctx context.Context, id string) error
}
