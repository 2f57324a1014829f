/*
Package books implements the book catalogue: entities, storage contract, and
business rules.

Books have no ownership model: any authenticated active user may write and
anyone may read. Deletion is physical, not soft.
*/
package books

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book represents a catalogue record.
type Book struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Author      string             `bson:"author" json:"author"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// ListQuery holds the parameters for a paginated book search.
type ListQuery struct {
	// Keyword is a case-insensitive substring filter over the name field.
	Keyword string
	// OrderBy is one of the allow-listed sort fields.
	OrderBy string
	// Desc selects descending order.
	Desc bool
}

// Allow-listed sort fields and defaults for the list endpoint.
const (
	DefaultLimit   = 5
	DefaultOrderBy = "name"
)

// OrderFields are the only accepted order_by values.
var OrderFields = []string{"name", "author", "price", "created_at", "updated_at"}

// Global field names for validation
const (
	FieldName        = "name"
	FieldAuthor      = "author"
	FieldPrice       = "price"
	FieldDescription = "description"
	FieldOrderBy     = "order_by"
	FieldSortBy      = "sort_by"
)
