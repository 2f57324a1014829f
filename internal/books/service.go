package books

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fabinnerself/ultimate-library/internal/platform/apperr"
	"github.com/fabinnerself/ultimate-library/internal/platform/mongodb"
	"github.com/fabinnerself/ultimate-library/internal/platform/validate"
)

// Service orchestrates business logic for the book catalogue.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns one page of books and the total matching count.
func (service *Service) List(ctx context.Context, query ListQuery, skip, limit int64) ([]*Book, int64, error) {
	return service.repo.List(ctx, query, skip, limit)
}

// Get returns a single book by ID.
//
// A malformed ID is a validation error before any store call; a well-formed
// but absent ID is a not-found error.
func (service *Service) Get(ctx context.Context, id string) (*Book, error) {
	if !mongodb.IsValidID(id) {
		return nil, apperr.ValidationError("Invalid book ID")
	}

	book, err := service.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, apperr.NotFound("Not Found")
		}
		return nil, err
	}
	return book, nil
}

// CreateInput holds the client-supplied fields for a new book. Any
// client-supplied ID is ignored by construction.
type CreateInput struct {
	Name        string
	Author      string
	Price       float64
	Description string
}

// Create validates and persists a new book, stamping both timestamps.
func (service *Service) Create(ctx context.Context, input CreateInput) (*Book, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 200).
		Required(FieldAuthor, input.Author).
		MaxLen(FieldAuthor, input.Author, 100).
		Positive(FieldPrice, input.Price).
		MaxLen(FieldDescription, input.Description, 1000)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	book := &Book{
		Name:        input.Name,
		Author:      input.Author,
		Price:       input.Price,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	service.logger.Info("book_created", slog.String("book_id", book.ID.Hex()), slog.String("name", book.Name))
	return book, nil
}

// UpdateInput holds the optional fields of a partial book update. Nil fields
// are not touched.
type UpdateInput struct {
	Name        *string
	Author      *string
	Price       *float64
	Description *string
}

// Update applies a partial update to the book.
//
// Only fields present in the input are validated and written. A patch with
// zero effective fields is a client error, not a no-op success.
func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*Book, error) {
	if !mongodb.IsValidID(id) {
		return nil, apperr.ValidationError("Invalid book ID")
	}

	validator := &validate.Validator{}
	set := map[string]interface{}{}

	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, 200)
		set[FieldName] = *input.Name
	}
	if input.Author != nil {
		validator.Required(FieldAuthor, *input.Author).MaxLen(FieldAuthor, *input.Author, 100)
		set[FieldAuthor] = *input.Author
	}
	if input.Price != nil {
		validator.Positive(FieldPrice, *input.Price)
		set[FieldPrice] = *input.Price
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, 1000)
		set[FieldDescription] = *input.Description
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if len(set) == 0 {
		return nil, apperr.ValidationError("No fields to update")
	}

	set["updated_at"] = time.Now().UTC()

	book, err := service.repo.Patch(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, apperr.NotFound("Not Found")
		}
		return nil, err
	}

	service.logger.Info("book_updated", slog.String("book_id", id))
	return book, nil
}

// Delete physically removes the book.
func (service *Service) Delete(ctx context.Context, id string) error {
	if !mongodb.IsValidID(id) {
		return apperr.ValidationError("Invalid book ID")
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return apperr.NotFound("Not Found")
		}
		return err
	}

	service.logger.Warn("book_deleted", slog.String("book_id", id))
	return nil
}
