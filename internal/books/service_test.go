package books

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fabinnerself/ultimate-library/internal/platform/apperr"
	"github.com/fabinnerself/ultimate-library/internal/platform/mongodb"
	"github.com/fabinnerself/ultimate-library/pkg/pointer"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	books map[string]*Book
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{books: map[string]*Book{}}
}

func (f *fakeRepository) List(ctx context.Context, query ListQuery, skip, limit int64) ([]*Book, int64, error) {
	matched := make([]*Book, 0)
	for _, book := range f.books {
		if query.Keyword != "" && !strings.Contains(strings.ToLower(book.Name), strings.ToLower(query.Keyword)) {
			continue
		}
		matched = append(matched, book)
	}
	sort.Slice(matched, func(i, j int) bool {
		if query.Desc {
			return matched[i].Name > matched[j].Name
		}
		return matched[i].Name < matched[j].Name
	})

	total := int64(len(matched))
	if skip >= total {
		return []*Book{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return matched[skip:end], total, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id string) (*Book, error) {
	book, ok := f.books[id]
	if !ok {
		return nil, mongodb.ErrNotFound
	}
	copied := *book
	return &copied, nil
}

func (f *fakeRepository) Create(ctx context.Context, book *Book) error {
	book.ID = primitive.NewObjectID()
	copied := *book
	f.books[book.ID.Hex()] = &copied
	return nil
}

func (f *fakeRepository) Patch(ctx context.Context, id string, set map[string]interface{}) (*Book, error) {
	book, ok := f.books[id]
	if !ok {
		return nil, mongodb.ErrNotFound
	}
	for field, value := range set {
		switch field {
		case FieldName:
			book.Name = value.(string)
		case FieldAuthor:
			book.Author = value.(string)
		case FieldPrice:
			book.Price = value.(float64)
		case FieldDescription:
			book.Description = value.(string)
		}
	}
	copied := *book
	return &copied, nil
}

func (f *fakeRepository) Delete(ctx context.Context, id string) error {
	if _, ok := f.books[id]; !ok {
		return mongodb.ErrNotFound
	}
	delete(f.books, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	return NewService(repo, slog.Default()), repo
}

func seedBook(t *testing.T, service *Service, name, author string, price float64) *Book {
	t.Helper()
	book, err := service.Create(context.Background(), CreateInput{
		Name:   name,
		Author: author,
		Price:  price,
	})
	require.NoError(t, err)
	return book
}

func TestService_Create(t *testing.T) {
	service, _ := newTestService(t)

	t.Run("valid_input", func(t *testing.T) {
		book, err := service.Create(context.Background(), CreateInput{
			Name:        "The Pragmatic Programmer",
			Author:      "Hunt & Thomas",
			Price:       39.99,
			Description: "A classic.",
		})
		require.NoError(t, err)
		assert.False(t, book.ID.IsZero())
		assert.Equal(t, book.CreatedAt, book.UpdatedAt)
	})

	t.Run("missing_required_fields", func(t *testing.T) {
		_, err := service.Create(context.Background(), CreateInput{Price: 10})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
		assert.Len(t, ae.Details, 2)
	})

	t.Run("non_positive_price", func(t *testing.T) {
		_, err := service.Create(context.Background(), CreateInput{
			Name:   "Free Book",
			Author: "Nobody",
			Price:  0,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Must be greater than 0")
	})
}

func TestService_Get(t *testing.T) {
	service, _ := newTestService(t)
	book := seedBook(t, service, "Dune", "Frank Herbert", 12.50)

	t.Run("found", func(t *testing.T) {
		got, err := service.Get(context.Background(), book.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, "Dune", got.Name)
	})

	t.Run("malformed_id", func(t *testing.T) {
		_, err := service.Get(context.Background(), "not-an-object-id")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	})

	t.Run("absent_id", func(t *testing.T) {
		_, err := service.Get(context.Background(), primitive.NewObjectID().Hex())
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
		assert.Equal(t, "Not Found", ae.Message)
	})
}

func TestService_Update(t *testing.T) {
	service, _ := newTestService(t)
	book := seedBook(t, service, "Dune", "Frank Herbert", 12.50)

	t.Run("partial_patch_touches_only_named_fields", func(t *testing.T) {
		updated, err := service.Update(context.Background(), book.ID.Hex(), UpdateInput{
			Price: pointer.To(15.00),
		})
		require.NoError(t, err)
		assert.Equal(t, 15.00, updated.Price)
		assert.Equal(t, "Dune", updated.Name)
		assert.Equal(t, "Frank Herbert", updated.Author)
	})

	t.Run("empty_patch_rejected", func(t *testing.T) {
		_, err := service.Update(context.Background(), book.ID.Hex(), UpdateInput{})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
		assert.Equal(t, "No fields to update", ae.Message)
	})

	t.Run("invalid_field_value", func(t *testing.T) {
		_, err := service.Update(context.Background(), book.ID.Hex(), UpdateInput{
			Name: pointer.To(""),
		})
		require.Error(t, err)
	})

	t.Run("absent_id", func(t *testing.T) {
		_, err := service.Update(context.Background(), primitive.NewObjectID().Hex(), UpdateInput{
			Price: pointer.To(9.99),
		})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	})
}

func TestService_Delete(t *testing.T) {
	service, _ := newTestService(t)
	book := seedBook(t, service, "Dune", "Frank Herbert", 12.50)

	require.NoError(t, service.Delete(context.Background(), book.ID.Hex()))

	// Physical delete: the record is gone, not hidden.
	_, err := service.Get(context.Background(), book.ID.Hex())
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)

	// Deleting again reports not found.
	err = service.Delete(context.Background(), book.ID.Hex())
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

func TestService_List(t *testing.T) {
	service, _ := newTestService(t)
	for _, name := range []string{"Dune", "Dune Messiah", "Hyperion", "Foundation"} {
		seedBook(t, service, name, "Author", 10)
	}

	t.Run("keyword_matches_name_only", func(t *testing.T) {
		results, total, err := service.List(context.Background(), ListQuery{Keyword: "dune", OrderBy: FieldName}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, results, 2)
		assert.Equal(t, "Dune", results[0].Name)
	})

	t.Run("pagination_window", func(t *testing.T) {
		results, total, err := service.List(context.Background(), ListQuery{OrderBy: FieldName}, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, results, 2)
	})

	t.Run("page_past_end_is_empty_not_error", func(t *testing.T) {
		results, total, err := service.List(context.Background(), ListQuery{OrderBy: FieldName}, 100, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Empty(t, results)
	})
}
