package books

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fabinnerself/ultimate-library/internal/platform/middleware"
	requestutil "github.com/fabinnerself/ultimate-library/internal/platform/request"
	"github.com/fabinnerself/ultimate-library/internal/platform/respond"
	"github.com/fabinnerself/ultimate-library/internal/platform/validate"
	"github.com/fabinnerself/ultimate-library/pkg/pagination"
)

// Handler implements the HTTP delivery layer for the book catalogue.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the book endpoints.
//
// # Endpoints
//   - GET    /        : Public paginated list.
//   - GET    /{id}    : Public single fetch.
//   - POST   /        : Create (active principal).
//   - PUT    /{id}    : Partial update (active principal).
//   - DELETE /{id}    : Physical delete (active principal).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireActive)
		r.Post("/", handler.create)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
	})

	return router
}

// # Request Payloads

type createRequest struct {
	Name        string  `json:"name"`
	Author      string  `json:"author"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

type updateRequest struct {
	Name        *string  `json:"name"`
	Author      *string  `json:"author"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
}

// list handles GET /books with pagination, ordering, and keyword search.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request, DefaultLimit)

	query, err := parseListQuery(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	results, total, err := handler.service.List(request.Context(), query, int64(params.Skip()), int64(params.Limit))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, results, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	book, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, "Ok", book)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.Create(request.Context(), CreateInput{
		Name:        input.Name,
		Author:      input.Author,
		Price:       input.Price,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Ok", book)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), UpdateInput{
		Name:        input.Name,
		Author:      input.Author,
		Price:       input.Price,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Ok", book)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Msg(writer, "Ok")
}

// parseListQuery validates the ordering parameters against the allow-list.
func parseListQuery(request *http.Request) (ListQuery, error) {
	values := request.URL.Query()

	orderBy := values.Get("order_by")
	if orderBy == "" {
		orderBy = DefaultOrderBy
	}

	sortBy := values.Get("sort_by")
	if sortBy == "" {
		sortBy = "asc"
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldOrderBy, orderBy, OrderFields...).
		OneOf(FieldSortBy, sortBy, "asc", "desc")
	if err := validator.Err(); err != nil {
		return ListQuery{}, err
	}

	return ListQuery{
		Keyword: values.Get("keyword"),
		OrderBy: orderBy,
		Desc:    sortBy == "desc",
	}, nil
}
