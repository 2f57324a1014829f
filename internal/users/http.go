// Copyright (c) 2026 Ultimate Library. All rights reserved.

package users

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fabinnerself/ultimate-library/internal/platform/middleware"
	requestutil "github.com/fabinnerself/ultimate-library/internal/platform/request"
	"github.com/fabinnerself/ultimate-library/internal/platform/respond"
	"github.com/fabinnerself/ultimate-library/internal/platform/sec"
	"github.com/fabinnerself/ultimate-library/internal/platform/validate"
	"github.com/fabinnerself/ultimate-library/pkg/pagination"
)

// Handler implements the HTTP delivery layer for accounts and sessions.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AuthRoutes returns a [chi.Router] with the public session endpoints.
//
// # Endpoints
//   - POST /register : Enroll a new account.
//   - POST /login    : Exchange credentials for an access token.
func (handler *Handler) AuthRoutes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	return router
}

// Routes returns a [chi.Router] with the account endpoints.
//
// # Endpoints
//   - GET    /me          : Own profile (active principal).
//   - PUT    /me          : Partial self update (active principal).
//   - PUT    /me/password : Password rotation (active principal).
//   - GET    /            : Paginated list (admin).
//   - GET    /{id}        : Single fetch (admin).
//   - PUT    /{id}        : Partial update (admin).
//   - DELETE /{id}        : Soft delete (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self-service endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireActive)
		r.Get("/me", handler.profile)
		r.Put("/me", handler.updateProfile)
		r.Put("/me/password", handler.changePassword)
	})

	// Administrative endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/", handler.list)
		r.Get("/{id}", handler.get)
		r.Put("/{id}", handler.adminUpdate)
		r.Delete("/{id}", handler.delete)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Birthday string `json:"birthday"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateRequest struct {
	Name     *string `json:"name"`
	Lastname *string `json:"lastname"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Birthday *string `json:"birthday"`
	Avatar   *string `json:"avatar"`
	Role     *string `json:"role"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Lastname: input.Lastname,
		Email:    input.Email,
		Password: input.Password,
		Phone:    input.Phone,
		Birthday: input.Birthday,
		Avatar:   input.Avatar,
		Role:     input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "User registered successfully", user)
}

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Login successful", result)
}

func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.ActivePrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Profile(request.Context(), principal.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Ok", user)
}

func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.ActivePrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Role changes are an administrative concern.
	input.Role = nil

	user, err := handler.service.Update(request.Context(), principal.ID, UpdateInput{
		Name:     input.Name,
		Lastname: input.Lastname,
		Email:    input.Email,
		Phone:    input.Phone,
		Birthday: input.Birthday,
		Avatar:   input.Avatar,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Profile updated successfully", user)
}

func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.ActivePrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ChangePassword(request.Context(), principal.ID, input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Msg(writer, "Password changed successfully")
}

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
	user, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, "Ok", user)
}

func (handler *Handler) adminUpdate(writer http.ResponseWriter, request *http.Request) {
	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.AdminUpdate(request.Context(), requestutil.ID(request, "id"), UpdateInput{
		Name:     input.Name,
		Lastname: input.Lastname,
		Email:    input.Email,
		Phone:    input.Phone,
		Birthday: input.Birthday,
		Avatar:   input.Avatar,
		Role:     input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "User updated successfully", user)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.AdminPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), principal.ID, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Msg(writer, "User deleted successfully")
}

// parseListQuery validates the filtering and ordering parameters.
func parseListQuery(request *http.Request) (ListQuery, error) {
	values := request.URL.Query()

	orderBy := values.Get("order_by")
	if orderBy == "" {
		orderBy = DefaultOrderBy
	}

	sortBy := values.Get("sort_by")
	if sortBy == "" {
		sortBy = "desc"
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldOrderBy, orderBy, OrderFields...).
		OneOf(FieldSortBy, sortBy, "asc", "desc")

	role := values.Get("role")
	if role != "" {
		validator.OneOf(FieldRole, role, string(sec.RoleAdmin), string(sec.RoleUser), string(sec.RoleModerator))
	}

	var isActive *bool
	if raw := values.Get("is_active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			validator.Custom(FieldIsActive, true, "must be a boolean")
		} else {
			isActive = &parsed
		}
	}

	if err := validator.Err(); err != nil {
		return ListQuery{}, err
	}

	return ListQuery{
		Keyword:  values.Get("keyword"),
		Role:     role,
		IsActive: isActive,
		OrderBy:  orderBy,
		Desc:     sortBy == "desc",
	}, nil
}
