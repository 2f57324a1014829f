// Copyright (c) 2026 Ultimate Library. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fabinnerself/ultimate-library/internal/platform/apperr"
	"github.com/fabinnerself/ultimate-library/internal/platform/ctxutil"
	"github.com/fabinnerself/ultimate-library/internal/platform/identity"
	"github.com/fabinnerself/ultimate-library/internal/platform/validate"
)

// DecodeJSON reads the request body and decodes it into the target structure.
//
// Returns [validate.ErrInvalidJSON] if decoding fails.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// ID retrieves a named URL parameter from the request.
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Principal extracts the authenticated principal from the request context.
//
// Returns nil if the request is anonymous.
func Principal(request *http.Request) *identity.Authenticated {
	return ctxutil.GetPrincipal(request.Context())
}

// ActivePrincipal ensures the request carries an authenticated, active
// principal and returns the narrowed capability.
func ActivePrincipal(request *http.Request) (identity.Active, error) {
	principal := ctxutil.GetPrincipal(request.Context())
	if principal == nil {
		return identity.Active{}, apperr.Unauthenticated("Not authenticated")
	}
	return principal.Active()
}

// AdminPrincipal ensures the request carries an authenticated, active, admin
// principal and returns the narrowed capability.
func AdminPrincipal(request *http.Request) (identity.Admin, error) {
	active, err := ActivePrincipal(request)
	if err != nil {
		return identity.Admin{}, err
	}
	return active.Admin()
}
