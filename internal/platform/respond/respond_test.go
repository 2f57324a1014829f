// Copyright (c) 2026 Ultimate Library. All rights reserved.

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabinnerself/ultimate-library/internal/platform/apperr"
	"github.com/fabinnerself/ultimate-library/internal/platform/respond"
	"github.com/fabinnerself/ultimate-library/pkg/pagination"
)

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestOK(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.OK(recorder, "Ok", map[string]string{"name": "Dune"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))

	body := decode(t, recorder)
	assert.Equal(t, "Ok", body["msg"])
	assert.Equal(t, "Dune", body["data"].(map[string]any)["name"])
}

func TestMsg_OmitsData(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Msg(recorder, "User deleted successfully")

	body := decode(t, recorder)
	assert.Equal(t, "User deleted successfully", body["msg"])
	assert.NotContains(t, body, "data")
}

func TestList_FlattensMeta(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.List(recorder, []string{"a", "b"}, pagination.NewMeta(2, 5, 12))

	body := decode(t, recorder)
	assert.Equal(t, "Ok", body["msg"])
	assert.Equal(t, float64(12), body["totalItems"])
	assert.Equal(t, float64(3), body["totalPages"])
	assert.Equal(t, float64(5), body["limit"])
	assert.Equal(t, float64(2), body["currentPage"])
	assert.Len(t, body["data"], 2)
}

/*
TestError checks the single point where errors become status codes.
*/
func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not_found", apperr.NotFound("User not found"), http.StatusNotFound, "User not found"},
		{"unauthenticated", apperr.Unauthenticated("Not authenticated"), http.StatusUnauthorized, "Not authenticated"},
		{"forbidden", apperr.Forbidden("Not enough permissions"), http.StatusForbidden, "Not enough permissions"},
		{"conflict_maps_to_400", apperr.Conflict("Email already registered"), http.StatusBadRequest, "Email already registered"},
		{"invalid_state", apperr.InvalidState("Inactive user"), http.StatusBadRequest, "Inactive user"},
		{"internal_hides_cause", apperr.Internal(errors.New("driver exploded")), http.StatusInternalServerError, "An unexpected error occurred"},
		{"unknown_error_becomes_internal", errors.New("driver exploded"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest("GET", "/api/v1/users", nil)

			respond.Error(recorder, request, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			body := decode(t, recorder)
			assert.Equal(t, tt.wantMsg, body["msg"])
			// Raw causes never reach the client.
			assert.NotContains(t, recorder.Body.String(), "driver exploded")
		})
	}
}

func TestError_ValidationDetailsInMessage(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/v1/books", nil)

	respond.Error(recorder, request, apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: "name", Message: "Is required"},
		apperr.FieldError{Field: "price", Message: "Must be greater than 0"},
	))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decode(t, recorder)
	assert.Equal(t, "Validation failed: name: Is required; price: Must be greater than 0", body["msg"])
}
