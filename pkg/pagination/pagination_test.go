// Copyright (c) 2026 Ultimate Library. All rights reserved.

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fabinnerself/ultimate-library/pkg/pagination"
)

/*
TestFromRequest covers parsing and clamping of page and limit parameters.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/books", 1, 5},
		{"explicit_values", "/books?page=3&limit=20", 3, 20},
		{"zero_page", "/books?page=0", 1, 5},
		{"negative_page", "/books?page=-2", 1, 5},
		{"zero_limit", "/books?limit=0", 1, 5},
		{"limit_over_max", "/books?limit=500", 1, 5},
		{"garbage_values", "/books?page=abc&limit=xyz", 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", tt.url, nil)
			params := pagination.FromRequest(request, 5)

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

/*
TestParams_Skip verifies the page-to-offset math.
*/
func TestParams_Skip(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 5}.Skip())
	assert.Equal(t, 5, pagination.Params{Page: 2, Limit: 5}.Skip())
	assert.Equal(t, 20, pagination.Params{Page: 3, Limit: 10}.Skip())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 10}.Skip())
}

/*
TestNewMeta verifies total page math from independent counts.
*/
func TestNewMeta(t *testing.T) {
	// 12 records at 5 per page is 3 pages.
	meta := pagination.NewMeta(2, 5, 12)
	assert.Equal(t, int64(12), meta.TotalItems)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 5, meta.Limit)
	assert.Equal(t, 2, meta.CurrentPage)

	// Exact division.
	assert.Equal(t, 2, pagination.NewMeta(1, 5, 10).TotalPages)

	// No records.
	assert.Equal(t, 0, pagination.NewMeta(1, 5, 0).TotalPages)
}
