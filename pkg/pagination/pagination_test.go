// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangashelf/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"", 1, 20, 0},
		{"?page=3&limit=10", 3, 10, 20},
		{"?page=-1&limit=1000", 1, 20, 0},
		{"?page=abc&limit=xyz", 1, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			params := pagination.FromRequest(httptest.NewRequest(http.MethodGet, "/manga"+tt.query, nil))
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantOffset, params.Offset())
		})
	}
}

func TestMeta(t *testing.T) {
	meta := pagination.New(2, 20).Meta(41)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 0, pagination.NewMeta(1, 0, 5).TotalPages)
}

func TestMeta_HasNext(t *testing.T) {
	assert.True(t, pagination.NewMeta(1, 20, 21).HasNext)
	assert.False(t, pagination.NewMeta(2, 20, 21).HasNext)
	assert.False(t, pagination.NewMeta(1, 20, 0).HasNext)
}
