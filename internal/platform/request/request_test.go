// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/mangashelf/internal/platform/request"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
)

func TestQueryList(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/manga?genres=Action&genres=Drama,Comedy&genres=", nil)

	assert.Equal(t, []string{"Action", "Drama", "Comedy"}, requestutil.QueryList(request, "genres"))
	assert.Empty(t, requestutil.QueryList(request, "tags"))
}

/*
TestQueryList_Aliases merges the canonical parameter with its legacy spellings.
*/
func TestQueryList_Aliases(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/manga?exclude_countries=Japan&exclude_country_name=Korea", nil)

	assert.Equal(t, []string{"Japan", "Korea"}, requestutil.QueryList(request, "exclude_countries", "exclude_country_name"))
	assert.Equal(t, []string{"Korea"}, requestutil.QueryList(request, "missing", "exclude_country_name"))
}

func TestQueryBool_TriState(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    *bool
		wantErr bool
	}{
		{"absent", "/manga", nil, false},
		{"true", "/manga?decency=true", boolPtr(true), false},
		{"false", "/manga?decency=false", boolPtr(false), false},
		{"garbage", "/manga?decency=maybe", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, tt.url, nil)
			got, err := requestutil.QueryBool(request, "decency")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestQueryTriState ignores anything other than the exact literals true and false.
*/
func TestQueryTriState(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want *bool
	}{
		{"absent", "/manga", nil},
		{"true", "/manga?decency=true", boolPtr(true)},
		{"false", "/manga?decency=false", boolPtr(false)},
		{"yes", "/manga?decency=yes", nil},
		{"numeric", "/manga?decency=1", nil},
		{"uppercase", "/manga?decency=TRUE", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, tt.url, nil)
			assert.Equal(t, tt.want, requestutil.QueryTriState(request, "decency"))
		})
	}
}

func TestRequiredActor_Anonymous(t *testing.T) {
	request := httptest.NewRequest(http.MethodPost, "/", nil)
	_, err := requestutil.RequiredActor(request)
	assert.Error(t, err)
}

func TestRequiredActor_Authenticated(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "user-1", Username: "alice", Role: string(sec.RoleEditor)}
	request := httptest.NewRequest(http.MethodPost, "/", nil)
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))

	actor, err := requestutil.RequiredActor(request)
	require.NoError(t, err)
	assert.Equal(t, sec.Actor{UserID: "user-1", Username: "alice", Role: sec.RoleEditor}, actor)
}

func boolPtr(v bool) *bool { return &v }
