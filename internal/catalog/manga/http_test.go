// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/catalog/manga"
)

func list(t *testing.T, target string) (*httptest.ResponseRecorder, manga.Filter) {
	t.Helper()
	service, repo, _ := newService()
	recorder := httptest.NewRecorder()
	manga.NewHandler(service).Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder, repo.lastFilter
}

/*
TestHandler_ListExcludeParams reads the plural exclusion parameters and
still honours the singular spellings.
*/
func TestHandler_ListExcludeParams(t *testing.T) {
	recorder, filter := list(t, "/?exclude_countries=Japan&exclude_categories=Manhwa&exclude_genres=Horror")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{"Japan"}, filter.ExcludeCountries)
	assert.Equal(t, []string{"Manhwa"}, filter.ExcludeCategories)
	assert.Equal(t, []string{"Horror"}, filter.ExcludeGenres)

	recorder, filter = list(t, "/?exclude_country_name=Korea&exclude_category=Manga")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{"Korea"}, filter.ExcludeCountries)
	assert.Equal(t, []string{"Manga"}, filter.ExcludeCategories)
}

/*
TestHandler_ListDecency applies the decency flag only for the literals true
and false; any other value lists without the filter.
*/
func TestHandler_ListDecency(t *testing.T) {
	recorder, filter := list(t, "/?decency=yes")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, filter.Decency)

	recorder, filter = list(t, "/?decency=false")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, filter.Decency)
	assert.False(t, *filter.Decency)
}
