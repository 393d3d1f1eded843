// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/catalog/manga"
	"github.com/taibuivan/mangashelf/internal/platform/constants"
	"github.com/taibuivan/mangashelf/pkg/pointer"
)

/*
TestBuildListQuery_NoFilter checks that an empty filter adds no predicates and
only binds pagination.
*/
func TestBuildListQuery_NoFilter(t *testing.T) {
	query, args := manga.BuildListQuery(manga.Filter{}, 20, 40)

	assert.NotContains(t, query, "EXISTS")
	assert.NotContains(t, query, "ILIKE")
	assert.Contains(t, query, "COUNT(*) OVER()")
	assert.Contains(t, query, "ORDER BY m.createdat DESC, m.id ASC")
	assert.True(t, strings.HasSuffix(query, "LIMIT $1 OFFSET $2"))
	assert.Equal(t, []any{20, 40}, args)
}

/*
TestBuildListQuery_Facets verifies include and exclude translation per facet.
*/
func TestBuildListQuery_Facets(t *testing.T) {
	filter := manga.Filter{
		Genres:            []string{"Action", "Drama"},
		ExcludeTags:       []string{"Harem"},
		Categories:        []string{"Manhwa"},
		ExcludeCategories: []string{"Comics"},
	}

	query, args := manga.BuildListQuery(filter, 10, 0)

	assert.Contains(t, query, "AND EXISTS (SELECT 1 FROM catalog.mangagenre j JOIN catalog.genre f ON f.id = j.genreid WHERE j.mangaid = m.id AND f.name = ANY($1))")
	assert.Contains(t, query, "AND NOT EXISTS (SELECT 1 FROM catalog.mangatag j JOIN catalog.tag f ON f.id = j.tagid WHERE j.mangaid = m.id AND f.name = ANY($2))")
	assert.Contains(t, query, "AND cat.name = ANY($3)")
	assert.Contains(t, query, "AND cat.name <> ALL($4)")

	require.Len(t, args, 6)
	assert.Equal(t, []string{"Action", "Drama"}, args[0])
	assert.Equal(t, []string{"Harem"}, args[1])
	assert.Equal(t, []string{"Manhwa"}, args[2])
	assert.Equal(t, []string{"Comics"}, args[3])
}

/*
TestBuildListQuery_IncludeAndExcludeSameValue shows that asking for a value
and excluding it produces contradictory predicates (an empty result).
*/
func TestBuildListQuery_IncludeAndExcludeSameValue(t *testing.T) {
	query, args := manga.BuildListQuery(manga.Filter{
		Genres:        []string{"Action"},
		ExcludeGenres: []string{"Action"},
	}, 10, 0)

	assert.Contains(t, query, "AND EXISTS (SELECT 1 FROM catalog.mangagenre")
	assert.Contains(t, query, "AND NOT EXISTS (SELECT 1 FROM catalog.mangagenre")
	assert.Equal(t, args[0], args[1])
}

/*
TestBuildListQuery_ScalarFilters covers decency, min_rating, search and ordering.
*/
func TestBuildListQuery_ScalarFilters(t *testing.T) {
	t.Run("decency false is still a predicate", func(t *testing.T) {
		query, args := manga.BuildListQuery(manga.Filter{Decency: pointer.To(false)}, 10, 0)
		assert.Contains(t, query, "AND m.decency = $1")
		assert.Equal(t, false, args[0])
	})

	t.Run("min rating above zero", func(t *testing.T) {
		query, args := manga.BuildListQuery(manga.Filter{MinRating: pointer.To(4)}, 10, 0)
		assert.Contains(t, query, "AND rating.average >= $1")
		assert.Equal(t, 4.0, args[0])
	})

	t.Run("min rating zero is no constraint", func(t *testing.T) {
		query, _ := manga.BuildListQuery(manga.Filter{MinRating: pointer.To(0)}, 10, 0)
		assert.NotContains(t, query, "rating.average >=")
	})

	t.Run("search escapes wildcards", func(t *testing.T) {
		query, args := manga.BuildListQuery(manga.Filter{Query: " 100%_sure "}, 10, 0)
		assert.Contains(t, query, "m.name ILIKE $1 OR m.originalname ILIKE $1 OR m.canonicalkey ILIKE $1")
		assert.Equal(t, `%100\%\_sure%`, args[0])
	})

	t.Run("ordering", func(t *testing.T) {
		query, _ := manga.BuildListQuery(manga.Filter{Ordering: manga.OrderNameDesc}, 10, 0)
		assert.Contains(t, query, "ORDER BY m.name DESC, m.id ASC")
	})
}

/*
TestBuildRankingQuery checks the three ranked views.
*/
func TestBuildRankingQuery(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	query, args, err := manga.BuildRankingQuery(manga.RankTopRated, now)
	require.NoError(t, err)
	assert.Contains(t, query, "WHERE rating.average IS NOT NULL ORDER BY rating.average DESC, m.id ASC LIMIT $1")
	assert.Equal(t, []any{constants.TopListLimit}, args)

	query, args, err = manga.BuildRankingQuery(manga.RankTopRatedYear, now)
	require.NoError(t, err)
	assert.Contains(t, query, "m.createdat >= $1")
	assert.Equal(t, now.Add(-constants.TopRatedWindow), args[0])
	assert.Equal(t, constants.TopListLimit, args[1])

	query, _, err = manga.BuildRankingQuery(manga.RankMostComment, now)
	require.NoError(t, err)
	assert.Contains(t, query, "ORDER BY comments.total DESC, m.id ASC")

	_, _, err = manga.BuildRankingQuery("nope", now)
	assert.Error(t, err)
}
