// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/mangashelf/internal/platform/constants"
	"github.com/taibuivan/mangashelf/internal/platform/database/schema"
)

// # Query Builders
//
// The builders are pure functions so the generated SQL can be verified
// without a database.

// summaryColumns is the projection shared by list, ranking and detail queries.
// It must stay aligned with scanSummary.
var summaryColumns = fmt.Sprintf(`
		m.%s, m.%s, cat.%s, m.%s, m.%s, m.%s, m.%s, m.%s,
		m.%s, m.%s, m.%s, m.%s, m.%s,
		rating.average, rating.total, comments.total`,
	schema.CatalogManga.ID, schema.CatalogManga.CategoryID, schema.CatalogCategory.Name,
	schema.CatalogManga.Name, schema.CatalogManga.OriginalName, schema.CatalogManga.CanonicalKey,
	schema.CatalogManga.Decency, schema.CatalogManga.Review,
	schema.CatalogManga.Avatar, schema.CatalogManga.Thumbnail, schema.CatalogManga.Slug,
	schema.CatalogManga.CreatedAt, schema.CatalogManga.UpdatedAt,
)

// summaryFrom joins the category and the read-time aggregates. The lateral
// subqueries always yield one row, so unrated manga get a NULL average.
var summaryFrom = fmt.Sprintf(`
		FROM %s m
		JOIN %s cat ON cat.%s = m.%s
		LEFT JOIN LATERAL (
			SELECT AVG(r.%s)::float8 AS average, COUNT(*) AS total
			FROM %s r WHERE r.%s = m.%s
		) rating ON TRUE
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS total
			FROM %s c WHERE c.%s = m.%s
		) comments ON TRUE`,
	schema.CatalogManga.Table,
	schema.CatalogCategory.Table, schema.CatalogCategory.ID, schema.CatalogManga.CategoryID,
	schema.SocialRating.Score,
	schema.SocialRating.Table, schema.SocialRating.MangaID, schema.CatalogManga.ID,
	schema.SocialComment.Table, schema.SocialComment.MangaID, schema.CatalogManga.ID,
)

// queryArgs numbers positional parameters as they are appended.
type queryArgs struct {
	values []any
}

func (a *queryArgs) add(value any) string {
	a.values = append(a.values, value)
	return fmt.Sprintf("$%d", len(a.values))
}

// facetClause matches manga linked through junction to a reference row whose
// name is in the bound list.
func facetClause(junction schema.JunctionTable, ref schema.NamedTable, placeholder string) string {
	return fmt.Sprintf(`SELECT 1 FROM %s j JOIN %s f ON f.%s = j.%s WHERE j.%s = m.%s AND f.%s = ANY(%s)`,
		junction.Table, ref.Table, ref.ID, junction.RefID,
		junction.MangaID, schema.CatalogManga.ID, ref.Name, placeholder)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

/*
BuildListQuery translates a [Filter] into a paginated SELECT.

Semantics:
  - Include lists: EXISTS per facet with name = ANY(list).
  - Exclude lists: NOT EXISTS per facet.
  - Category is a plain column, matched with ANY / ALL.
  - MinRating > 0 compares the computed average, which drops unrated rows.
  - The total row count is returned through COUNT(*) OVER() as the last column.

Returns:
  - string: SQL text
  - []any: positional arguments
*/
func BuildListQuery(filter Filter, limit, offset int) (string, []any) {
	args := &queryArgs{}
	var builder strings.Builder

	builder.WriteString("SELECT")
	builder.WriteString(summaryColumns)
	builder.WriteString(", COUNT(*) OVER()")
	builder.WriteString(summaryFrom)
	builder.WriteString("\n\t\tWHERE TRUE")

	facets := []struct {
		include, exclude []string
		junction         schema.JunctionTable
		ref              schema.NamedTable
	}{
		{filter.Genres, filter.ExcludeGenres, schema.MangaGenre, schema.CatalogGenre},
		{filter.Tags, filter.ExcludeTags, schema.MangaTag, schema.CatalogTag},
		{filter.Countries, filter.ExcludeCountries, schema.MangaCountry, schema.CatalogCountry},
	}

	for _, facet := range facets {
		if len(facet.include) > 0 {
			fmt.Fprintf(&builder, " AND EXISTS (%s)", facetClause(facet.junction, facet.ref, args.add(facet.include)))
		}
		if len(facet.exclude) > 0 {
			fmt.Fprintf(&builder, " AND NOT EXISTS (%s)", facetClause(facet.junction, facet.ref, args.add(facet.exclude)))
		}
	}

	// Category is one-to-many, so it is matched on the joined row.
	if len(filter.Categories) > 0 {
		fmt.Fprintf(&builder, " AND cat.%s = ANY(%s)", schema.CatalogCategory.Name, args.add(filter.Categories))
	}
	if len(filter.ExcludeCategories) > 0 {
		fmt.Fprintf(&builder, " AND cat.%s <> ALL(%s)", schema.CatalogCategory.Name, args.add(filter.ExcludeCategories))
	}

	if filter.Decency != nil {
		fmt.Fprintf(&builder, " AND m.%s = %s", schema.CatalogManga.Decency, args.add(*filter.Decency))
	}

	if filter.MinRating != nil && *filter.MinRating > 0 {
		fmt.Fprintf(&builder, " AND rating.average >= %s", args.add(float64(*filter.MinRating)))
	}

	if query := strings.TrimSpace(filter.Query); query != "" {
		placeholder := args.add("%" + likeEscaper.Replace(query) + "%")
		fmt.Fprintf(&builder, " AND (m.%s ILIKE %s OR m.%s ILIKE %s OR m.%s ILIKE %s)",
			schema.CatalogManga.Name, placeholder,
			schema.CatalogManga.OriginalName, placeholder,
			schema.CatalogManga.CanonicalKey, placeholder)
	}

	fmt.Fprintf(&builder, " ORDER BY %s, m.%s ASC", orderClause(filter.Ordering), schema.CatalogManga.ID)
	fmt.Fprintf(&builder, " LIMIT %s OFFSET %s", args.add(limit), args.add(offset))

	return builder.String(), args.values
}

func orderClause(ordering string) string {
	switch ordering {
	case OrderNameAsc:
		return "m." + schema.CatalogManga.Name + " ASC"
	case OrderNameDesc:
		return "m." + schema.CatalogManga.Name + " DESC"
	case OrderCreatedAtAsc:
		return "m." + schema.CatalogManga.CreatedAt + " ASC"
	default:
		return "m." + schema.CatalogManga.CreatedAt + " DESC"
	}
}

/*
BuildRankingQuery returns the SELECT for one top-list.

  - RankTopRated: highest average first, unrated manga excluded.
  - RankTopRatedYear: as above, restricted to manga created at or after now
    minus the trailing window.
  - RankMostComment: most manga comments first.

Ties are broken by id, so the order is stable but carries no meaning.
*/
func BuildRankingQuery(ranking Ranking, now time.Time) (string, []any, error) {
	args := &queryArgs{}
	var where, order string

	switch ranking {
	case RankTopRated:
		where = "rating.average IS NOT NULL"
		order = "rating.average DESC"
	case RankTopRatedYear:
		since := args.add(now.Add(-constants.TopRatedWindow))
		where = fmt.Sprintf("rating.average IS NOT NULL AND m.%s >= %s", schema.CatalogManga.CreatedAt, since)
		order = "rating.average DESC"
	case RankMostComment:
		where = "TRUE"
		order = "comments.total DESC"
	default:
		return "", nil, fmt.Errorf("manga: unknown ranking %q", ranking)
	}

	query := fmt.Sprintf("SELECT%s%s\n\t\tWHERE %s ORDER BY %s, m.%s ASC LIMIT %s",
		summaryColumns, summaryFrom, where, order, schema.CatalogManga.ID, args.add(constants.TopListLimit))

	return query, args.values, nil
}
