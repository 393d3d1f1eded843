// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangashelf/internal/platform/constants"
	"github.com/taibuivan/mangashelf/internal/platform/middleware"
	requestutil "github.com/taibuivan/mangashelf/internal/platform/request"
	"github.com/taibuivan/mangashelf/internal/platform/respond"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/pkg/pagination"
)

// Handler implements the HTTP layer for the manga catalogue.
type Handler struct {
	service *Service
}

// NewHandler constructs a manga [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/*
Routes returns a [chi.Router] mounted under /manga.

# Access Control

  - Public: listing, rankings, spotlight and detail.
  - Editor: create, update, delete and artwork upload.

Static segments (top, random) take precedence over slugs.
*/
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/top", handler.ranking(RankTopRated))
	router.Get("/top/year", handler.ranking(RankTopRatedYear))
	router.Get("/top/commented", handler.ranking(RankMostComment))
	router.Get("/random", handler.spotlight)
	router.Get("/{slug}", handler.get)

	router.Group(func(editorRoute chi.Router) {
		editorRoute.Use(middleware.RequireRole(sec.RoleEditor))

		editorRoute.Post("/", handler.create)
		editorRoute.Patch("/{slug}", handler.update)
		editorRoute.Delete("/{slug}", handler.delete)
		editorRoute.Put("/{slug}/avatar", handler.setAvatar)
	})

	return router
}

/*
GET /api/v1/manga.

Request:
  - genres, tags, country_name, category: repeated include lists
  - exclude_genres, exclude_tags, exclude_countries, exclude_categories
    (exclude_country_name and exclude_category are accepted as aliases)
  - decency: true | false (any other value matches both)
  - min_rating: int 0..5
  - q: substring of name, original name or canonical key
  - ordering: name | -name | created_at | -created_at
  - page, limit: int

Response:
  - 200: []Manga with pagination metadata
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter, err := filterFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	items, total, err := handler.service.ListManga(request.Context(), filter, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, page.Meta(total))
}

func filterFromRequest(request *http.Request) (Filter, error) {
	filter := Filter{
		Genres:            requestutil.QueryList(request, "genres"),
		Tags:              requestutil.QueryList(request, "tags"),
		Countries:         requestutil.QueryList(request, "country_name"),
		Categories:        requestutil.QueryList(request, "category"),
		ExcludeGenres:     requestutil.QueryList(request, "exclude_genres"),
		ExcludeTags:       requestutil.QueryList(request, "exclude_tags"),
		ExcludeCountries:  requestutil.QueryList(request, "exclude_countries", "exclude_country_name"),
		ExcludeCategories: requestutil.QueryList(request, "exclude_categories", "exclude_category"),
		Decency:           requestutil.QueryTriState(request, "decency"),
		Query:             request.URL.Query().Get("q"),
		Ordering:          request.URL.Query().Get("ordering"),
	}

	var err error
	if filter.MinRating, err = requestutil.QueryInt(request, FieldMinRating); err != nil {
		return filter, err
	}
	return filter, nil
}

// ranking serves the capped top-lists.
func (handler *Handler) ranking(ranking Ranking) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		items, err := handler.service.Rankings(request.Context(), ranking)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, items)
	}
}

/*
GET /api/v1/manga/random.

Response:
  - 200: [Manga, Manga]
  - 404: NOTHING_TO_SELECT when the catalogue is empty
*/
func (handler *Handler) spotlight(writer http.ResponseWriter, request *http.Request) {
	pair, err := handler.service.Spotlight(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, pair)
}

// get handles GET /api/v1/manga/{slug}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	manga, err := handler.service.GetManga(request.Context(), requestutil.ID(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, manga)
}

/*
POST /api/v1/manga.

Request:
  - Body: CreateInput

Response:
  - 201: Manga
  - 400: VALIDATION_ERROR
  - 409: CONFLICT on a duplicate canonical key
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	manga, err := handler.service.CreateManga(request.Context(), actor, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, manga)
}

// update handles PATCH /api/v1/manga/{slug}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	manga, err := handler.service.UpdateManga(request.Context(), actor, requestutil.ID(request, "slug"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, manga)
}

// delete handles DELETE /api/v1/manga/{slug}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteManga(request.Context(), actor, requestutil.ID(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
PUT /api/v1/manga/{slug}/avatar.

Request:
  - multipart/form-data with an "avatar" file part

Response:
  - 200: Manga (thumbnail_url may be empty if derivation failed)
*/
func (handler *Handler) setAvatar(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	upload, err := requestutil.FormFile(writer, request, FieldAvatar, constants.MaxImageUploadBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer upload.Close()

	manga, err := handler.service.SetAvatar(request.Context(), actor, requestutil.ID(request, "slug"), upload.Filename, upload.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, manga)
}
