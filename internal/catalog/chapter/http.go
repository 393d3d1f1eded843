// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangashelf/internal/platform/constants"
	"github.com/taibuivan/mangashelf/internal/platform/middleware"
	requestutil "github.com/taibuivan/mangashelf/internal/platform/request"
	"github.com/taibuivan/mangashelf/internal/platform/respond"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/internal/platform/validate"
	"github.com/taibuivan/mangashelf/pkg/pagination"
)

// Handler implements the HTTP layer for chapters and pages.
type Handler struct {
	service *Service
}

// NewHandler constructs a chapter [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MangaRoutes returns the routes mounted under /manga/{slug}/chapters.
func (handler *Handler) MangaRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listByManga)
	router.With(middleware.RequireRole(sec.RoleEditor)).Post("/", handler.create)

	return router
}

/*
Routes returns the routes mounted under /chapters.

# Access Control

  - Public: latest feed, detail and page listing.
  - Editor: edit, delete and page upload.
*/
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/latest", handler.latest)
	router.Get("/{slug}", handler.get)
	router.Get("/{slug}/pages", handler.listPages)

	router.Group(func(editorRoute chi.Router) {
		editorRoute.Use(middleware.RequireRole(sec.RoleEditor))

		editorRoute.Patch("/{slug}", handler.update)
		editorRoute.Delete("/{slug}", handler.delete)
		editorRoute.Post("/{slug}/pages", handler.addPage)
	})

	return router
}

// PageRoutes returns the routes mounted under /pages.
func (handler *Handler) PageRoutes() chi.Router {
	router := chi.NewRouter()
	router.With(middleware.RequireRole(sec.RoleEditor)).Delete("/{id}", handler.deletePage)
	return router
}

// # Chapters

/*
GET /api/v1/manga/{slug}/chapters.

Response:
  - 200: []Chapter ordered by volume and number, newest first
*/
func (handler *Handler) listByManga(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	chapters, total, err := handler.service.ListChapters(request.Context(), requestutil.ID(request, "slug"), page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, chapters, page.Meta(total))
}

// latest handles GET /api/v1/chapters/latest.
func (handler *Handler) latest(writer http.ResponseWriter, request *http.Request) {
	chapters, err := handler.service.LatestChapters(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, chapters)
}

// get handles GET /api/v1/chapters/{slug}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	chapter, err := handler.service.GetChapter(request.Context(), requestutil.ID(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, chapter)
}

/*
POST /api/v1/manga/{slug}/chapters.

Request:
  - Body: {"title": "...", "volume": 1, "chapter_number": 1}

Response:
  - 201: Chapter
  - 409: CONFLICT when the volume and number already exist
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

	chapter, err := handler.service.CreateChapter(request.Context(), actor, requestutil.ID(request, "slug"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, chapter)
}

// update handles PATCH /api/v1/chapters/{slug}.
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

	chapter, err := handler.service.UpdateChapter(request.Context(), actor, requestutil.ID(request, "slug"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, chapter)
}

// delete handles DELETE /api/v1/chapters/{slug}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteChapter(request.Context(), actor, requestutil.ID(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Pages

// listPages handles GET /api/v1/chapters/{slug}/pages.
func (handler *Handler) listPages(writer http.ResponseWriter, request *http.Request) {
	pages, err := handler.service.ListPages(request.Context(), requestutil.ID(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, pages)
}

/*
POST /api/v1/chapters/{slug}/pages.

Request:
  - multipart/form-data with an "image" file part
  - page_number: optional positive integer; the next free number when omitted

Response:
  - 201: Page
  - 409: CONFLICT when the page number is taken
*/
func (handler *Handler) addPage(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	upload, err := requestutil.FormFile(writer, request, FieldImage, constants.MaxImageUploadBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer upload.Close()

	var pageNumber *int
	if raw := requestutil.FormValue(request, FieldPageNumber); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(writer, request, validate.RequiredError(FieldPageNumber, "Must be an integer"))
			return
		}
		pageNumber = &value
	}

	page, err := handler.service.AddPage(request.Context(), actor, requestutil.ID(request, "slug"), upload.Filename, upload.Body, pageNumber)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, page)
}

// deletePage handles DELETE /api/v1/pages/{id}.
func (handler *Handler) deletePage(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeletePage(request.Context(), actor, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
