// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangashelf/internal/platform/middleware"
	requestutil "github.com/taibuivan/mangashelf/internal/platform/request"
	"github.com/taibuivan/mangashelf/internal/platform/respond"
	"github.com/taibuivan/mangashelf/pkg/pagination"
)

// Handler implements the HTTP layer for comments.
type Handler struct {
	service *Service
}

// NewHandler constructs a comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MangaRoutes returns the routes mounted under /manga/{slug}/comments.
func (handler *Handler) MangaRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listForManga)
	router.With(middleware.RequireAuth).Post("/", handler.createOn(func(slug string) Target {
		return Target{MangaSlug: slug}
	}))
	return router
}

// ChapterRoutes returns the routes mounted under /chapters/{slug}/comments.
func (handler *Handler) ChapterRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listForChapter)
	router.With(middleware.RequireAuth).Post("/", handler.createOn(func(slug string) Target {
		return Target{ChapterSlug: slug}
	}))
	return router
}

/*
Routes returns the routes mounted under /comments.

# Access Control

  - Member: post with an explicit target, edit own, delete own.
  - Moderator: delete any.
*/
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(memberRoute chi.Router) {
		memberRoute.Use(middleware.RequireAuth)

		memberRoute.Post("/", handler.create)
		memberRoute.Patch("/{id}", handler.update)
		memberRoute.Delete("/{id}", handler.delete)
	})

	return router
}

type contentRequest struct {
	Content string `json:"text"`
}

// listForManga handles GET /api/v1/manga/{slug}/comments.
func (handler *Handler) listForManga(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	comments, total, err := handler.service.ListForManga(request.Context(), requestutil.ID(request, "slug"), page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, comments, page.Meta(total))
}

// listForChapter handles GET /api/v1/chapters/{slug}/comments.
func (handler *Handler) listForChapter(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	comments, total, err := handler.service.ListForChapter(request.Context(), requestutil.ID(request, "slug"), page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, comments, page.Meta(total))
}

// createOn handles POST on a nested comments collection, where the parent
// comes from the path.
func (handler *Handler) createOn(target func(slug string) Target) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		actor, err := requestutil.RequiredActor(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		var input contentRequest
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}

		comment, err := handler.service.CreateComment(request.Context(), actor, target(requestutil.ID(request, "slug")), input.Content)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.Created(writer, comment)
	}
}

/*
POST /api/v1/comments.

Request:
  - Body: {"manga": "<slug>"} or {"chapter": "<slug>"} plus {"text": "..."}

Response:
  - 201: Comment
  - 400: VALIDATION_ERROR when both or neither parents are given
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Target
		contentRequest
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.CreateComment(request.Context(), actor, input.Target, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

// update handles PATCH /api/v1/comments/{id}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input contentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.UpdateComment(request.Context(), actor, requestutil.ID(request, "id"), input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

// delete handles DELETE /api/v1/comments/{id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteComment(request.Context(), actor, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
