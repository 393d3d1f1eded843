// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangashelf/internal/platform/middleware"
	requestutil "github.com/taibuivan/mangashelf/internal/platform/request"
	"github.com/taibuivan/mangashelf/internal/platform/respond"
)

// Handler implements the HTTP layer for ratings.
type Handler struct {
	service *Service
}

// NewHandler constructs a rating [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the routes mounted under /manga/{slug}/rating.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.summary)

	router.Group(func(memberRoute chi.Router) {
		memberRoute.Use(middleware.RequireAuth)

		memberRoute.Get("/me", handler.mine)
		memberRoute.Put("/me", handler.submit)
		memberRoute.Delete("/me", handler.delete)
	})

	return router
}

// summary handles GET /api/v1/manga/{slug}/rating.
func (handler *Handler) summary(writer http.ResponseWriter, request *http.Request) {
	summary, err := handler.service.Summary(request.Context(), requestutil.ID(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, summary)
}

// mine handles GET /api/v1/manga/{slug}/rating/me.
func (handler *Handler) mine(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	rating, err := handler.service.MyRating(request.Context(), actor, requestutil.ID(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rating)
}

/*
PUT /api/v1/manga/{slug}/rating/me.

Request:
  - Body: {"score": 1..5}

Response:
  - 201: Rating (first submission)
  - 200: Rating (score replaced)
  - 400: VALIDATION_ERROR when the score is out of range
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Score int `json:"score"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	rating, created, err := handler.service.SubmitRating(request.Context(), actor, requestutil.ID(request, "slug"), input.Score)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, rating)
		return
	}
	respond.OK(writer, rating)
}

// delete handles DELETE /api/v1/manga/{slug}/rating/me.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteRating(request.Context(), actor, requestutil.ID(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
