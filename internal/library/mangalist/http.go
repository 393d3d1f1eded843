// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mangalist

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/mangashelf/internal/platform/request"
	"github.com/taibuivan/mangashelf/internal/platform/respond"
	"github.com/taibuivan/mangashelf/pkg/pagination"
)

// Handler implements the HTTP layer for reading lists.
type Handler struct {
	service *Service
}

// NewHandler constructs a reading list [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the routes mounted under /me/list. The parent router is
// expected to require authentication.
//
// # Endpoints
//   - GET    /        : Own list, optionally ?status=
//   - GET    /{slug}  : Own entry for one manga
//   - PUT    /{slug}  : Set the status
//   - DELETE /{slug}  : Remove from the list
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{slug}", handler.get)
	router.Put("/{slug}", handler.set)
	router.Delete("/{slug}", handler.remove)

	return router
}

type statusRequest struct {
	Status Status `json:"status"`
}

// list handles GET /api/v1/me/list.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	status := Status(request.URL.Query().Get(FieldStatus))

	entries, total, err := handler.service.ListMine(request.Context(), actor, status, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, entries, page.Meta(total))
}

// get handles GET /api/v1/me/list/{slug}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.GetMine(request.Context(), actor, requestutil.ID(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entry)
}

/*
PUT /api/v1/me/list/{slug}

Request:
  - Body: {"status": "Reading"}

Response:
  - 201: Entry, when the manga was not on the list
  - 200: Entry, when the status changed
  - 400: VALIDATION_ERROR
  - 404: NOT_FOUND
*/
func (handler *Handler) set(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, created, err := handler.service.SetStatus(request.Context(), actor, requestutil.ID(request, "slug"), input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, entry)
		return
	}
	respond.OK(writer, entry)
}

// remove handles DELETE /api/v1/me/list/{slug}.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Remove(request.Context(), actor, requestutil.ID(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
