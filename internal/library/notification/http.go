// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/mangashelf/internal/platform/request"
	"github.com/taibuivan/mangashelf/internal/platform/respond"
	"github.com/taibuivan/mangashelf/pkg/pagination"
)

// Handler implements the HTTP layer for the notification inbox.
type Handler struct {
	service *Service
}

// NewHandler constructs a notification [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the routes mounted under /me/notifications. The parent
// router is expected to require authentication.
//
// # Endpoints
//   - GET    /              : Inbox, ?unread=true for unread only
//   - GET    /unread-count  : Number of unread notifications
//   - POST   /read-all      : Mark everything read
//   - POST   /{id}/read     : Mark one read
//   - DELETE /{id}          : Remove one
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/unread-count", handler.unreadCount)
	router.Post("/read-all", handler.markAllRead)
	router.Post("/{id}/read", handler.markRead)
	router.Delete("/{id}", handler.delete)

	return router
}

// list handles GET /api/v1/me/notifications.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	unread, err := requestutil.QueryBool(request, FieldUnread)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	items, total, err := handler.service.List(request.Context(), actor, unread != nil && *unread, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, items, page.Meta(total))
}

// unreadCount handles GET /api/v1/me/notifications/unread-count.
func (handler *Handler) unreadCount(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	count, err := handler.service.UnreadCount(request.Context(), actor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int{FieldCount: count})
}

// markRead handles POST /api/v1/me/notifications/{id}/read.
func (handler *Handler) markRead(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.MarkRead(request.Context(), actor, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// markAllRead handles POST /api/v1/me/notifications/read-all.
func (handler *Handler) markAllRead(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	marked, err := handler.service.MarkAllRead(request.Context(), actor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int{FieldMarked: marked})
}

// delete handles DELETE /api/v1/me/notifications/{id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), actor, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
