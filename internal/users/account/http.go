// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangashelf/internal/platform/constants"
	"github.com/taibuivan/mangashelf/internal/platform/middleware"
	requestutil "github.com/taibuivan/mangashelf/internal/platform/request"
	"github.com/taibuivan/mangashelf/internal/platform/respond"
)

// Handler implements the HTTP layer for profiles and the actor's account.
type Handler struct {
	service *Service
}

// NewHandler constructs an account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// UserRoutes returns the public routes mounted under /users.
func (handler *Handler) UserRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/recent", handler.recent)
	router.Get("/{slug}", handler.profile)
	return router
}

/*
MeRoutes returns the routes mounted under /me.

# Security

Every endpoint requires an authenticated actor and only ever touches the
actor's own account.
*/
func (handler *Handler) MeRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.me)
	router.Patch("/", handler.updateProfile)
	router.Put("/avatar", handler.setAvatar)
	router.Put("/email", handler.changeEmail)

	return router
}

// recent handles GET /api/v1/users/recent.
func (handler *Handler) recent(writer http.ResponseWriter, request *http.Request) {
	profiles, err := handler.service.RecentUsers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profiles)
}

// profile handles GET /api/v1/users/{slug}.
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.service.GetProfile(request.Context(), requestutil.ID(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

// me handles GET /api/v1/me.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Me(request.Context(), actor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
PATCH /api/v1/me.

Request:
  - Body: {"gender": "Male|Female|Not Specified", "is_adult": bool}, both optional

Response:
  - 200: User
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch ProfilePatch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateProfile(request.Context(), actor, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

// setAvatar handles PUT /api/v1/me/avatar (multipart field "avatar").
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

	user, err := handler.service.SetAvatar(request.Context(), actor, upload.Filename, upload.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
PUT /api/v1/me/email.

Request:
  - Body: {"email": "..."}

Response:
  - 200: User, now unverified
  - 409: CONFLICT when another account uses the address
*/
func (handler *Handler) changeEmail(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Email string `json:"email"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.ChangeEmail(request.Context(), actor, input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}
