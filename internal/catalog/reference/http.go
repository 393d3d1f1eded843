// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangashelf/internal/platform/middleware"
	requestutil "github.com/taibuivan/mangashelf/internal/platform/request"
	"github.com/taibuivan/mangashelf/internal/platform/respond"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/pkg/pagination"
)

// Handler implements the HTTP layer for reference and master data.
type Handler struct {
	service *Service
}

// NewHandler constructs a new reference [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/*
Routes returns a [chi.Router] with the reference endpoints.

# Access Control

  - Public: facets, authors and every vocabulary listing.
  - Editor: create, rename and delete entries.
*/
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/facets", handler.facets)

	// # Authors
	router.Route("/authors", func(authorRoute chi.Router) {
		authorRoute.Get("/", handler.listAuthors)
		authorRoute.Get("/{id}", handler.getAuthor)

		authorRoute.Group(func(editorRoute chi.Router) {
			editorRoute.Use(middleware.RequireRole(sec.RoleEditor))

			editorRoute.Post("/", handler.createAuthor)
			editorRoute.Patch("/{id}", handler.updateAuthor)
			editorRoute.Delete("/{id}", handler.deleteAuthor)
		})
	})

	// # Vocabularies
	for _, kind := range Kinds {
		router.Route("/"+string(kind), func(kindRoute chi.Router) {
			kindRoute.Get("/", handler.listNamed(kind))
			kindRoute.Get("/{id}", handler.getNamed(kind))

			kindRoute.Group(func(editorRoute chi.Router) {
				editorRoute.Use(middleware.RequireRole(sec.RoleEditor))

				editorRoute.Post("/", handler.createNamed(kind))
				editorRoute.Patch("/{id}", handler.updateNamed(kind))
				editorRoute.Delete("/{id}", handler.deleteNamed(kind))
			})
		})
	}

	return router
}

/*
GET /api/v1/facets.

Description: Returns authors, countries, genres, tags and categories in one
payload for the manga filter form.

Response:
  - 200: Facets
*/
func (handler *Handler) facets(writer http.ResponseWriter, request *http.Request) {
	facets, err := handler.service.Facets(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, facets)
}

// # Authors

/*
GET /api/v1/authors.

Request:
  - q: string (optional name search)
  - page, limit: int

Response:
  - 200: []Author with pagination metadata
*/
func (handler *Handler) listAuthors(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	filter := AuthorFilter{Query: request.URL.Query().Get("q")}

	authors, total, err := handler.service.ListAuthors(request.Context(), filter, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, authors, page.Meta(total))
}

// getAuthor handles GET /api/v1/authors/{id}.
func (handler *Handler) getAuthor(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.GetAuthor(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

// authorInput is the body accepted by author writes.
type authorInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

/*
POST /api/v1/authors.

Request:
  - Body: {"first_name": "...", "last_name": "..."}

Response:
  - 201: Author
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) createAuthor(writer http.ResponseWriter, request *http.Request) {
	var input authorInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author := &Author{FirstName: input.FirstName, LastName: input.LastName}
	if err := handler.service.CreateAuthor(request.Context(), author); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, author)
}

// updateAuthor handles PATCH /api/v1/authors/{id}.
func (handler *Handler) updateAuthor(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input authorInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author := &Author{FirstName: input.FirstName, LastName: input.LastName}
	if err := handler.service.UpdateAuthor(request.Context(), id, author); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

// deleteAuthor handles DELETE /api/v1/authors/{id}.
func (handler *Handler) deleteAuthor(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteAuthor(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Vocabularies

// listNamed handles GET /api/v1/{kind}.
func (handler *Handler) listNamed(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		entries, err := handler.service.List(request.Context(), kind)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, entries)
	}
}

// getNamed handles GET /api/v1/{kind}/{id}.
func (handler *Handler) getNamed(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		id, err := requestutil.IntID(request, "id")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		entry, err := handler.service.Get(request.Context(), kind, id)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, entry)
	}
}

/*
POST /api/v1/{kind}.

Request:
  - Body: {"name": "..."}

Response:
  - 201: Named
  - 409: CONFLICT when the name is taken
*/
func (handler *Handler) createNamed(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		named := &Named{}
		if err := requestutil.DecodeJSON(request, named); err != nil {
			respond.Error(writer, request, err)
			return
		}

		if err := handler.service.Create(request.Context(), kind, named); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.Created(writer, named)
	}
}

// updateNamed handles PATCH /api/v1/{kind}/{id}.
func (handler *Handler) updateNamed(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		id, err := requestutil.IntID(request, "id")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		named := &Named{}
		if err := requestutil.DecodeJSON(request, named); err != nil {
			respond.Error(writer, request, err)
			return
		}

		if err := handler.service.Update(request.Context(), kind, id, named); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, named)
	}
}

// deleteNamed handles DELETE /api/v1/{kind}/{id}.
func (handler *Handler) deleteNamed(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		id, err := requestutil.IntID(request, "id")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		if err := handler.service.Delete(request.Context(), kind, id); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.NoContent(writer)
	}
}
