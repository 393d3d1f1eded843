// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/ctxutil"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/internal/platform/validate"
	"github.com/taibuivan/mangashelf/pkg/pointer"
)

// # Body

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Upload is a single file taken from a multipart form.
type Upload struct {
	Filename string
	Body     multipart.File
}

// Close releases the underlying multipart file.
func (upload *Upload) Close() error {
	return upload.Body.Close()
}

/*
FormFile extracts the named file part from a multipart request, capping the
whole body at maxBytes.

Returns:
  - *Upload: the file part (caller closes it)
  - error: VALIDATION_ERROR when the field is missing or the body is too large
*/
func FormFile(writer http.ResponseWriter, request *http.Request, field string, maxBytes int64) (*Upload, error) {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes)

	if err := request.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, validate.RequiredError(field, fmt.Sprintf("File exceeds %d bytes", maxBytes))
		}
		return nil, validate.RequiredError(field, "Expected a multipart/form-data body")
	}

	file, header, err := request.FormFile(field)
	if err != nil {
		return nil, validate.RequiredError(field, "This field is required")
	}

	return &Upload{Filename: header.Filename, Body: file}, nil
}

// FormValue returns a trimmed non-file field from an already parsed form.
func FormValue(request *http.Request, field string) string {
	return strings.TrimSpace(request.FormValue(field))
}

// # URL Parameters

/*
ID retrieves a named URL parameter (UUID/Slug) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntID retrieves a named URL parameter and parses it as a positive integer.
*/
func IntID(request *http.Request, name string) (int, error) {
	raw := chi.URLParam(request, name)
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, validate.RequiredError(name, "Must be a positive integer")
	}
	return value, nil
}

// # Query Parameters

// QueryList returns every value of a repeated query parameter. Values may
// also be comma separated ("genres=Action,Drama"). Blank entries are dropped.
// Values sent under any of the aliases are appended after those of name.
func QueryList(request *http.Request, name string, aliases ...string) []string {
	query := request.URL.Query()

	var values []string
	for _, key := range append([]string{name}, aliases...) {
		for _, raw := range query[key] {
			for _, part := range strings.Split(raw, ",") {
				if part = strings.TrimSpace(part); part != "" {
					values = append(values, part)
				}
			}
		}
	}
	return values
}

// QueryBool parses a tri-state boolean: absent yields nil.
func QueryBool(request *http.Request, name string) (*bool, error) {
	raw := strings.TrimSpace(request.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, validate.RequiredError(name, "Must be true or false")
	}
	return &value, nil
}

// QueryTriState reads an optional filter flag. Only the exact values "true"
// and "false" count; anything else, including absence, yields nil so the
// filter is not applied.
func QueryTriState(request *http.Request, name string) *bool {
	switch strings.TrimSpace(request.URL.Query().Get(name)) {
	case "true":
		return pointer.To(true)
	case "false":
		return pointer.To(false)
	default:
		return nil
	}
}

// QueryInt parses an optional integer query parameter.
func QueryInt(request *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(request.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, validate.RequiredError(name, "Must be an integer")
	}
	return &value, nil
}

// # Identity

/*
RequiredActor returns the acting principal for a mutating call.

Returns:
  - sec.Actor: the authenticated user
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredActor(request *http.Request) (sec.Actor, error) {
	actor, ok := ctxutil.GetActor(request.Context())
	if !ok {
		return sec.Actor{}, apperr.Unauthorized("Authentication required")
	}
	return actor, nil
}

