// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes the three JSON envelopes every handler uses:
//
//	{"data": ...}
//	{"data": [...], "meta": {...}}
//	{"error": "...", "code": "...", "details": [...]}
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/ctxutil"
	"github.com/taibuivan/mangashelf/pkg/pagination"
)

// # Envelopes

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type PaginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// # Writers

// JSON encodes payload with status. Once the header is out an encoding
// failure cannot be reported to the client, so it is dropped.
func JSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}

func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Data: data})
}

// Paginated writes a page of data with its meta block.
func Paginated(writer http.ResponseWriter, data any, meta pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: meta})
}

func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

/*
Error renders err as the error envelope.

Errors without an [*apperr.AppError] in their chain become a generic 500.
Every 5xx is logged with its cause on the request logger; 4xx responses
are the client's problem and are left to the access log.
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	ctx := request.Context()

	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
