// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination turns ?page and ?limit into LIMIT/OFFSET and builds the
// meta block of list responses. Pages are 1-indexed.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a validated page request.
type Params struct {
	Page  int
	Limit int
}

// New clamps out-of-range values to the defaults instead of rejecting them.
func New(page, limit int) Params {
	params := Params{Page: page, Limit: limit}
	if params.Page < 1 {
		params.Page = DefaultPage
	}
	if params.Limit < 1 || params.Limit > MaxLimit {
		params.Limit = DefaultLimit
	}
	return params
}

// FromRequest reads page and limit from the query string. Non-numeric values
// are treated as absent.
func FromRequest(request *http.Request) Params {
	query := request.URL.Query()
	return New(intParam(query.Get("page"), DefaultPage), intParam(query.Get("limit"), DefaultLimit))
}

func intParam(raw string, fallback int) int {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return fallback
}

// Offset is the number of rows skipped before this page.
func (params Params) Offset() int {
	return max(params.Page-1, 0) * params.Limit
}

// Meta describes where a page sits within total rows.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	meta.HasNext = page < meta.TotalPages
	return meta
}

// Meta is shorthand for NewMeta with the request's own page and limit.
func (params Params) Meta(total int) Meta {
	return NewMeta(params.Page, params.Limit, total)
}
