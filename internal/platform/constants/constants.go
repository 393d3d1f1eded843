// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Catalogue limits: top-list size, retry budgets, thumbnail geometry.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "mangashelf-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	DefaultReadTimeout       = 15 * time.Second
	DefaultWriteTimeout      = 30 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	DefaultRateLimitRPS      = 100.0
	DefaultRateLimitBurst    = 150
	RateLimitCleanupInterval = 1 * time.Minute
	RateLimitClientTTL       = 3 * time.Minute

	// Credential endpoints get a much smaller bucket.
	AuthRateLimitRPS   = 0.5
	AuthRateLimitBurst = 10
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "mangashelf.app"

	RefreshTokenCookieName = "refresh_token"
	RefreshTokenCookiePath = "/api/v1/auth"
)

// # Catalogue

const (
	// TopListLimit caps every ranking view.
	TopListLimit = 100

	// LatestChaptersLimit caps the "recently added chapters" feed.
	LatestChaptersLimit = 100

	// RecentUsersLimit caps the "recently joined" list.
	RecentUsersLimit = 10

	// TopRatedWindow is the trailing window for the yearly top list.
	TopRatedWindow = 365 * 24 * time.Hour

	// PageNumberRetries bounds re-computation of an auto-assigned page number
	// after losing a race on the (chapter, page number) constraint.
	PageNumberRetries = 5

	ThumbnailWidth  = 120
	ThumbnailHeight = 170

	// MaxImageUploadBytes caps avatar and page uploads.
	MaxImageUploadBytes = 10 << 20
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldError = "error"
	FieldCode  = "code"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixVerifyToken = "auth:verify_token:"
	RedisPrefixSession     = "auth:session:"
	RedisPrefixUserSession = "auth:user_sessions:"
)
