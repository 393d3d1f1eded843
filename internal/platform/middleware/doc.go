// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware holds the HTTP chain shared by every MangaShelf route.

The API server installs it in this order:

	RequestID, StructuredLogger, Timeout, RateLimit, PanicRecovery,
	Authenticate, CORS, CleanPath

Everything written to the client goes through the respond envelope, so a
throttled or panicking request looks like any other API error.
*/
package middleware
