// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/constants"
	"github.com/taibuivan/mangashelf/internal/platform/respond"
)

// # Token Buckets

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// buckets keeps one token bucket per client address.
type buckets struct {
	mu    sync.Mutex
	byIP  map[string]*bucket
	limit rate.Limit
	burst int
}

func newBuckets(rps float64, burst int) *buckets {
	return &buckets{byIP: make(map[string]*bucket), limit: rate.Limit(rps), burst: burst}
}

// take spends one token for ip. When the bucket is empty it reports how long
// the client should wait before the next token.
func (set *buckets) take(ip string, now time.Time) (bool, time.Duration) {
	set.mu.Lock()
	defer set.mu.Unlock()

	entry, ok := set.byIP[ip]
	if !ok {
		entry = &bucket{limiter: rate.NewLimiter(set.limit, set.burst)}
		set.byIP[ip] = entry
	}
	entry.lastSeen = now

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Second
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (set *buckets) sweep(now time.Time) {
	set.mu.Lock()
	defer set.mu.Unlock()

	for ip, entry := range set.byIP {
		if now.Sub(entry.lastSeen) > constants.RateLimitClientTTL {
			delete(set.byIP, ip)
		}
	}
}

// sweepUntilDone drops idle clients every cleanup interval until ctx ends.
func (set *buckets) sweepUntilDone(ctx context.Context) {
	ticker := time.NewTicker(constants.RateLimitCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			set.sweep(now)
		case <-ctx.Done():
			return
		}
	}
}

// # Middleware

// RateLimit throttles each client address with the default bucket size.
// The background sweeper stops with ctx.
func RateLimit(ctx context.Context) func(http.Handler) http.Handler {
	return RateLimitWith(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)
}

/*
RateLimitWith throttles each client address to rps requests per second with
bursts of up to burst.

Rejected requests get a 429 envelope and a Retry-After header.

Parameters:
  - ctx: Lifetime of the idle-client sweeper
  - rps: Sustained rate
  - burst: Bucket capacity

Returns:
  - func(http.Handler) http.Handler
*/
func RateLimitWith(ctx context.Context, rps float64, burst int) func(http.Handler) http.Handler {
	set := newBuckets(rps, burst)
	go set.sweepUntilDone(ctx)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			allowed, wait := set.take(RealIP(request), time.Now())
			if !allowed {
				seconds := retryAfter(wait)
				writer.Header().Set("Retry-After", strconv.Itoa(seconds))
				respond.Error(writer, request, apperr.RateLimited(seconds))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// retryAfter rounds wait up to whole seconds, capped at an hour.
func retryAfter(wait time.Duration) int {
	seconds := int(math.Ceil(wait.Seconds()))
	return min(max(seconds, 1), 3600)
}
