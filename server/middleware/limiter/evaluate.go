// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/photogallery/gallery/server/routes"
)

// Rate limiting header names.
//
// ref: https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     string = "RateLimit-Limit"
	HeaderRateLimitRemaining string = "RateLimit-Remaining"
	HeaderRateLimitReset     string = "RateLimit-Reset"
)

// excludedPaths won't have traffic filtered by the limiter middleware.
//
// A single gallery page pulls up to four images per tag, so image requests
// would drain a bucket long before the page itself does.
var excludedPaths = []string{
	"/css/",
	"/img/",
	"/gallery/",
	"/robots.txt",
}

func isExcludedPath(path string) bool {
	for _, prefix := range excludedPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// Evaluate is the entrypoint to the limiter middleware.
func (l *Limiter) Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	defer l.doCleanup()

	if isExcludedPath(r.URL.Path) {
		next.ServeHTTP(w, r)

		return
	}

	ip := getClientIP(r)
	if ip == nil {
		log.Warn().
			Str("remote_addr", r.RemoteAddr).
			Msg("Request blocked, could not determine client IP")

		routes.BlockPage(w, r, routes.BlockData{Reason: "Unknown client address"}, http.StatusForbidden)

		return
	}

	network := getNetwork(ip, l.settings.IPv4Prefix, l.settings.IPv6Prefix)

	// Explicit allow/deny lists take precedence.
	if ipMatchesList(ip, l.settings.PassIPs) {
		next.ServeHTTP(w, r)

		return
	}

	if ipMatchesList(ip, l.settings.BlockIPs) {
		log.Warn().
			Str("ip", ip.String()).
			Str("network", network.String()).
			Msg("Request blocked, IP in block-list")

		routes.BlockPage(w, r, routes.BlockData{Reason: "IP in block-list"}, http.StatusForbidden)

		return
	}

	limWrapper := l.getOrCreateLimiter(network)

	if blockReason := l.checkRateLimit(limWrapper); blockReason != "" {
		log.Warn().
			Str("ip", ip.String()).
			Str("network", network.String()).
			Str("reason", blockReason).
			Msg("Request blocked, exceeded rate limit")
		l.addRateLimitHeaders(w, limWrapper)

		routes.BlockPage(w, r, routes.BlockData{Reason: blockReason}, http.StatusTooManyRequests)

		return
	}

	l.addRateLimitHeaders(w, limWrapper)
	next.ServeHTTP(w, r)
}

// addRateLimitHeaders adds rate limiting information to the response headers.
func (l *Limiter) addRateLimitHeaders(w http.ResponseWriter, limWrapper *limiterWrapper) {
	limWrapper.mu.Lock()
	defer limWrapper.mu.Unlock()

	limiter := limWrapper.limiter

	currentTokens := limiter.TokensAt(l.timeNow())
	burst := limiter.Burst()
	limit := limiter.Limit()

	remaining := max(int(math.Min(float64(burst), currentTokens)), 0)

	// Seconds until the bucket is full again.
	var resetTime int64

	if currentTokens < float64(burst) && limit > 0 {
		resetTime = int64(math.Ceil((float64(burst) - currentTokens) / float64(limit)))
	}

	resetStr := strconv.FormatInt(resetTime, 10)

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(burst))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(remaining))
	w.Header().Set(HeaderRateLimitReset, resetStr)

	if remaining == 0 {
		w.Header().Set("Retry-After", resetStr)
	}
}
