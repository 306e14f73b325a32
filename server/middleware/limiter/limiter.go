// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	LimiterExpiryDuration = time.Hour       // How long to keep idle limiters in memory.
	CleanupInterval       = 5 * time.Minute // Interval between limiter cleanup runs.
)

// Settings configures a Limiter.
type Settings struct {
	Rate       float64  // Tokens added per second.
	Burst      int      // Bucket size.
	IPv4Prefix int      // Prefix length grouping IPv4 clients into a network.
	IPv6Prefix int      // Prefix length grouping IPv6 clients into a network.
	PassIPs    []string // Addresses or CIDRs that are never limited.
	BlockIPs   []string // Addresses or CIDRs that are always rejected.
}

// Limiter keeps one token bucket per client network.
//
// It is safe for concurrent use.
type Limiter struct {
	settings Settings
	limiters sync.Map // network string -> *limiterWrapper

	cleanupMu     sync.Mutex
	lastCleanupAt time.Time

	timeNow func() time.Time
}

// limiterWrapper holds a rate limiter and the last time it was used.
type limiterWrapper struct {
	limiter    *rate.Limiter
	network    string
	lastAccess time.Time
	mu         sync.Mutex
}

// New returns a Limiter using settings.
func New(settings Settings) *Limiter {
	return &Limiter{
		settings: settings,
		timeNow:  time.Now,
	}
}

// checkRateLimit attempts to consume 1 token from the limiterWrapper.
//
// Returns an empty string if the request is allowed, or a non-empty string with
// the reason if the request is blocked due to rate limiting.
func (l *Limiter) checkRateLimit(limWrapper *limiterWrapper) string {
	limWrapper.mu.Lock()
	defer limWrapper.mu.Unlock()

	now := l.timeNow()

	limWrapper.lastAccess = now

	if !limWrapper.limiter.AllowN(now, 1) {
		return "Rate limit exceeded"
	}

	return ""
}

// getOrCreateLimiter returns the limiterWrapper of network, creating it on first use.
func (l *Limiter) getOrCreateLimiter(network *net.IPNet) *limiterWrapper {
	key := network.String()

	if value, ok := l.limiters.Load(key); ok {
		if limWrapper, ok := value.(*limiterWrapper); ok {
			return limWrapper
		}
	}

	limWrapper := &limiterWrapper{
		limiter:    rate.NewLimiter(rate.Limit(l.settings.Rate), l.settings.Burst),
		network:    key,
		lastAccess: l.timeNow(),
	}

	actual, _ := l.limiters.LoadOrStore(key, limWrapper)

	stored, ok := actual.(*limiterWrapper)
	if !ok {
		return limWrapper
	}

	return stored
}

// doCleanup drops limiters idle for longer than LimiterExpiryDuration, at most
// once per CleanupInterval.
func (l *Limiter) doCleanup() {
	l.cleanupMu.Lock()
	defer l.cleanupMu.Unlock()

	now := l.timeNow()

	if l.lastCleanupAt.IsZero() {
		l.lastCleanupAt = now

		return
	}

	if now.Sub(l.lastCleanupAt) < CleanupInterval {
		return
	}

	l.lastCleanupAt = now

	removed := l.cleanupExpiredLimiters(now)
	if removed > 0 {
		log.Debug().
			Int("removed", removed).
			Msg("Removed expired rate limiters")
	}
}

func (l *Limiter) cleanupExpiredLimiters(now time.Time) int {
	removed := 0

	l.limiters.Range(func(key, value any) bool {
		limWrapper, ok := value.(*limiterWrapper)
		if !ok {
			l.limiters.Delete(key)

			return true
		}

		limWrapper.mu.Lock()
		expired := now.Sub(limWrapper.lastAccess) > LimiterExpiryDuration
		limWrapper.mu.Unlock()

		if expired {
			l.limiters.Delete(key)

			removed++
		}

		return true
	})

	return removed
}
