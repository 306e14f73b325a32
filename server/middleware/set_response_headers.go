// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"fmt"
	"maps"
	"net/http"
	"strings"
	"sync/atomic"

	"codeberg.org/photogallery/gallery/config"
	"codeberg.org/photogallery/gallery/server/utils"
)

var (
	// baseHeaders defines the default headers to be set in responses.
	//
	// Gallery-Version and Gallery-Revision are added dynamically in SetResponseHeaders.
	baseHeaders = http.Header{
		"Referrer-Policy":         {"no-referrer"},
		"X-Frame-Options":         {"DENY"},
		"X-Content-Type-Options":  {"nosniff"},
		"Permissions-Policy":      {strings.Join(defaultPermissionsPolicy, ", ")},
		"Content-Security-Policy": {strings.Join(baseCSP, "; ") + ";"},
	}

	// The page has no scripts, frames or forms.
	baseCSP = []string{
		"base-uri 'self'",
		"default-src 'self'",
		"img-src 'self' data:",
		"style-src 'self'",
		"script-src 'none'",
		"form-action 'none'",
		"frame-ancestors 'none'",
	}

	defaultPermissionsPolicy = []string{
		"accelerometer=()",
		"camera=()",
		"display-capture=()",
		"geolocation=()",
		"gyroscope=()",
		"magnetometer=()",
		"microphone=()",
		"payment=()",
		"usb=()",
	}
)

// SetResponseHeaders adds default headers to HTTP responses.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	if config.Global.Development.InDevelopment {
		invalidateCacheInDevelopment(headers)
	}

	setCacheControl(headers, r.URL.Path)

	headers.Set("Gallery-Version", config.BuildVersion)
	headers.Set("Gallery-Revision", config.Global.Build.Revision())

	next.ServeHTTP(w, r)
}

var firstDevResponse atomic.Bool

// clear the browser cache once per development run
func invalidateCacheInDevelopment(headers http.Header) {
	if firstDevResponse.CompareAndSwap(false, true) {
		headers.Set("Clear-Site-Data", `"cache"`)
	}
}

// setCacheControl sets cache control headers for static assets and images.
//
// Page handlers override it with their own policy.
func setCacheControl(headers http.Header, path string) {
	// Default to only storing in the browser cache and forcing revalidation
	cacheDuration := "private, no-cache"

	switch {
	case strings.HasPrefix(path, "/css/"):
		// 1 week
		cacheDuration = "max-age=604800"
	case strings.HasPrefix(path, "/img/"):
		// 2 weeks
		cacheDuration = "max-age=1209600"
	case strings.HasPrefix(path, utils.GalleryPathPrefix):
		cacheDuration = fmt.Sprintf("public, max-age=%d", int(config.Global.HTTPCache.ImageMaxAge.Seconds()))
	case strings.HasSuffix(path, ".txt"):
		// 1 day
		cacheDuration = "max-age=86400"
	}

	headers.Set("Cache-Control", cacheDuration)
}
