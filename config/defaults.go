// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"time"

	"codeberg.org/photogallery/gallery/core/gallery"
)

const (
	defaultHost = "localhost"
	defaultPort = "8080"

	// Default HTTP cache max age in seconds.
	defaultHTTPCacheMaxAgeSeconds = 30
	// Default HTTP cache stale while revalidate in seconds.
	defaultHTTPCacheStaleWhileRevalidateSeconds = 60
	// Images rarely change under the same name: one day.
	defaultImageMaxAgeHours = 24

	// Bodies smaller than this are not worth compressing.
	defaultCompressionMinSize = 1024

	defaultLimiterRate  = 2.0
	defaultLimiterBurst = 120
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	cfg.Basic.Host = defaultHost
	cfg.Basic.Port = defaultPort

	cfg.Gallery.MetadataFile = "./data/photos.json"
	cfg.Gallery.ImagesDir = "./public/gallery"
	cfg.Gallery.Title = "Gallery"
	cfg.Gallery.PhotosPerTag = gallery.DefaultPhotosPerTag

	cfg.HTTPCache.MaxAge = defaultHTTPCacheMaxAgeSeconds * time.Second
	cfg.HTTPCache.StaleWhileRevalidate = defaultHTTPCacheStaleWhileRevalidateSeconds * time.Second
	cfg.HTTPCache.ImageMaxAge = defaultImageMaxAgeHours * time.Hour

	cfg.Compression.Enabled = true
	cfg.Compression.MinSize = defaultCompressionMinSize

	cfg.Instance.RepoURL = "https://codeberg.org/photogallery/gallery"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Limiter.Enabled = false
	cfg.Limiter.Rate = defaultLimiterRate
	cfg.Limiter.Burst = defaultLimiterBurst
	cfg.Limiter.IPv4Prefix = 24
	cfg.Limiter.IPv6Prefix = 48
}
