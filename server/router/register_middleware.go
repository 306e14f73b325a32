// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/photogallery/gallery/config"
	"codeberg.org/photogallery/gallery/server/middleware"
	"codeberg.org/photogallery/gallery/server/middleware/limiter"
	"codeberg.org/photogallery/gallery/server/middleware/set_request_context"
)

func (router *Router) RegisterMiddleware() {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.NormalizeURL)                // handle trailing slashes
	router.Use(set_request_context.WithRequestContext) // needed for everything else
	router.Use(middleware.SetResponseHeaders)          // all pages need this

	if config.Global.Compression.Enabled {
		router.UseHandler(middleware.Compression(config.Global.Compression.MinSize))
	}

	if config.Global.Limiter.Enabled {
		l := limiter.New(limiter.Settings{
			Rate:       config.Global.Limiter.Rate,
			Burst:      config.Global.Limiter.Burst,
			IPv4Prefix: config.Global.Limiter.IPv4Prefix,
			IPv6Prefix: config.Global.Limiter.IPv6Prefix,
			PassIPs:    config.Global.Limiter.PassIPs,
			BlockIPs:   config.Global.Limiter.BlockIPs,
		})

		router.Use(l.Evaluate)
	}
}
