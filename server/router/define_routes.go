// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/http/pprof"

	"codeberg.org/photogallery/gallery/config"
	"codeberg.org/photogallery/gallery/server/assets"
	"codeberg.org/photogallery/gallery/server/middleware"
	"codeberg.org/photogallery/gallery/server/routes"
	"codeberg.org/photogallery/gallery/server/utils"
)

// DefineRoutes sets up all the routes for the application using our custom Router.
func (router *Router) DefineRoutes() {
	fileServerHandler := fileServer()

	// Serve specific files from the root of the 'assets' subdirectory.
	router.Handle("GET /robots.txt", fileServerHandler)
	router.HandleFunc("GET /favicon.ico", redirectTo("/img/favicon.svg"))

	// Serve files from subdirectories within 'assets'.
	// Patterns ending in "/" are prefix matches.
	router.Handle("GET /img/", fileServerHandler)
	router.Handle("GET /css/", fileServerHandler)

	// Photos
	router.HandleFunc("GET "+utils.GalleryPathPrefix, middleware.CatchError(StripPrefix(utils.GalleryPathPrefix, routes.GalleryImage)))
	router.HandleFunc("GET /api/photos", middleware.CatchError(routes.PhotosAPI))

	// About routes
	router.HandleFunc("GET /about", middleware.CatchError(routes.AboutPage))

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}

	// Index page routes
	// /{$} matches only the root path
	router.HandleFunc("GET /{$}", middleware.CatchError(routes.IndexPage))

	// Everything else gets the themed 404 page.
	router.HandleFunc("/", middleware.CatchError(routes.NotFoundPage))
}

// Serve static files from embedded assets.
func fileServer() http.HandlerFunc {
	staticContentFS, err := fs.Sub(assets.FS, "assets")
	if err != nil {
		panic(fmt.Errorf("failed to create sub-filesystem for embedded 'assets' directory: %w", err))
	}

	fileServer := http.FileServer(http.FS(staticContentFS))
	fileServerHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// go:embed files carry no modification time, so the per-instance
		// cache ID serves as a strong ETag.
		// ref: https://www.rfc-editor.org/rfc/rfc9110#weak.and.strong.validators
		w.Header().Set("ETag", `"`+config.Global.Instance.FileServerCacheID+`"`)
		fileServer.ServeHTTP(w, r)
	})

	return fileServerHandler
}

func registerDebugRoutes(router *Router) {
	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
}
