// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"

	"codeberg.org/photogallery/gallery/server/middleware"
)

// Router wraps http.ServeMux and provides middleware chaining functionality.
type Router struct {
	*http.ServeMux

	middlewares []middleware.Middleware
}

// NewRouter creates a new Router instance.
func NewRouter() *Router {
	return &Router{
		ServeMux: http.NewServeMux(),
	}
}

// Use adds a middleware to the router's chain.
func (router *Router) Use(middleware middleware.Middleware) {
	router.middlewares = append(router.middlewares, middleware)
}

// UseHandler adds a middleware written as a handler decorator.
//
// wrap is called once, here, with a handler running the rest of the chain.
func (router *Router) UseHandler(wrap func(http.Handler) http.Handler) {
	wrapped := wrap(router.rest(len(router.middlewares) + 1))

	router.Use(func(w http.ResponseWriter, r *http.Request, _ http.Handler) {
		wrapped.ServeHTTP(w, r)
	})
}

// rest returns a handler running router.middlewares[i] and every thereafter.
func (router *Router) rest(i int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		router.serve(i, w, r)
	})
}

// runs router.middlewares[i] and every thereafter
func (router *Router) serve(i int, w http.ResponseWriter, r *http.Request) {
	if i < len(router.middlewares) {
		router.middlewares[i](w, r, router.rest(i+1))
	} else {
		router.ServeMux.ServeHTTP(w, r)
	}
}

// runs all middleware
func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router.serve(0, w, r)
}

// New returns a Router with every route and middleware registered.
func New() *Router {
	router := NewRouter()
	router.DefineRoutes()
	router.RegisterMiddleware()

	return router
}
