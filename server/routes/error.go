// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/photogallery/gallery/assets/views"
	"codeberg.org/photogallery/gallery/server/request_context"
)

// ErrorPage renders the error page with the status code stored in the request context.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	ctx := request_context.FromRequest(r)

	statusCode := ctx.StatusCode
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)

	pageData := views.ErrorData{
		Title:      "Error",
		Error:      ctx.RequestError,
		StatusCode: statusCode,
	}

	if err := views.Error(pageData).Render(r.Context(), w); err != nil {
		log.Err(err).Msg("Failed to render the error page")
	}
}

// NotFoundPage is the handler for paths no other route matches.
func NotFoundPage(w http.ResponseWriter, r *http.Request) error {
	http.NotFound(w, r)

	return nil
}
