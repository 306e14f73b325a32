// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"

	"codeberg.org/photogallery/gallery/server/request_context"
)

// WithRequestContext is a middleware that attaches a RequestContext to each HTTP request.
//
// The request ID is echoed in the X-Request-Id response header.
func WithRequestContext(w http.ResponseWriter, r *http.Request, next http.Handler) {
	r = r.WithContext(request_context.WithRequestContext(r.Context(), r))

	w.Header().Set("X-Request-Id", request_context.FromRequest(r).RequestID)

	next.ServeHTTP(w, r)
}
