// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/photogallery/gallery/server/middleware"
	"codeberg.org/photogallery/gallery/server/request_context"
)

// TestWithRequestContext_AttachesContext tests that request context is properly attached.
func TestWithRequestContext_AttachesContext(t *testing.T) {
	t.Parallel()

	var (
		requestID   string
		statusCode  int
		currentPath string
	)

	handler := middleware.Wrap(WithRequestContext, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := request_context.FromRequest(r)

		requestID = ctx.RequestID
		statusCode = ctx.StatusCode
		currentPath = ctx.CommonData.CurrentPath

		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/about", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}

	if requestID == "" {
		t.Error("Expected request ID to be set")
	}

	if got := rr.Header().Get("X-Request-Id"); got != requestID {
		t.Errorf("Expected X-Request-Id %q, got %q", requestID, got)
	}

	if statusCode != http.StatusOK {
		t.Errorf("Expected status code %d in context, got %d", http.StatusOK, statusCode)
	}

	if currentPath != "/about" {
		t.Errorf("Expected current path %q, got %q", "/about", currentPath)
	}
}

// TestWithRequestContext_GeneratesUniqueRequestIDs tests that each request gets a unique ID.
func TestWithRequestContext_GeneratesUniqueRequestIDs(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)

	handler := middleware.Wrap(WithRequestContext, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen[request_context.FromRequest(r).RequestID] = true
	}))

	for range 10 {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	if len(seen) < 9 {
		t.Errorf("Expected distinct request IDs, got %d distinct out of 10", len(seen))
	}
}

// TestFromContext_Missing tests that a zero value is returned without middleware.
func TestFromContext_Missing(t *testing.T) {
	t.Parallel()

	ctx := request_context.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	if ctx == nil || ctx.RequestID != "" {
		t.Errorf("Expected zero-value request context, got %+v", ctx)
	}
}
