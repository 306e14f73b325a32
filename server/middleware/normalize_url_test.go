// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		requestURL       string
		expectedStatus   int
		expectedLocation string
	}{
		{
			name:           "Root path should not redirect",
			requestURL:     "/",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Path without trailing slash should not redirect",
			requestURL:     "/about",
			expectedStatus: http.StatusOK,
		},
		{
			name:             "Path with trailing slash should redirect",
			requestURL:       "/about/",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/about",
		},
		{
			name:             "Repeated trailing slashes collapse",
			requestURL:       "/api/photos//",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/api/photos",
		},
		{
			name:             "Slash-only path redirects to root",
			requestURL:       "//",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/",
		},
		{
			name:             "Query parameters should be preserved",
			requestURL:       "/api/photos/?pretty=1",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/api/photos?pretty=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			handler := Wrap(NormalizeURL, nextHandler)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.requestURL, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedLocation, w.Header().Get("Location"))
		})
	}
}

func TestHasTrailingSlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected bool
	}{
		{"/", false},
		{"/about", false},
		{"/about/", true},
		{"/gallery/sub/", true},
		{"/gallery/cat.jpg", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)

			assert.Equal(t, tt.expected, hasTrailingSlash(req))
		})
	}
}
