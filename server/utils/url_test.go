// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils_test

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/photogallery/gallery/server/utils"
)

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		urlStr   string
		wantErr  bool
		expected string
	}{
		{"Valid URL", "https://example.com", false, "https://example.com"},
		{"Valid URL with path", "https://example.com/path", false, "https://example.com/path"},
		{"Missing scheme", "example.com", true, ""},
		{"Missing host", "https://", true, ""},
		{"Trailing slash", "https://example.com/", false, "https://example.com"},
		{"Empty URL", "", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := utils.ParseURL(tt.urlStr, "Test")
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			if assert.NoError(t, err) {
				assert.Equal(t, tt.expected, got.String())
			}
		})
	}
}

func TestGetOriginFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "http://photos.test/", nil)
	assert.Equal(t, "http://photos.test", utils.GetOriginFromRequest(r))

	r.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://photos.test", utils.GetOriginFromRequest(r))

	r.TLS = nil
	r.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://photos.test", utils.GetOriginFromRequest(r))
}

func TestImageURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/gallery/a.jpg", utils.ImageURL("a.jpg"))
	assert.Equal(t, "/gallery/my%20photo%231.jpg", utils.ImageURL("my photo#1.jpg"))
	assert.Equal(t, "/gallery/..%2Fsecret", utils.ImageURL("../secret"))
}
