// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/photogallery/gallery/config"
	"codeberg.org/photogallery/gallery/server/assets"
)

// setupRouter builds the full router against a temporary gallery.
//
// It replaces config.Global and assets.FS, so tests using it must not run in parallel.
func setupRouter(t *testing.T, configure func(cfg *config.ServerConfig)) *Router {
	t.Helper()

	previousConfig, previousFS := config.Global, assets.FS
	t.Cleanup(func() {
		config.Global = previousConfig
		assets.FS = previousFS
	})

	dir := t.TempDir()
	imagesDir := filepath.Join(dir, "gallery")
	require.NoError(t, os.Mkdir(imagesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "image1.jpg"), []byte("jpeg"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "image2.jpg"), []byte("jpeg"), 0o600))

	metadataFile := filepath.Join(dir, "photos.json")
	require.NoError(t, os.WriteFile(metadataFile, []byte(`[
	  {"filename": "image1.jpg", "title": "Sunset", "tags": ["nature", "sky"]},
	  {"filename": "image2.jpg", "title": "City", "tags": ["urban"]}
	]`), 0o600))

	config.Global.SetDefaults()
	config.Global.Gallery.MetadataFile = metadataFile
	config.Global.Gallery.ImagesDir = imagesDir
	config.Global.Instance.FileServerCacheID = "testcache"

	if configure != nil {
		configure(&config.Global)
	}

	assets.FS = fstest.MapFS{
		"assets/css/gallery.css": {Data: []byte("body{margin:0}")},
		"assets/robots.txt":      {Data: []byte("User-agent: *\n")},
	}

	return New()
}

func get(router *Router, path string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	r.RemoteAddr = "203.0.113.5:1234"

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, r)

	return rr
}

func TestRouter_IndexPage(t *testing.T) {
	router := setupRouter(t, nil)

	rr := get(router, "/")
	require.Equal(t, http.StatusOK, rr.Code)

	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
	assert.Contains(t, rr.Header().Get("Server-Timing"), "disk$LOAD$")

	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Find("div.tile").Length())
	assert.Equal(t, "Gallery", doc.Find("title").Text())
}

func TestRouter_Routes(t *testing.T) {
	router := setupRouter(t, nil)

	tests := []struct {
		path         string
		wantStatus   int
		wantLocation string
	}{
		{path: "/about", wantStatus: http.StatusOK},
		{path: "/api/photos", wantStatus: http.StatusOK},
		{path: "/gallery/image1.jpg", wantStatus: http.StatusOK},
		{path: "/gallery/missing.jpg", wantStatus: http.StatusNotFound},
		{path: "/css/gallery.css", wantStatus: http.StatusOK},
		{path: "/robots.txt", wantStatus: http.StatusOK},
		{path: "/no-such-page", wantStatus: http.StatusNotFound},
		{path: "/about/", wantStatus: http.StatusPermanentRedirect, wantLocation: "/about"},
		{path: "/favicon.ico", wantStatus: http.StatusPermanentRedirect, wantLocation: "/img/favicon.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := get(router, tt.path)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantLocation, rr.Header().Get("Location"))
		})
	}
}

func TestRouter_NotFoundUsesErrorPage(t *testing.T) {
	router := setupRouter(t, nil)

	rr := get(router, "/no-such-page")
	require.Equal(t, http.StatusNotFound, rr.Code)

	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, "404 Not Found", doc.Find("h1.error-status").Text())
}

func TestRouter_ImageCacheControl(t *testing.T) {
	router := setupRouter(t, nil)

	rr := get(router, "/gallery/image1.jpg")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "public, max-age=86400", rr.Header().Get("Cache-Control"))
}

func TestRouter_Limiter(t *testing.T) {
	router := setupRouter(t, func(cfg *config.ServerConfig) {
		cfg.Limiter.Enabled = true
		cfg.Limiter.Burst = 2
		cfg.Limiter.Rate = 0.001
	})

	assert.Equal(t, http.StatusOK, get(router, "/").Code)
	assert.Equal(t, http.StatusOK, get(router, "/").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "/").Code)

	// Images are not limited.
	assert.Equal(t, http.StatusOK, get(router, "/gallery/image1.jpg").Code)
}

func TestRouter_UseHandlerWrapsOnce(t *testing.T) {
	t.Parallel()

	router := NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	var wraps, before, after int

	router.Use(func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		before++
		next.ServeHTTP(w, r)
	})
	router.UseHandler(func(next http.Handler) http.Handler {
		wraps++

		return next
	})
	router.Use(func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		after++
		next.ServeHTTP(w, r)
	})

	for range 3 {
		rr := get(router, "/")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ok", rr.Body.String())
	}

	assert.Equal(t, 1, wraps)
	assert.Equal(t, 3, before)
	assert.Equal(t, 3, after)
}

func TestRouter_Compression(t *testing.T) {
	router := setupRouter(t, func(cfg *config.ServerConfig) {
		cfg.Compression.Enabled = true
		cfg.Compression.MinSize = 16
	})

	for range 2 {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "203.0.113.5:1234"
		r.Header.Set("Accept-Encoding", "gzip")

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, r)

		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))

		zr, err := gzip.NewReader(rr.Body)
		require.NoError(t, err)

		doc, err := goquery.NewDocumentFromReader(zr)
		require.NoError(t, err)
		assert.Equal(t, 3, doc.Find("div.tile").Length())
	}
}
