// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
To run these tests, specify `-tags=integration` when running `go test`.
*/
package main

import (
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// Server configuration constants.
	host      = "127.0.0.1:8282"
	authority = "http://127.0.0.1:8282"

	// Polling constants.
	retryCount  = 10
	dialTimeout = 250 * time.Millisecond
)

// httpTestCase defines a test case.
type httpTestCase struct {
	URL                string
	ExpectedStatusCode int
}

// TestMain is used for global setup and teardown.
//
// It writes a small gallery to a temporary directory, starts the server
// against it and waits for it to be available before running tests.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "gallery-integration")
	if err != nil {
		log.Fatalf("Failed to create gallery directory: %v", err)
	}

	if err := writeGallery(dir); err != nil {
		log.Fatalf("Failed to write gallery: %v", err)
	}

	os.Setenv("GALLERY_HOST", "127.0.0.1")
	os.Setenv("GALLERY_PORT", "8282")
	os.Setenv("GALLERY_METADATA_FILE", filepath.Join(dir, "photos.json"))
	os.Setenv("GALLERY_IMAGES_DIR", filepath.Join(dir, "gallery"))

	go func() {
		if err := run(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for the server.
	if !waitForServerReady() {
		log.Fatalf("Server did not start in time")
	}

	code := m.Run()

	_ = os.RemoveAll(dir)

	os.Exit(code)
}

func writeGallery(dir string) error {
	if err := os.Mkdir(filepath.Join(dir, "gallery"), 0o755); err != nil {
		return err
	}

	for _, name := range []string{"image1.jpg", "image2.jpg", "image3.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, "gallery", name), []byte(name), 0o600); err != nil {
			return err
		}
	}

	return os.WriteFile(filepath.Join(dir, "photos.json"), []byte(`[
	  {"filename": "image1.jpg", "title": "Sunset", "tags": ["nature", "sky"]},
	  {"filename": "image2.jpg", "title": "City", "tags": ["urban"]}
	]`), 0o600)
}

// waitForServerReady polls the server until it's available or the retries are exhausted.
func waitForServerReady() bool {
	for range retryCount {
		conn, err := net.DialTimeout("tcp", host, dialTimeout)
		if err == nil {
			_ = conn.Close()

			return true // Server is up.
		}

		time.Sleep(dialTimeout)
	}

	return false
}

// TestBasicAllRoutes tests all basic routes of the server.
func TestBasicAllRoutes(t *testing.T) {
	t.Parallel()

	testCases := []httpTestCase{
		{URL: "/", ExpectedStatusCode: http.StatusOK},
		{URL: "/about", ExpectedStatusCode: http.StatusOK},
		{URL: "/api/photos", ExpectedStatusCode: http.StatusOK},
		{URL: "/gallery/image1.jpg", ExpectedStatusCode: http.StatusOK},
		{URL: "/gallery/missing.jpg", ExpectedStatusCode: http.StatusNotFound},
		{URL: "/css/gallery.css", ExpectedStatusCode: http.StatusOK},
		{URL: "/img/favicon.svg", ExpectedStatusCode: http.StatusOK},
		{URL: "/robots.txt", ExpectedStatusCode: http.StatusOK},
		{URL: "/not-a-page", ExpectedStatusCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.URL, func(t *testing.T) {
			t.Parallel()

			resp, err := http.Get(authority + tc.URL)
			require.NoError(t, err)

			defer resp.Body.Close()

			_, _ = io.Copy(io.Discard, resp.Body)

			assert.Equal(t, tc.ExpectedStatusCode, resp.StatusCode)
		})
	}
}

// TestPhotosAPI checks the end-to-end example of a gallery with one untagged photo.
func TestPhotosAPI(t *testing.T) {
	t.Parallel()

	resp, err := http.Get(authority + "/api/photos")
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.JSONEq(t, `{
	  "photos": [
	    {"filename": "image1.jpg", "title": "Sunset", "tags": ["nature", "sky"]},
	    {"filename": "image2.jpg", "title": "City", "tags": ["urban"]},
	    {"filename": "image3.jpg", "title": "", "tags": []}
	  ],
	  "tags": ["nature", "sky", "urban"]
	}`, string(body))
}
