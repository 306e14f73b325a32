// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestLoadConfig focuses on verifying main functionality (precedence of sources,
rejection of invalid input), and *shouldn't* need exhaustive scenarios.

The tests in this file modify the process environment and therefore don't run in parallel.
*/

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
		check   func(t *testing.T, cfg *ServerConfig)
	}{
		{
			name: "Defaults",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *ServerConfig) {
				t.Helper()

				assert.Equal(t, "localhost", cfg.Basic.Host)
				assert.Equal(t, "8080", cfg.Basic.Port)
				assert.Equal(t, "./data/photos.json", cfg.Gallery.MetadataFile)
				assert.Equal(t, "./public/gallery", cfg.Gallery.ImagesDir)
				assert.Equal(t, 4, cfg.Gallery.PhotosPerTag)
				assert.NotEmpty(t, cfg.Instance.FileServerCacheID)
			},
		},
		{
			name: "Environment overrides",
			env: map[string]string{
				"GALLERY_HOST":           "0.0.0.0",
				"GALLERY_PORT":           "9000",
				"GALLERY_METADATA_FILE":  "/srv/photos.yaml",
				"GALLERY_IMAGES_DIR":     "/srv/images",
				"GALLERY_PHOTOS_PER_TAG": "2",
				"GALLERY_LIMITER":        "true",
				"GALLERY_LIMITER_RATE":   "0.5",
				"GALLERY_LIMITER_BURST":  "10",
			},
			check: func(t *testing.T, cfg *ServerConfig) {
				t.Helper()

				assert.Equal(t, "0.0.0.0", cfg.Basic.Host)
				assert.Equal(t, "9000", cfg.Basic.Port)
				assert.Equal(t, "/srv/photos.yaml", cfg.Gallery.MetadataFile)
				assert.Equal(t, "/srv/images", cfg.Gallery.ImagesDir)
				assert.Equal(t, 2, cfg.Gallery.PhotosPerTag)
				assert.True(t, cfg.Limiter.Enabled)
				assert.InDelta(t, 0.5, cfg.Limiter.Rate, 0.0001)
				assert.Equal(t, 10, cfg.Limiter.Burst)
			},
		},
		{
			name:    "Too many photos per tag",
			env:     map[string]string{"GALLERY_PHOTOS_PER_TAG": "9"},
			wantErr: errInvalidPhotosPerTag,
		},
		{
			name:    "Empty metadata file",
			env:     map[string]string{"GALLERY_METADATA_FILE": ""},
			wantErr: errEmptyMetadataFile,
		},
		{
			name:    "Unix socket together with host",
			env:     map[string]string{"GALLERY_UNIXSOCKET": "/tmp/gallery.sock"},
			wantErr: errUnixSocketWithHostPort,
		},
		{
			name: "Unix socket with symbolic permissions",
			env: map[string]string{
				"GALLERY_UNIXSOCKET":             "/tmp/gallery.sock",
				"GALLERY_UNIXSOCKET_PERMISSIONS": "rw-rw----",
				"GALLERY_HOST":                   "",
				"GALLERY_PORT":                   "",
			},
			check: func(t *testing.T, cfg *ServerConfig) {
				t.Helper()

				assert.Equal(t, os.FileMode(0o660), cfg.Basic.UnixSocketPermissions)
			},
		},
		{
			name:    "Invalid log level",
			env:     map[string]string{"GALLERY_LOG_LEVEL": "verbose"},
			wantErr: errInvalidLogLevel,
		},
		{
			name: "Invalid limiter list entry",
			env: map[string]string{
				"GALLERY_LIMITER":          "true",
				"GALLERY_LIMITER_PASS_IPS": "10.0.0.0/8, not-an-ip",
			},
			wantErr: errInvalidLimiterAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GALLERY_CONFIGFILE", filepath.Join(t.TempDir(), "missing.yaml"))

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := &ServerConfig{}

			err := cfg.LoadConfig()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)

			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestReadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
basic:
  port: "9999"
gallery:
  title: Holidays
  imagesDir: /data/images
httpCache:
  cacheControlMaxAge: 5m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := &ServerConfig{}
	cfg.SetDefaults()

	require.NoError(t, cfg.readYAML(path))

	assert.Equal(t, "9999", cfg.Basic.Port)
	assert.Equal(t, "localhost", cfg.Basic.Host)
	assert.Equal(t, "Holidays", cfg.Gallery.Title)
	assert.Equal(t, "/data/images", cfg.Gallery.ImagesDir)
	assert.Equal(t, "./data/photos.json", cfg.Gallery.MetadataFile)
	assert.Equal(t, 5*time.Minute, cfg.HTTPCache.MaxAge)

	// YAML overrides, environment wins
	t.Setenv("GALLERY_TITLE", "From env")
	require.NoError(t, readEnv(cfg))
	assert.Equal(t, "From env", cfg.Gallery.Title)
}

func TestReadYAML_MissingFile(t *testing.T) {
	cfg := &ServerConfig{}
	cfg.SetDefaults()

	require.NoError(t, cfg.readYAML(filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Equal(t, "Gallery", cfg.Gallery.Title)
}

func TestReadYAML_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("basic: [unterminated"), 0o600))

	cfg := &ServerConfig{}
	require.Error(t, cfg.readYAML(path))
}

func TestReadEnv_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"GALLERY_PHOTOS_PER_TAG":        "four",
		"GALLERY_CACHE_CONTROL_MAX_AGE": "forever",
		"GALLERY_COMPRESSION":           "maybe",
		"GALLERY_LIMITER_RATE":          "fast",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)

			cfg := &ServerConfig{}
			cfg.SetDefaults()

			require.Error(t, readEnv(cfg))
		})
	}
}

func TestReadEnv_SliceValues(t *testing.T) {
	t.Setenv("GALLERY_LOG_OUTPUTS", " /dev/stdout, ,/var/log/gallery.log ")

	cfg := &ServerConfig{}
	cfg.SetDefaults()

	require.NoError(t, readEnv(cfg))
	assert.Equal(t, []string{"/dev/stdout", "/var/log/gallery.log"}, cfg.Log.Outputs)
}

func TestParseDotEnv(t *testing.T) {
	t.Parallel()

	content := `
# comment
GALLERY_TITLE="My photos"
GALLERY_PORT = 9000
GALLERY_HOST='::'
not a pair
GALLERY_EMPTY=
`

	assert.Equal(t, map[string]string{
		"GALLERY_TITLE": "My photos",
		"GALLERY_PORT":  "9000",
		"GALLERY_HOST":  "::",
		"GALLERY_EMPTY": "",
	}, parseDotEnv(".env", content))
}

func TestParseFileMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    os.FileMode
		wantErr bool
	}{
		{raw: "", want: 0o666},
		{raw: "660", want: 0o660},
		{raw: "0600", want: 0o600},
		{raw: "rwxr-x---", want: 0o750},
		{raw: "rw-r--r--", want: 0o644},
		{raw: "999", wantErr: true},
		{raw: "rw", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseFileMode(tt.raw)
		if tt.wantErr {
			require.ErrorIs(t, err, errUnixSocketInvalidPermissions, tt.raw)

			continue
		}

		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestYAMLDurations(t *testing.T) {
	t.Parallel()

	cfg := &ServerConfig{}
	cfg.SetDefaults()

	out, err := cfg.YAML()
	require.NoError(t, err)

	assert.Contains(t, string(out), "cacheControlMaxAge: 30s")
	assert.Contains(t, string(out), "metadataFile: ./data/photos.json")
}

func TestShouldSkipServerLogging(t *testing.T) {
	t.Parallel()

	cfg := &ServerConfig{}

	assert.True(t, cfg.ShouldSkipServerLogging("/gallery/a.jpg"))
	assert.True(t, cfg.ShouldSkipServerLogging("/css/gallery.css"))
	assert.False(t, cfg.ShouldSkipServerLogging("/"))

	cfg.Development.InDevelopment = true
	assert.False(t, cfg.ShouldSkipServerLogging("/gallery/a.jpg"))
}

func TestBuildInfoRevision(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unknown", (&buildInfo{}).Revision())
	assert.Equal(t, "2025-03-01-0123abcd+dirty", (&buildInfo{
		VcsRevision: "0123abcdef456789",
		VcsTime:     "2025-03-01T10:00:00Z",
		VcsModified: true,
	}).Revision())
}
