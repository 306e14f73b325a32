// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	_ "codeberg.org/photogallery/gallery/core/audit" // setup better logging format
	"codeberg.org/photogallery/gallery/core/gallery"
	"codeberg.org/photogallery/gallery/core/idgen"
)

// Global exposes the server configuration.
var Global ServerConfig

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"GALLERY_HOST,overwrite" yaml:"host"`
		Port                     string      `env:"GALLERY_PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"GALLERY_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"GALLERY_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
		UnixSocketUser           string      `env:"GALLERY_UNIXSOCKET_USER" yaml:"unixSocketUser"`
		UnixSocketGroup          string      `env:"GALLERY_UNIXSOCKET_GROUP" yaml:"unixSocketGroup"`
	} `yaml:"basic"`

	Gallery struct {
		MetadataFile string `env:"GALLERY_METADATA_FILE,overwrite" yaml:"metadataFile"`
		ImagesDir    string `env:"GALLERY_IMAGES_DIR,overwrite" yaml:"imagesDir"`
		Title        string `env:"GALLERY_TITLE,overwrite" yaml:"title"`
		// PhotosPerTag is the number of grid cells of a tag tile.
		PhotosPerTag int `env:"GALLERY_PHOTOS_PER_TAG,overwrite" yaml:"photosPerTag"`
	} `yaml:"gallery"`

	HTTPCache struct {
		MaxAge               time.Duration `env:"GALLERY_CACHE_CONTROL_MAX_AGE,overwrite" yaml:"cacheControlMaxAge"`
		StaleWhileRevalidate time.Duration `env:"GALLERY_CACHE_CONTROL_STALE_WHILE_REVALIDATE,overwrite" yaml:"cacheControlStaleWhileRevalidate"`
		ImageMaxAge          time.Duration `env:"GALLERY_CACHE_CONTROL_IMAGE_MAX_AGE,overwrite" yaml:"cacheControlImageMaxAge"`
	} `yaml:"httpCache"`

	Compression struct {
		Enabled bool `env:"GALLERY_COMPRESSION,overwrite" yaml:"enabled"`
		// MinSize is the smallest response body, in bytes, that gets compressed.
		MinSize int `env:"GALLERY_COMPRESSION_MIN_SIZE,overwrite" yaml:"minSize"`
	} `yaml:"compression"`

	Instance struct {
		StartingTime      string `yaml:"-"`
		FileServerCacheID string `yaml:"-"`
		RepoURL           string `env:"GALLERY_REPO_URL,overwrite" yaml:"repoUrl"`
	} `yaml:"instance"`

	Development struct {
		InDevelopment bool `env:"GALLERY_DEV" yaml:"inDevelopment"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"GALLERY_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"GALLERY_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"GALLERY_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Limiter struct {
		Enabled    bool     `env:"GALLERY_LIMITER,overwrite" yaml:"enabled"`
		Rate       float64  `env:"GALLERY_LIMITER_RATE,overwrite" yaml:"rate"`
		Burst      int      `env:"GALLERY_LIMITER_BURST,overwrite" yaml:"burst"`
		PassIPs    []string `env:"GALLERY_LIMITER_PASS_IPS,overwrite" yaml:"passList"`
		BlockIPs   []string `env:"GALLERY_LIMITER_BLOCK_IPS,overwrite" yaml:"blockList"`
		IPv4Prefix int      `env:"GALLERY_LIMITER_IPV4_PREFIX,overwrite" yaml:"ipv4Prefix"`
		IPv6Prefix int      `env:"GALLERY_LIMITER_IPV6_PREFIX,overwrite" yaml:"ipv6Prefix"`
	} `yaml:"limiter"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *ServerConfig) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	// Check if the -config flag was explicitly set by the user.
	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == configFlagName {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	// Determine the config file path with the correct precedence:
	// 1. Command-line flag (-config)
	// 2. Environment variable (GALLERY_CONFIGFILE)
	// 3. Default path with fallback check
	if configFlagUserSet {
		configFilePath = parsedConfigFlagValue
	} else if envVar := os.Getenv("GALLERY_CONFIGFILE"); envVar != "" {
		configFilePath = envVar
	} else {
		configFilePath = parsedConfigFlagValue
		// Then, perform a fallback check for "./config.yml".
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./config.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.FileServerCacheID = idgen.Make()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	cfg.checkGalleryPaths()

	// Heuristically check for containerized environment and warn if host is not a wildcard address.
	if isContainerized() && cfg.Basic.UnixSocket == "" && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a containerized environment but host is not a wildcard address (e.g., '0.0.0.0' or '::'). This may prevent the service from being accessible outside the container.")
	}

	return nil
}

// GalleryConfig returns the paths the photo loader reads from.
func (cfg *ServerConfig) GalleryConfig() gallery.Config {
	return gallery.Config{
		MetadataFile: cfg.Gallery.MetadataFile,
		ImagesDir:    cfg.Gallery.ImagesDir,
	}
}

// checkGalleryPaths warns about gallery paths that cannot be read yet.
//
// Missing paths are not fatal: the page renders as an empty gallery until they appear.
func (cfg *ServerConfig) checkGalleryPaths() {
	if _, err := os.Stat(cfg.Gallery.MetadataFile); err != nil {
		log.Warn().
			Err(err).
			Str("path", cfg.Gallery.MetadataFile).
			Msg("Metadata file is not readable, the gallery will be empty")
	}

	if info, err := os.Stat(cfg.Gallery.ImagesDir); err != nil || !info.IsDir() {
		log.Warn().
			Err(err).
			Str("path", cfg.Gallery.ImagesDir).
			Msg("Images directory is not readable, the gallery will be empty")
	}
}

var staticSkippedPathPrefixes = []string{"/css/", "/img/", "/gallery/"}

// ShouldSkipServerLogging determines if a request should bypass the logging middleware.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	if cfg.Development.InDevelopment {
		return false
	}

	for _, prefix := range staticSkippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// isContainerized checks for common indicators of a containerized environment.
//
// This is a heuristic and may not be 100% accurate.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	if _, err := os.Stat("/.containerenv"); err == nil {
		return true
	}

	// #nosec G304 -- We are checking for the existence and content of a well-known system file for heuristics.
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err == nil {
		content := string(cgroup)

		return strings.Contains(content, "docker") ||
			strings.Contains(content, "kubepods") ||
			strings.Contains(content, "containerd") ||
			strings.Contains(content, "lxc") ||
			strings.Contains(content, "crio") ||
			// systemd-nspawn containers
			strings.Contains(content, ".machine")
	}

	return false
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
