// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"regexp"
	"slices"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/photogallery/gallery/core/gallery"
	"codeberg.org/photogallery/gallery/server/utils"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errUnixSocketUserDoesNotExist   = errors.New("user does not exist")
	errUnixSocketGroupDoesNotExist  = errors.New("group does not exist")
	errEmptyMetadataFile            = errors.New("Gallery.MetadataFile cannot be empty")
	errEmptyImagesDir               = errors.New("Gallery.ImagesDir cannot be empty")
	errInvalidPhotosPerTag          = errors.New("Gallery.PhotosPerTag must be between 1 and 4")
	errInvalidLogLevel              = errors.New("invalid Log.Level")
	errInvalidLogFormat             = errors.New("invalid Log.Format")
	errInvalidRepoURL               = errors.New("Instance.RepoURL must be an absolute URL")
	errInvalidCompressionMinSize    = errors.New("Compression.MinSize cannot be negative")
	errInvalidLimiterRate           = errors.New("Limiter.Rate must be positive")
	errInvalidLimiterBurst          = errors.New("Limiter.Burst must be positive")
	errInvalidIPv4Prefix            = errors.New("IPv4 prefix must be between 0 and 32")
	errInvalidIPv6Prefix            = errors.New("IPv6 prefix must be between 0 and 128")
	errInvalidLimiterAddress        = errors.New("invalid IP address or CIDR in limiter list")
)

var (
	fileModeOctalRegexp  = regexp.MustCompile(`^0?[0-7]{3}$`)
	fileModeStringRegexp = regexp.MustCompile(`^(?:[r-][w-][x-]){3}$`)
	digitsRegexp         = regexp.MustCompile(`^[0-9]+$`)
)

// validateAndSet validates the server configuration and populates some fields.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	if err := cfg.validateGallery(); err != nil {
		return err
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	repoURL, err := utils.ParseURL(cfg.Instance.RepoURL, "Repo")
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidRepoURL, err)
	}

	cfg.Instance.RepoURL = repoURL.String()

	if cfg.Compression.MinSize < 0 {
		return errInvalidCompressionMinSize
	}

	return cfg.validateLimiter()
}

func (cfg *ServerConfig) validateListener() error {
	if cfg.Basic.UnixSocket == "" {
		// Set TCP defaults
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = defaultHost
			log.Info().
				Str("host", cfg.Basic.Host).
				Msg("Binding to default host")
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = defaultPort
			log.Info().
				Str("port", cfg.Basic.Port).
				Msg("Using default port")
		}

		return nil
	}

	if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
		return errUnixSocketWithHostPort
	}

	mode, err := parseFileMode(cfg.Basic.RawUnixSocketPermissions)
	if err != nil {
		return err
	}

	cfg.Basic.UnixSocketPermissions = mode

	if cfg.Basic.UnixSocketUser != "" && !accountExists(cfg.Basic.UnixSocketUser, user.LookupId, user.Lookup) {
		return errUnixSocketUserDoesNotExist
	}

	if cfg.Basic.UnixSocketGroup != "" && !groupExists(cfg.Basic.UnixSocketGroup) {
		return errUnixSocketGroupDoesNotExist
	}

	return nil
}

// parseFileMode accepts either an octal mode ("660", "0660") or a symbolic
// one ("rw-rw----"). An empty string means 0o666.
func parseFileMode(raw string) (os.FileMode, error) {
	switch {
	case raw == "":
		return 0o666, nil
	case fileModeOctalRegexp.MatchString(raw):
		rawModeUint64, _ := strconv.ParseUint(raw, 8, 32)

		return os.FileMode(rawModeUint64), nil
	case fileModeStringRegexp.MatchString(raw):
		mode := os.FileMode(0)

		for i, c := range raw {
			// Set the i-th bit from the end for every permission that is present
			if c != '-' {
				const bitsInByte = 8

				mode |= 1 << (bitsInByte - i)
			}
		}

		return mode, nil
	default:
		return 0, errUnixSocketInvalidPermissions
	}
}

func accountExists(
	name string,
	byID func(string) (*user.User, error),
	byName func(string) (*user.User, error),
) bool {
	lookup := byName
	if digitsRegexp.MatchString(name) {
		lookup = byID
	}

	_, err := lookup(name)

	return err == nil
}

func groupExists(name string) bool {
	lookup := user.LookupGroup
	if digitsRegexp.MatchString(name) {
		lookup = user.LookupGroupId
	}

	_, err := lookup(name)

	return err == nil
}

func (cfg *ServerConfig) validateGallery() error {
	if cfg.Gallery.MetadataFile == "" {
		return errEmptyMetadataFile
	}

	if cfg.Gallery.ImagesDir == "" {
		return errEmptyImagesDir
	}

	if cfg.Gallery.PhotosPerTag < 1 || cfg.Gallery.PhotosPerTag > gallery.DefaultPhotosPerTag {
		return errInvalidPhotosPerTag
	}

	return nil
}

func (cfg *ServerConfig) validateLimiter() error {
	// Skip validating Limiter configuration if it's not enabled
	if !cfg.Limiter.Enabled {
		return nil
	}

	if cfg.Limiter.Rate <= 0 {
		return errInvalidLimiterRate
	}

	if cfg.Limiter.Burst <= 0 {
		return errInvalidLimiterBurst
	}

	if cfg.Limiter.IPv4Prefix < 0 || cfg.Limiter.IPv4Prefix > 32 {
		return errInvalidIPv4Prefix
	}

	if cfg.Limiter.IPv6Prefix < 0 || cfg.Limiter.IPv6Prefix > 128 {
		return errInvalidIPv6Prefix
	}

	for _, entry := range slices.Concat(cfg.Limiter.PassIPs, cfg.Limiter.BlockIPs) {
		if net.ParseIP(entry) != nil {
			continue
		}

		if _, _, err := net.ParseCIDR(entry); err != nil {
			return fmt.Errorf("%w: %q", errInvalidLimiterAddress, entry)
		}
	}

	return nil
}
