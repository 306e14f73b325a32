// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Gallery serves a page of photos grouped by tag.

The images directory and the metadata file are read again for every page, so
photos can be added or retagged while the server is running.
*/
package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/photogallery/gallery/config"
	"codeberg.org/photogallery/gallery/core/audit"
	"codeberg.org/photogallery/gallery/core/gallery"
	"codeberg.org/photogallery/gallery/server/assets"
	"codeberg.org/photogallery/gallery/server/router"
)

// http.Server limits, see gosec G112.
const (
	readHeaderTimeout = 15 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 30 * time.Second

	// in-flight requests get this long to finish after SIGINT or SIGTERM
	shutdownGrace = 5 * time.Second
)

// Stylesheet, favicon and robots.txt. Photos live outside the binary.
//
//go:embed assets/css assets/img assets/robots.txt
var staticFiles embed.FS

//nolint:gochecknoinits // assets.FS must be set before any route serves a file
func init() {
	assets.FS = staticFiles
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Gallery stopped")
	}
}

// run loads the configuration and serves the gallery until the process is
// asked to stop.
func run() error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logGallerySummary(ctx)

	listener, err := listen(ctx)
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           router.New(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return serve(ctx, server, listener)
}

// serve runs server on listener until ctx is done, then shuts it down.
func serve(ctx context.Context, server *http.Server, listener net.Listener) error {
	served := make(chan error, 1)

	go func() {
		served <- server.Serve(listener)
	}()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Stop requested, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	log.Info().Msg("Server exited gracefully")

	return nil
}

// logGallerySummary reports what the index page would show right now.
//
// A gallery that cannot be read is not fatal: pages render empty until it is fixed.
func logGallerySummary(ctx context.Context) {
	cfg := config.Global.GalleryConfig()

	photos, err := gallery.NewLoader(cfg, nil).TryLoad(ctx)
	if err != nil {
		log.Warn().
			Err(err).
			Str("metadata", cfg.MetadataFile).
			Str("images", cfg.ImagesDir).
			Msg("Gallery is not readable, pages will be empty")

		return
	}

	log.Info().
		Int("photos", len(photos)).
		Int("tags", gallery.Tags(ctx, photos).Len()).
		Msg("Gallery found")
}
