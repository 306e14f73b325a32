// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"
)

// Compression returns a handler decorator that gzip-compresses responses of
// at least minSize bytes for clients that accept it.
//
// The decorator is meant to be applied once, when the handler chain is built.
// Content that is already compressed, such as JPEG or PNG images, is passed
// through untouched by gzhttp's content type check.
func Compression(minSize int) func(http.Handler) http.Handler {
	wrapper, err := gzhttp.NewWrapper(gzhttp.MinSize(minSize))
	if err != nil {
		log.Err(err).
			Int("min_size", minSize).
			Msg("Failed to create compression wrapper, responses will not be compressed")

		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return wrapper(next)
	}
}
