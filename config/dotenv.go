// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const dotEnvFilename = ".env"

// useDotEnv loads environment variables from the first .env file found in
// the current working directory or the directory of the binary.
//
// Variables already present in the environment are left untouched. A missing
// .env file is not an error.
func useDotEnv() error {
	for _, dir := range dotEnvDirs() {
		envPath := filepath.Join(dir, dotEnvFilename)

		data, err := os.ReadFile(envPath) // #nosec G304 -- fixed filename in known directories
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return fmt.Errorf("reading %s: %w", envPath, err)
		}

		for key, value := range parseDotEnv(envPath, string(data)) {
			if _, set := os.LookupEnv(key); set {
				continue
			}

			if err := os.Setenv(key, value); err != nil {
				log.Warn().
					Err(err).
					Str("key", key).
					Msg("Could not set environment variable")
			}
		}

		log.Info().
			Str("path", envPath).
			Msg("Loaded configuration from .env file")

		return nil
	}

	log.Debug().Msg("No .env file found, skipping")

	return nil
}

func dotEnvDirs() []string {
	var dirs []string

	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	} else {
		log.Warn().
			Err(err).
			Msg("Could not get current working directory")
	}

	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}

	return dirs
}

// parseDotEnv reads KEY=VALUE lines. Blank lines and lines starting with '#'
// are skipped; values may be wrapped in single or double quotes.
func parseDotEnv(envPath, content string) map[string]string {
	vars := make(map[string]string)

	for lineNumber, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			log.Warn().
				Str("path", envPath).
				Int("line", lineNumber+1).
				Str("content", line).
				Msg("Invalid format in .env file")

			continue
		}

		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		if len(value) >= 2 && value[0] == value[len(value)-1] && (value[0] == '"' || value[0] == '\'') {
			value = value[1 : len(value)-1]
		}

		vars[key] = value
	}

	return vars
}
