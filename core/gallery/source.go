// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package gallery

import (
	"fmt"
	"io/fs"
	"os"
)

// Config locates the gallery content.
type Config struct {
	// MetadataFile is the path of the JSON (or YAML) metadata file.
	MetadataFile string

	// ImagesDir is the path of the directory holding the images.
	ImagesDir string
}

// Source gives the loader access to the metadata file and the images directory.
type Source interface {
	// ReadMetadata returns the raw content of the metadata file.
	ReadMetadata() ([]byte, error)

	// ReadDir lists the images directory.
	ReadDir() ([]fs.DirEntry, error)
}

// osSource reads the gallery content straight from the operating system's file system.
type osSource struct {
	cfg Config
}

// NewOSSource returns a Source reading the paths in cfg from disk.
func NewOSSource(cfg Config) Source {
	return osSource{cfg: cfg}
}

func (s osSource) ReadMetadata() ([]byte, error) {
	data, err := os.ReadFile(s.cfg.MetadataFile) // #nosec G304 -- path comes from the server configuration
	if err != nil {
		return nil, fmt.Errorf("reading metadata file: %w", err)
	}

	return data, nil
}

func (s osSource) ReadDir() ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(s.cfg.ImagesDir)
	if err != nil {
		return nil, fmt.Errorf("reading images directory: %w", err)
	}

	return entries, nil
}

// fsSource reads the gallery content from an fs.FS.
//
// Paths in its Config must be valid fs.FS paths (slash separated, unrooted).
type fsSource struct {
	fsys fs.FS
	cfg  Config
}

// NewFSSource returns a Source reading the paths in cfg from fsys.
func NewFSSource(fsys fs.FS, cfg Config) Source {
	return fsSource{fsys: fsys, cfg: cfg}
}

func (s fsSource) ReadMetadata() ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, s.cfg.MetadataFile)
	if err != nil {
		return nil, fmt.Errorf("reading metadata file: %w", err)
	}

	return data, nil
}

func (s fsSource) ReadDir() ([]fs.DirEntry, error) {
	entries, err := fs.ReadDir(s.fsys, s.cfg.ImagesDir)
	if err != nil {
		return nil, fmt.Errorf("reading images directory: %w", err)
	}

	return entries, nil
}
