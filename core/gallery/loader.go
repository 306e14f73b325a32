// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package gallery

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"codeberg.org/photogallery/gallery/core/audit"
)

var (
	// ErrMalformedMetadata is returned when the metadata file is not a list of photo entries.
	ErrMalformedMetadata = errors.New("malformed metadata")

	errNotAnArray = errors.New("top-level value is not an array")
)

// Loader builds the photo list from a Source.
type Loader struct {
	cfg    Config
	source Source
}

// NewLoader returns a Loader for cfg.
//
// If source is nil, the paths in cfg are read from disk.
func NewLoader(cfg Config, source Source) *Loader {
	if source == nil {
		source = NewOSSource(cfg)
	}

	return &Loader{
		cfg:    cfg,
		source: source,
	}
}

// Load returns one photo per entry of the images directory.
//
// Load never fails: errors are logged and reported as an empty, non-nil slice.
func (l *Loader) Load(ctx context.Context) []Photo {
	photos, err := l.TryLoad(ctx)
	if err != nil {
		log.Err(err).
			Str("metadata", l.cfg.MetadataFile).
			Str("images", l.cfg.ImagesDir).
			Msg("Failed to load photos")

		return []Photo{}
	}

	return photos
}

// TryLoad is like Load but returns the error instead of discarding the photos.
//
// Photos are returned in the order the directory is listed in.
func (l *Loader) TryLoad(ctx context.Context) ([]Photo, error) {
	span := audit.Span{
		Destination: audit.ToDisk,
		Method:      "LOAD",
		URL:         l.cfg.MetadataFile,
	}

	_ = span.Begin(ctx)

	photos, size, err := l.load()

	span.End()
	span.Size = size
	span.Error = err
	span.Log()

	if err != nil {
		return nil, err
	}

	return photos, nil
}

func (l *Loader) load() ([]Photo, int, error) {
	data, err := l.source.ReadMetadata()
	if err != nil {
		return nil, 0, err
	}

	entries, err := decodeMetadata(l.cfg.MetadataFile, data)
	if err != nil {
		return nil, len(data), err
	}

	dirEntries, err := l.source.ReadDir()
	if err != nil {
		return nil, len(data), err
	}

	index := newMetadataIndex(entries)
	photos := make([]Photo, 0, len(dirEntries))

	for _, dirEntry := range dirEntries {
		photos = append(photos, index.photoFor(dirEntry.Name()))
	}

	return photos, len(data), nil
}

// decodeMetadata parses the metadata file content.
//
// The format is picked from the file extension: ".yaml" and ".yml" are read as
// YAML, anything else as JSON. Only a document that is not a list fails; list
// items are decoded one by one and items without a string filename are skipped.
func decodeMetadata(name string, data []byte) ([]Photo, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedMetadata, err)
		}

		data = converted
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedMetadata)
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMetadata, errNotAnArray)
	}

	var entries []Photo

	root.ForEach(func(_, item gjson.Result) bool {
		if entry, ok := decodeEntry(item); ok {
			entries = append(entries, entry)
		}

		return true
	})

	return entries, nil
}

// decodeEntry reads one metadata item.
//
// Scalar titles are kept in their text form. A tags value that is neither
// absent, null nor a list of strings leaves the entry untagged and is reported
// later by [Aggregate].
func decodeEntry(item gjson.Result) (Photo, bool) {
	if !item.IsObject() {
		return Photo{}, false
	}

	filename := item.Get("filename")
	if filename.Type != gjson.String {
		return Photo{}, false
	}

	entry := Photo{Filename: filename.Str}

	switch title := item.Get("title"); title.Type {
	case gjson.String:
		entry.Title = title.Str
	case gjson.Number, gjson.True, gjson.False:
		entry.Title = title.String()
	case gjson.Null, gjson.JSON:
	}

	tags := item.Get("tags")

	switch {
	case !tags.Exists(), tags.Type == gjson.Null:
	case tags.IsArray():
		for _, tag := range tags.Array() {
			if tag.Type != gjson.String {
				entry.Tags = nil
				entry.tagsErr = fmt.Errorf("%w: element %s is not a string", ErrMalformedTags, tag.Raw)

				break
			}

			entry.Tags = append(entry.Tags, tag.Str)
		}
	default:
		entry.tagsErr = fmt.Errorf("%w: got %s", ErrMalformedTags, tags.Raw)
	}

	return entry, true
}
