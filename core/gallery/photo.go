// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package gallery

import "slices"

// Photo is a single image of the gallery.
//
// Filename is the name of the file inside the images directory and uniquely
// identifies the photo. Tags is never nil for photos produced by [Loader].
type Photo struct {
	Filename string   `json:"filename"`
	Title    string   `json:"title"`
	Tags     []string `json:"tags"`

	// set when the metadata entry had a tags value that is not a list of strings
	tagsErr error
}

// HasTag reports whether the photo is tagged with tag.
func (p Photo) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

// AltText returns the text used as the alt attribute of the photo's image.
func (p Photo) AltText() string {
	if p.Title != "" {
		return p.Title
	}

	return p.Filename
}

// metadataIndex maps filenames to their metadata entry.
//
// When a filename is listed more than once, the first entry wins.
type metadataIndex map[string]Photo

func newMetadataIndex(entries []Photo) metadataIndex {
	index := make(metadataIndex, len(entries))

	for _, entry := range entries {
		if _, seen := index[entry.Filename]; seen {
			continue
		}

		index[entry.Filename] = entry
	}

	return index
}

// photoFor builds the photo for filename, filling in title and tags from the
// matching entry if there is one.
func (index metadataIndex) photoFor(filename string) Photo {
	photo := Photo{
		Filename: filename,
		Tags:     []string{},
	}

	entry, ok := index[filename]
	if !ok {
		return photo
	}

	photo.Title = entry.Title
	photo.tagsErr = entry.tagsErr

	if len(entry.Tags) > 0 {
		photo.Tags = slices.Clone(entry.Tags)
	}

	return photo
}
