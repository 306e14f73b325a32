// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
)

// ErrMalformedTags is returned by Aggregate when a photo's metadata entry has a
// tags value that is not a list of strings.
var ErrMalformedTags = errors.New("malformed tags")

// TagSet is a set of distinct tags that remembers insertion order.
//
// The zero value is an empty set ready for use.
type TagSet struct {
	order []string
	index map[string]struct{}
}

// NewTagSet returns a set holding tags, duplicates removed.
func NewTagSet(tags ...string) TagSet {
	var set TagSet

	for _, tag := range tags {
		set.Add(tag)
	}

	return set
}

// Add inserts tag and reports whether it was not already present.
func (s *TagSet) Add(tag string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}

	if _, ok := s.index[tag]; ok {
		return false
	}

	s.index[tag] = struct{}{}
	s.order = append(s.order, tag)

	return true
}

// Contains reports whether tag is in the set.
func (s TagSet) Contains(tag string) bool {
	_, ok := s.index[tag]

	return ok
}

// Len returns the number of tags.
func (s TagSet) Len() int {
	return len(s.order)
}

// Values returns the tags in insertion order.
func (s TagSet) Values() []string {
	if len(s.order) == 0 {
		return []string{}
	}

	return slices.Clone(s.order)
}

// Sorted returns the tags in lexical order.
func (s TagSet) Sorted() []string {
	values := s.Values()
	slices.Sort(values)

	return values
}

// MarshalJSON encodes the set as an array in insertion order.
func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// Aggregate collects the distinct tags of photos.
//
// Every tag is kept as written, the empty string included. If it stops early,
// because ctx is done or a photo's metadata had malformed tags, it returns the
// tags gathered up to that point together with the error.
func Aggregate(ctx context.Context, photos []Photo) (TagSet, error) {
	var tags TagSet

	for _, photo := range photos {
		if err := ctx.Err(); err != nil {
			return tags, fmt.Errorf("aggregating tags: %w", err)
		}

		if photo.tagsErr != nil {
			return tags, fmt.Errorf("metadata of %q: %w", photo.Filename, photo.tagsErr)
		}

		for _, tag := range photo.Tags {
			tags.Add(tag)
		}
	}

	return tags, nil
}

// Tags is like Aggregate but logs the error and keeps the partial result.
func Tags(ctx context.Context, photos []Photo) TagSet {
	tags, err := Aggregate(ctx, photos)
	if err != nil {
		log.Err(err).
			Int("partial", tags.Len()).
			Msg("Failed to aggregate tags")
	}

	return tags
}
