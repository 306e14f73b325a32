// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package gallery

// DefaultPhotosPerTag is the number of photos shown per tag: one 2x2 grid.
const DefaultPhotosPerTag = 4

// TagGroup is a tag together with the photos displayed under it.
type TagGroup struct {
	Tag    string
	Photos []Photo
}

// Group returns one TagGroup per tag, in tag set order.
//
// Each group holds at most limit photos carrying the tag, in the order of
// photos. A photo may belong to several groups, and a tag nobody carries gets
// a group without photos. A limit of zero or less means DefaultPhotosPerTag.
func Group(photos []Photo, tags TagSet, limit int) []TagGroup {
	if limit <= 0 {
		limit = DefaultPhotosPerTag
	}

	groups := make([]TagGroup, 0, tags.Len())

	for _, tag := range tags.Values() {
		group := TagGroup{
			Tag:    tag,
			Photos: make([]Photo, 0, limit),
		}

		for _, photo := range photos {
			if len(group.Photos) == limit {
				break
			}

			if photo.HasTag(tag) {
				group.Photos = append(group.Photos, photo)
			}
		}

		groups = append(groups, group)
	}

	return groups
}
