// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"codeberg.org/photogallery/gallery/config"
	"codeberg.org/photogallery/gallery/core/gallery"
	"codeberg.org/photogallery/gallery/server/utils"
)

// maxPreloadedImages defines the maximum number of preloaded images
// to avoid excessive HTTP response header sizes.
const maxPreloadedImages = 4

// galleryState is everything a page needs to know about the photo collection.
type galleryState struct {
	Photos []gallery.Photo
	Tags   gallery.TagSet
}

// loadGallery reads the photo collection from disk.
//
// Nothing is cached, so changes to the metadata file or the image directory
// show up on the next request. Both steps fail soft: a broken collection
// yields an empty page rather than an error.
func loadGallery(ctx context.Context) galleryState {
	photos := gallery.NewLoader(config.Global.GalleryConfig(), nil).Load(ctx)

	return galleryState{
		Photos: photos,
		Tags:   gallery.Tags(ctx, photos),
	}
}

// pageCacheControl is the Cache-Control value of rendered pages.
func pageCacheControl() string {
	return fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d",
		int(config.Global.HTTPCache.MaxAge.Seconds()),
		int(config.Global.HTTPCache.StaleWhileRevalidate.Seconds()))
}

// makePreloadImageLink returns a Link header fragment to preload an image with high priority.
func makePreloadImageLink(url string) string {
	return fmt.Sprintf("<%s>; rel=\"preload\"; as=\"image\"; fetchpriority=\"high\"", url)
}

// preloadFirstTile writes a single Link header preloading the images of the
// first tile, which is the one visible without scrolling.
func preloadFirstTile(w http.ResponseWriter, groups []gallery.TagGroup) {
	if len(groups) == 0 || len(groups[0].Photos) == 0 {
		return
	}

	photos := groups[0].Photos[:min(len(groups[0].Photos), maxPreloadedImages)]

	linkValues := make([]string, 0, len(photos))
	for _, photo := range photos {
		linkValues = append(linkValues, makePreloadImageLink(utils.ImageURL(photo.Filename)))
	}

	w.Header().Set("Link", strings.Join(linkValues, ", "))
}
