// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/photogallery/gallery/assets/views"
	"codeberg.org/photogallery/gallery/config"
	"codeberg.org/photogallery/gallery/core/gallery"
)

// IndexPage is the handler for the gallery page.
func IndexPage(w http.ResponseWriter, r *http.Request) error {
	state := loadGallery(r.Context())

	groups := gallery.Group(state.Photos, state.Tags, config.Global.Gallery.PhotosPerTag)

	w.Header().Set("Cache-Control", pageCacheControl())
	preloadFirstTile(w, groups)

	pageData := views.GalleryData{
		Title:  config.Global.Gallery.Title,
		Groups: groups,
	}

	return views.Gallery(pageData).Render(r.Context(), w)
}
