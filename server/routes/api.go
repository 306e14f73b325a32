// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"net/http"

	"codeberg.org/photogallery/gallery/core/gallery"
)

// PhotosResponse is the body of GET /api/photos.
type PhotosResponse struct {
	Photos []gallery.Photo `json:"photos"`
	Tags   gallery.TagSet  `json:"tags"`
}

// PhotosAPI returns the loaded photos and their tags as JSON.
//
// It sees exactly what the gallery page sees, including the empty result of
// a failed load.
func PhotosAPI(w http.ResponseWriter, r *http.Request) error {
	state := loadGallery(r.Context())

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	encoder := json.NewEncoder(w)
	if r.URL.Query().Has("pretty") {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(PhotosResponse{
		Photos: state.Photos,
		Tags:   state.Tags,
	})
}
