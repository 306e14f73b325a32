// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/photogallery/gallery/assets/views"
	"codeberg.org/photogallery/gallery/config"
)

// AboutPage is the handler for the /about page.
func AboutPage(w http.ResponseWriter, r *http.Request) error {
	state := loadGallery(r.Context())

	w.Header().Set("Cache-Control", pageCacheControl())

	pageData := views.AboutData{
		Title:      "About",
		Version:    config.BuildVersion,
		Revision:   config.Global.Build.Revision(),
		Time:       config.Global.Instance.StartingTime,
		RepoURL:    config.Global.Instance.RepoURL,
		PhotoCount: len(state.Photos),
		Tags:       state.Tags.Sorted(),
	}

	return views.About(pageData).Render(r.Context(), w)
}
