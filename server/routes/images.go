// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"io/fs"
	"net/http"
	"os"
	"strings"

	"codeberg.org/photogallery/gallery/config"
)

// GalleryImage serves a file from the image directory.
//
// r.URL.Path must already be stripped of the /gallery/ prefix. Only regular
// files directly inside the directory are served; anything else is a 404.
func GalleryImage(w http.ResponseWriter, r *http.Request) error {
	name := r.URL.Path
	if name == "" || strings.Contains(name, "/") || !fs.ValidPath(name) {
		http.NotFound(w, r)

		return nil
	}

	imagesFS := os.DirFS(config.Global.Gallery.ImagesDir)

	info, err := fs.Stat(imagesFS, name)
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)

		return nil
	}

	http.ServeFileFS(w, r, imagesFS, name)

	return nil
}
