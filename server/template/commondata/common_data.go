// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package commondata

import (
	"net/http"

	"codeberg.org/photogallery/gallery/config"
	"codeberg.org/photogallery/gallery/server/utils"
)

// PageCommonData holds common variables accessible in templates and handlers.
//
// It is automatically populated for each request and attached to the
// request_context.RequestContext.
type PageCommonData struct {
	// BaseURL is the origin URL (scheme + host) of the current request.
	BaseURL string

	// CurrentPath is the URL path from request (e.g., "/about").
	CurrentPath string

	// SiteTitle is the configured gallery title, shown in the page title and heading.
	SiteTitle string

	// Version is the running release, shown in the footer.
	Version string

	// CacheID changes on every start and is appended to asset URLs.
	CacheID string
}

// PopulatePageCommonData fills the PageCommonData struct from the request.
func PopulatePageCommonData(r *http.Request, data *PageCommonData) {
	data.BaseURL = utils.GetOriginFromRequest(r)
	data.CurrentPath = r.URL.Path
	data.SiteTitle = config.Global.Gallery.Title
	data.Version = config.BuildVersion
	data.CacheID = config.Global.Instance.FileServerCacheID
}
