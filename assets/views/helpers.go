// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package views holds the full-page components rendered by the route handlers.
*/
package views

import (
	"context"

	"codeberg.org/photogallery/gallery/assets/components/fragments"
)

// pageTitle is "title - site title", or just the site title when title is
// empty or already equal to it.
func pageTitle(ctx context.Context, title string) string {
	siteTitle := fragments.CommonData(ctx).SiteTitle

	if title == "" || title == siteTitle {
		return siteTitle
	}

	return title + " - " + siteTitle
}
