// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package fragments holds the small building blocks the page views are composed of.
*/
package fragments

import (
	"context"

	"codeberg.org/photogallery/gallery/server/request_context"
	"codeberg.org/photogallery/gallery/server/template/commondata"
)

// CommonData returns the page data shared by every view of the current request.
func CommonData(ctx context.Context) commondata.PageCommonData {
	return request_context.FromContext(ctx).CommonData
}
