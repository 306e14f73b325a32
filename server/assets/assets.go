// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets provides access to the application's embedded static assets.
*/
package assets

import (
	"io/fs"
)

// FS holds the static assets under an "assets" directory.
//
// It is set by package main from its embedded files.
var FS fs.FS
