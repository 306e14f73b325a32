// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// The code in this file redirects well-known paths that browsers and crawlers
// request on their own to where we actually serve them.
//
// Add more redirects in (*Router).DefineRoutes

package router

import (
	"net/http"
)

// redirectTo is a helper function to permanently redirect requests to targetPath.
//
// Example:   /favicon.ico   ->   /img/favicon.svg
func redirectTo(targetPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, targetPath, http.StatusPermanentRedirect)
	}
}
