// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP middleware chain of the gallery server.

Every middleware has the Middleware signature and is composed by the router.
Handlers that can fail are wrapped with CatchError, which renders the error
page and logs the request.
*/
package middleware
