// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter provides network-based rate limiting for HTTP requests.

Clients are grouped by their IP network (a /24 for IPv4 and a /48 for IPv6 by
default) and every network draws from its own token bucket. Explicit pass and
block lists take precedence over the buckets.
*/
package limiter
