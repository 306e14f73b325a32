// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package idgen makes short identifiers for requests and cache busting.
*/
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// entropyBytes random bytes encode to four URL-safe characters.
const entropyBytes = 3

// Make returns an ID made of the time of day (HHMMSS) and four random characters.
//
// IDs are unique enough to tell apart the requests in a day of logs; they are
// not secrets.
func Make() string {
	return makeAt(time.Now())
}

func makeAt(t time.Time) string {
	var entropy [entropyBytes]byte

	_, _ = rand.Read(entropy[:])

	return timePart(t) + base64.RawURLEncoding.EncodeToString(entropy[:])
}

func timePart(t time.Time) string {
	return t.Format("150405")
}
