// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedirectTo(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()

	redirectTo("/img/favicon.svg").ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))

	assert.Equal(t, http.StatusPermanentRedirect, rr.Code)
	assert.Equal(t, "/img/favicon.svg", rr.Header().Get("Location"))
}
