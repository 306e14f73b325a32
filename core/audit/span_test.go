// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/stretchr/testify/assert"
)

func TestHumanizeSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{1023, "1023"},
		{1024, "1.00K"},
		{1536, "1.50K"},
		{bytesInMB, "1.00M"},
		{3 * bytesInGB, "3.00G"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanizeSize(tt.in))
	}
}

func TestSpan_EndIsIdempotent(t *testing.T) {
	t.Parallel()

	span := Span{Destination: ToDisk, Method: "LOAD", URL: "photos.json"}

	span.Begin(context.Background())
	span.End()

	first := span.Duration()

	span.End()
	assert.Equal(t, first, span.Duration())
}

func TestSpan_ReportsServerTiming(t *testing.T) {
	t.Parallel()

	handler := servertiming.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span := Span{Destination: ToDisk, Method: "LOAD", URL: "photos.json"}

		span.Begin(r.Context())
		span.End()

		w.WriteHeader(http.StatusNoContent)
	}), nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	header := rr.Header().Get(servertiming.HeaderKey)
	assert.True(t, strings.HasPrefix(header, "disk$LOAD$"), "unexpected Server-Timing header %q", header)
}
