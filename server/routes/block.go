// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/photogallery/gallery/assets/views"
)

// BlockData describes why the limiter refused a request.
type BlockData struct {
	Reason string `json:"reason"`
}

// BlockPage writes the response for a request refused by the limiter.
//
// Clients that rank application/json above text/html in their Accept header
// get the reason as a JSON object. Everyone else gets the error page, with the
// reason as its message.
func BlockPage(w http.ResponseWriter, r *http.Request, data BlockData, statusCode int) {
	w.Header().Add("Vary", "Accept")
	w.Header().Set("Cache-Control", "no-store")

	if prefersJSON(r.Header.Get("Accept")) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(statusCode)

		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Err(err).Msg("Failed to write the block response")
		}

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)

	pageData := views.ErrorData{
		Title:      "Blocked",
		Error:      errors.New(data.Reason),
		StatusCode: statusCode,
	}

	if err := views.Error(pageData).Render(r.Context(), w); err != nil {
		log.Err(err).Msg("Failed to render the block page")
	}
}

// prefersJSON reports whether accept gives application/json a higher quality
// than HTML. Wildcards and ties count as HTML.
func prefersJSON(accept string) bool {
	jsonQ, htmlQ := 0.0, 0.0

	for part := range strings.SplitSeq(accept, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}

		q := 1.0

		if raw, ok := params["q"]; ok {
			if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
				q = parsed
			}
		}

		switch mediaType {
		case "application/json":
			jsonQ = max(jsonQ, q)
		case "text/html", "application/xhtml+xml", "text/*", "*/*":
			htmlQ = max(htmlQ, q)
		}
	}

	return jsonQ > htmlQ
}
