package discovery

import (
	"context"
	"encoding/json"
)

// noembedThumbnail asks the configured URL-metadata service for the page's
// thumbnail. Disabled when no service URL is configured.
func (f *Finder) noembedThumbnail(ctx context.Context, pageURL string) (string, bool) {
	if f.noembedURL == "" {
		return "", false
	}
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("url", pageURL).
		Get(f.noembedURL)
	if err != nil || resp.StatusCode() != 200 {
		return "", false
	}

	var payload struct {
		ThumbnailURL string `json:"thumbnail_url"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return "", false
	}
	if payload.ThumbnailURL == "" || !f.isValidImageURL(ctx, payload.ThumbnailURL) {
		return "", false
	}
	return payload.ThumbnailURL, true
}
