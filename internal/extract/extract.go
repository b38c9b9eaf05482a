// Package extract turns a recipe URL or photo into a structured record,
// coordinating the model call, image discovery, and cache warming.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"

	"github.com/shiralev/matkonim/internal/apperr"
	"github.com/shiralev/matkonim/internal/discovery"
	"github.com/shiralev/matkonim/internal/imagecache"
	"github.com/shiralev/matkonim/internal/llm"
	"github.com/shiralev/matkonim/internal/models"
)

// Extractor produces recipe records from unstructured sources.
type Extractor struct {
	llm    llm.Client
	finder *discovery.Finder
	cache  *imagecache.Cache
	client *resty.Client
	logger *slog.Logger
}

// New creates an Extractor. client is the short-timeout client used for page
// fetches; the model client lives inside llm.
func New(l llm.Client, finder *discovery.Finder, cache *imagecache.Cache, client *resty.Client, logger *slog.Logger) *Extractor {
	return &Extractor{llm: l, finder: finder, cache: cache, client: client, logger: logger}
}

// FromURL fetches the page, extracts a recipe from its content, stamps the
// source URL, and runs the image fallback chain. A found image is cached
// eagerly so the first render does not pay the fetch.
func (e *Extractor) FromURL(ctx context.Context, rawURL string) (*models.Recipe, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, fmt.Errorf("extract: %w: not an http(s) url", apperr.ErrBadInput)
	}

	resp, err := e.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("extract: fetch page: %w: %w", apperr.ErrUpstream, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("extract: fetch page: %w: status %d", apperr.ErrUpstream, resp.StatusCode())
	}

	rec, err := e.llm.FromPageText(ctx, rawURL, string(resp.Body()))
	if err != nil {
		return nil, err
	}
	rec.SourceURL = rawURL

	if e.finder.BestImage(ctx, rawURL, rec) {
		// Best effort; a cache miss just means a lazier first render.
		e.cache.EnsureCached(ctx, rec.ImageURL)
	} else {
		e.logger.Info("extract: no image found", slog.String("url", rawURL))
	}
	return rec, nil
}

// FromImage extracts a recipe from an uploaded photo. The bytes must decode
// as an image before anything is sent to the model.
func (e *Extractor) FromImage(ctx context.Context, data []byte) (*models.Recipe, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("extract: %w: empty image", apperr.ErrBadInput)
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("extract: %w: not an image (%s)", apperr.ErrBadInput, mimeType)
	}
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("extract: %w: undecodable image: %w", apperr.ErrBadInput, err)
	}

	return e.llm.FromImage(ctx, mimeType, data)
}
