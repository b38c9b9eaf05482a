// Package discovery locates a representative image URL for a web page using
// an ordered cascade of fallback strategies.
package discovery

import (
	"context"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"

	"github.com/shiralev/matkonim/internal/models"
)

// Finder runs the image discovery cascade. All network failures are treated
// as "no candidate at this stage" and never surface as errors.
type Finder struct {
	client     *resty.Client
	noembedURL string
}

// NewFinder creates a Finder. The client should carry a short timeout and a
// bounded redirect policy; noembedURL points at a noembed-compatible
// metadata service ("" disables that stage).
func NewFinder(client *resty.Client, noembedURL string) *Finder {
	return &Finder{client: client, noembedURL: noembedURL}
}

// FindImage returns the best image URL for the page, or false when nothing
// validates. Non-HTTP(S) input yields false without any network call.
func (f *Finder) FindImage(ctx context.Context, pageURL string) (string, bool) {
	pageURL = strings.TrimSpace(pageURL)
	if !isHTTP(pageURL) {
		return "", false
	}

	body, err := f.fetchPage(ctx, pageURL)
	if err == nil {
		doc, parseErr := html.Parse(strings.NewReader(body))
		if parseErr == nil {
			if u, ok := f.fromDocument(ctx, pageURL, doc); ok {
				return u, true
			}
		}
		// Degraded fallback: pattern-match the raw markup when the HTML
		// strategies found nothing (or parsing failed).
		if u, ok := f.fromRawMarkup(ctx, pageURL, body); ok {
			return u, true
		}
	}

	return f.noembedThumbnail(ctx, pageURL)
}

// BestImage applies the caller-level fallback chain and attaches the final,
// redirect-resolved URL to the record. It reports whether an image was found.
func (f *Finder) BestImage(ctx context.Context, pageURL string, rec *models.Recipe) bool {
	candidate := ""

	if rec.ImageURL != "" && f.isValidImageURL(ctx, rec.ImageURL) {
		candidate = rec.ImageURL
	}
	if candidate == "" {
		if u, ok := f.FindImage(ctx, pageURL); ok {
			candidate = u
		}
	}
	if candidate == "" && rec.SourceURL != "" && rec.SourceURL != pageURL {
		if u, ok := f.FindImage(ctx, rec.SourceURL); ok {
			candidate = u
		}
	}
	if candidate == "" {
		if u, ok := f.noembedThumbnail(ctx, pageURL); ok {
			candidate = u
		}
	}
	if candidate == "" {
		if u, ok := f.favicon(ctx, pageURL); ok {
			candidate = u
		}
	}
	if candidate == "" {
		return false
	}

	rec.ImageURL = f.resolveRedirects(ctx, candidate)
	return true
}

// fetchPage downloads the page markup.
func (f *Finder) fetchPage(ctx context.Context, pageURL string) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return "", err
	}
	return string(resp.Body()), nil
}

// isValidImageURL checks a candidate with a header-only request: success
// status and an image/* content type. Any network error fails closed.
func (f *Finder) isValidImageURL(ctx context.Context, candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	if !isHTTP(candidate) {
		return false
	}
	resp, err := f.client.R().SetContext(ctx).Head(candidate)
	if err != nil {
		return false
	}
	return resp.StatusCode() >= 200 && resp.StatusCode() < 300 &&
		strings.HasPrefix(resp.Header().Get("Content-Type"), "image/")
}

// resolveRedirects follows redirects (bounded by the client's policy) and
// returns the final URL; the original is returned on any error.
func (f *Finder) resolveRedirects(ctx context.Context, rawURL string) string {
	resp, err := f.client.R().SetContext(ctx).Head(rawURL)
	if err != nil || resp.RawResponse == nil || resp.RawResponse.Request == nil {
		return rawURL
	}
	return resp.RawResponse.Request.URL.String()
}

// favicon tries <scheme>://<host>/favicon.ico as a last resort.
func (f *Finder) favicon(ctx context.Context, pageURL string) (string, bool) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return "", false
	}
	ico := u.Scheme + "://" + u.Host + "/favicon.ico"
	if f.isValidImageURL(ctx, ico) {
		return ico, true
	}
	return "", false
}

// resolveRef joins a possibly relative candidate against the page URL.
func resolveRef(pageURL, ref string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref
	}
	rel, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return base.ResolveReference(rel).String()
}

func isHTTP(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}

// UserAgent is the browser-like header the shared client sends on page and
// image fetches; some recipe sites refuse requests without one.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
