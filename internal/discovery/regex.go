package discovery

import (
	"context"
	"regexp"
)

// rawPatterns mirror the HTML strategies for the degraded path where the
// markup is scanned as plain text. Priority order matches fromDocument.
var rawPatterns = []*regexp.Regexp{
	// og:image, both attribute orders.
	regexp.MustCompile(`(?i)<meta[^>]+(?:property|name)=["']og:image["'][^>]+content=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)<meta[^>]+content=["']([^"']+)["'][^>]+(?:property|name)=["']og:image["']`),
	// twitter:image, optionally twitter:image:src.
	regexp.MustCompile(`(?i)<meta[^>]+(?:property|name)=["']twitter:image(?::src)?["'][^>]+content=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)<meta[^>]+content=["']([^"']+)["'][^>]+(?:property|name)=["']twitter:image(?::src)?["']`),
	// <link rel="image_src">.
	regexp.MustCompile(`(?i)<link[^>]+rel=["']image_src["'][^>]+href=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)<link[^>]+href=["']([^"']+)["'][^>]+rel=["']image_src["']`),
	// schema.org Recipe image as string or first array element.
	regexp.MustCompile(`"@type"\s*:\s*"Recipe"[^}]*"image"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"@type"\s*:\s*"Recipe"[^}]*"image"\s*:\s*\[\s*"([^"]+)"`),
}

// fromRawMarkup pattern-matches the raw page text and returns the first
// candidate that validates.
func (f *Finder) fromRawMarkup(ctx context.Context, pageURL, markup string) (string, bool) {
	for _, re := range rawPatterns {
		m := re.FindStringSubmatch(markup)
		if m == nil {
			continue
		}
		candidate := resolveRef(pageURL, m[1])
		if f.isValidImageURL(ctx, candidate) {
			return candidate, true
		}
	}
	return "", false
}
