package discovery

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// fromDocument runs the parsed-HTML strategies in priority order and returns
// the first candidate that validates.
func (f *Finder) fromDocument(ctx context.Context, pageURL string, doc *html.Node) (string, bool) {
	strategies := []func(*html.Node) string{
		func(n *html.Node) string { return metaContent(n, "og:image") },
		func(n *html.Node) string { return metaContent(n, "twitter:image") },
		func(n *html.Node) string { return linkHref(n, "image_src") },
		func(n *html.Node) string { return metaContent(n, "og:article:image") },
		jsonLDRecipeImage,
	}
	for _, strategy := range strategies {
		if raw := strategy(doc); raw != "" {
			candidate := resolveRef(pageURL, raw)
			if f.isValidImageURL(ctx, candidate) {
				return candidate, true
			}
		}
	}
	return f.largestInlineImage(ctx, pageURL, doc)
}

// walk visits every element node in document order until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if n.Type == html.ElementNode && !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

// metaContent returns the content of the first <meta> whose property or name
// attribute equals value; either attribute is accepted since sites mix them
// up.
func metaContent(doc *html.Node, value string) string {
	var out string
	walk(doc, func(n *html.Node) bool {
		if n.Data != "meta" {
			return true
		}
		if strings.EqualFold(attr(n, "property"), value) || strings.EqualFold(attr(n, "name"), value) {
			if c := attr(n, "content"); c != "" {
				out = c
				return false
			}
		}
		return true
	})
	return out
}

// linkHref returns the href of the first <link rel=...> element.
func linkHref(doc *html.Node, rel string) string {
	var out string
	walk(doc, func(n *html.Node) bool {
		if n.Data == "link" && strings.EqualFold(attr(n, "rel"), rel) {
			if h := attr(n, "href"); h != "" {
				out = h
				return false
			}
		}
		return true
	})
	return out
}

// jsonLDRecipeImage extracts the image of an embedded schema.org Recipe
// block, accepting a string, the first element of a list, or a nested
// object's url field.
func jsonLDRecipeImage(doc *html.Node) string {
	var out string
	walk(doc, func(n *html.Node) bool {
		if n.Data != "script" || !strings.EqualFold(attr(n, "type"), "application/ld+json") {
			return true
		}
		if n.FirstChild == nil {
			return true
		}
		var data map[string]any
		if err := json.Unmarshal([]byte(n.FirstChild.Data), &data); err != nil {
			return true
		}
		if t, _ := data["@type"].(string); t != "Recipe" {
			return true
		}
		img := data["image"]
		if list, ok := img.([]any); ok && len(list) > 0 {
			img = list[0]
		}
		switch v := img.(type) {
		case string:
			out = v
		case map[string]any:
			if u, ok := v["url"].(string); ok {
				out = u
			}
		}
		return out == ""
	})
	return out
}

// largestInlineImage scans all <img> tags, discards icons, logos, avatars,
// data URIs, and SVGs, keeps images declaring width and height of at least
// 200px each, validates the survivors, and picks the largest declared area.
func (f *Finder) largestInlineImage(ctx context.Context, pageURL string, doc *html.Node) (string, bool) {
	type candidate struct {
		area int
		url  string
	}
	var candidates []candidate

	walk(doc, func(n *html.Node) bool {
		if n.Data != "img" {
			return true
		}
		src := attr(n, "src")
		if src == "" {
			return true
		}
		lower := strings.ToLower(src)
		if strings.Contains(lower, "icon") || strings.Contains(lower, "logo") ||
			strings.Contains(lower, "avatar") || strings.Contains(src, "data:") ||
			strings.Contains(lower, ".svg") {
			return true
		}
		width, errW := strconv.Atoi(attr(n, "width"))
		height, errH := strconv.Atoi(attr(n, "height"))
		if errW != nil || errH != nil || width < 200 || height < 200 {
			return true
		}
		u := resolveRef(pageURL, src)
		if f.isValidImageURL(ctx, u) {
			candidates = append(candidates, candidate{area: width * height, url: u})
		}
		return true
	})

	if len(candidates) == 0 {
		return "", false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].area > candidates[j].area
	})
	return candidates[0].url, true
}
