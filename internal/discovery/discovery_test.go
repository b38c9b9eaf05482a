package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/shiralev/matkonim/internal/models"
)

func testClient() *resty.Client {
	return resty.New().
		SetTimeout(2 * time.Second).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(3)).
		SetHeader("User-Agent", UserAgent)
}

// testSite serves a small fake recipe site: pages plus one real image path.
func testSite(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/img/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpegbytes"))
	})
	for path, body := range pages {
		b := body
		mux.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(b))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFindImage_RejectsNonHTTPInput(t *testing.T) {
	f := NewFinder(testClient(), "")
	for _, in := range []string{"", "ftp://x/y", "not a url", "file:///etc/passwd"} {
		if u, ok := f.FindImage(context.Background(), in); ok {
			t.Errorf("FindImage(%q) = %q, want absent", in, u)
		}
	}
}

func TestFindImage_TwitterImageOnly(t *testing.T) {
	srv := testSite(t, map[string]string{
		"/recipe": `<html><head>
			<meta name="twitter:image" content="/img/photo.jpg">
		</head><body></body></html>`,
	})
	f := NewFinder(testClient(), "")

	u, ok := f.FindImage(context.Background(), srv.URL+"/recipe")
	if !ok {
		t.Fatal("expected an image")
	}
	if u != srv.URL+"/img/photo.jpg" {
		t.Errorf("image = %q, want resolved absolute twitter:image", u)
	}
}

func TestFindImage_OGImageWinsOverTwitter(t *testing.T) {
	srv := testSite(t, map[string]string{
		"/recipe": `<html><head>
			<meta name="twitter:image" content="/img/twitter.jpg">
			<meta property="og:image" content="/img/og.jpg">
		</head></html>`,
	})
	f := NewFinder(testClient(), "")

	u, _ := f.FindImage(context.Background(), srv.URL+"/recipe")
	if !strings.HasSuffix(u, "/img/og.jpg") {
		t.Errorf("image = %q, want og:image to win", u)
	}
}

func TestFindImage_JSONLDRecipe(t *testing.T) {
	srv := testSite(t, map[string]string{
		"/recipe": `<html><head>
			<script type="application/ld+json">
			{"@type":"Recipe","name":"Cake","image":["/img/cake.jpg","/img/other.jpg"]}
			</script>
		</head></html>`,
	})
	f := NewFinder(testClient(), "")

	u, ok := f.FindImage(context.Background(), srv.URL+"/recipe")
	if !ok || !strings.HasSuffix(u, "/img/cake.jpg") {
		t.Errorf("image = %q, want first JSON-LD image", u)
	}
}

func TestFindImage_JSONLDObjectImage(t *testing.T) {
	srv := testSite(t, map[string]string{
		"/recipe": `<html><head>
			<script type="application/ld+json">
			{"@type":"Recipe","image":{"url":"/img/obj.jpg"}}
			</script>
		</head></html>`,
	})
	f := NewFinder(testClient(), "")

	u, ok := f.FindImage(context.Background(), srv.URL+"/recipe")
	if !ok || !strings.HasSuffix(u, "/img/obj.jpg") {
		t.Errorf("image = %q, want nested object url", u)
	}
}

func TestFindImage_LargestInlineImage(t *testing.T) {
	srv := testSite(t, map[string]string{
		"/recipe": `<html><body>
			<img src="/img/site-logo.png" width="400" height="400">
			<img src="/img/small.jpg" width="100" height="100">
			<img src="/img/medium.jpg" width="300" height="200">
			<img src="/img/hero.jpg" width="800" height="600">
		</body></html>`,
	})
	f := NewFinder(testClient(), "")

	u, ok := f.FindImage(context.Background(), srv.URL+"/recipe")
	if !ok {
		t.Fatal("expected an image")
	}
	if !strings.HasSuffix(u, "/img/hero.jpg") {
		t.Errorf("image = %q, want the largest non-logo inline image", u)
	}
}

func TestFindImage_NoSignals(t *testing.T) {
	srv := testSite(t, map[string]string{
		"/recipe": `<html><body><p>just text</p></body></html>`,
	})
	f := NewFinder(testClient(), "")

	if u, ok := f.FindImage(context.Background(), srv.URL+"/recipe"); ok {
		t.Errorf("image = %q, want absent", u)
	}
}

func TestFindImage_InvalidCandidateSkipped(t *testing.T) {
	// og:image points at a 404; twitter:image at a real image.
	srv := testSite(t, map[string]string{
		"/recipe": `<html><head>
			<meta property="og:image" content="/missing/x.jpg">
			<meta name="twitter:image" content="/img/real.jpg">
		</head></html>`,
	})
	f := NewFinder(testClient(), "")

	u, ok := f.FindImage(context.Background(), srv.URL+"/recipe")
	if !ok || !strings.HasSuffix(u, "/img/real.jpg") {
		t.Errorf("image = %q, want the validated fallback", u)
	}
}

func TestFindImage_NoembedFallback(t *testing.T) {
	img := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png"))
	}))
	defer img.Close()

	noembed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"thumbnail_url":"` + img.URL + `/thumb.png"}`))
	}))
	defer noembed.Close()

	srv := testSite(t, map[string]string{
		"/recipe": `<html><body>nothing here</body></html>`,
	})
	f := NewFinder(testClient(), noembed.URL)

	u, ok := f.FindImage(context.Background(), srv.URL+"/recipe")
	if !ok || !strings.HasPrefix(u, img.URL) {
		t.Errorf("image = %q, want noembed thumbnail", u)
	}
}

func TestBestImage_FaviconLastResort(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/recipe", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>plain</body></html>`))
	})
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/x-icon")
		_, _ = w.Write([]byte("ico"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := NewFinder(testClient(), "")
	rec := &models.Recipe{}
	if !f.BestImage(context.Background(), srv.URL+"/recipe", rec) {
		t.Fatal("expected favicon fallback")
	}
	if !strings.HasSuffix(rec.ImageURL, "/favicon.ico") {
		t.Errorf("image = %q, want favicon", rec.ImageURL)
	}
}

func TestBestImage_StoresRedirectResolvedURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/recipe", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<meta property="og:image" content="/moved.jpg">
		</head></html>`))
	})
	mux.HandleFunc("/moved.jpg", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final.jpg", http.StatusFound)
	})
	mux.HandleFunc("/final.jpg", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := NewFinder(testClient(), "")
	rec := &models.Recipe{}
	if !f.BestImage(context.Background(), srv.URL+"/recipe", rec) {
		t.Fatal("expected an image")
	}
	if !strings.HasSuffix(rec.ImageURL, "/final.jpg") {
		t.Errorf("image = %q, want the redirect-resolved URL", rec.ImageURL)
	}
}

func TestBestImage_KeepsExistingValidURL(t *testing.T) {
	srv := testSite(t, nil)
	f := NewFinder(testClient(), "")

	rec := &models.Recipe{ImageURL: srv.URL + "/img/given.jpg"}
	if !f.BestImage(context.Background(), srv.URL+"/whatever", rec) {
		t.Fatal("expected existing image to be kept")
	}
	if !strings.HasSuffix(rec.ImageURL, "/img/given.jpg") {
		t.Errorf("image = %q, want the pre-set URL", rec.ImageURL)
	}
}

func TestFromRawMarkup_UsedWhenMetaOnlyInText(t *testing.T) {
	// Serve og:image via a pattern the tokenizer also sees, but corrupt
	// markup badly enough that only regex scanning applies in practice.
	srv := testSite(t, map[string]string{
		"/recipe": `<<<garbage><meta property="og:image" content="/img/raw.jpg">`,
	})
	f := NewFinder(testClient(), "")

	u, ok := f.FindImage(context.Background(), srv.URL+"/recipe")
	if !ok || !strings.HasSuffix(u, "/img/raw.jpg") {
		t.Errorf("image = %q, want regex-recovered candidate", u)
	}
}
