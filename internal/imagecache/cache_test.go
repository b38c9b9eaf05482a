package imagecache

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestEnsureCached_StoresValidImage(t *testing.T) {
	data := pngBytes(t)
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	c := New(resty.New(), time.Hour)
	c.EnsureCached(context.Background(), srv.URL+"/a.png")

	got, contentType, ok := c.GetCached(srv.URL + "/a.png")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if contentType != "image/png" {
		t.Errorf("content type = %q", contentType)
	}
	if !bytes.Equal(got, data) {
		t.Error("cached bytes differ from response body")
	}

	// Second ensure within the TTL must not refetch.
	c.EnsureCached(context.Background(), srv.URL+"/a.png")
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
}

func TestEnsureCached_RejectsNonImageContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	c := New(resty.New(), time.Hour)
	c.EnsureCached(context.Background(), srv.URL)
	if _, _, ok := c.GetCached(srv.URL); ok {
		t.Error("non-image response must not be cached")
	}
}

func TestEnsureCached_RejectsMislabeledBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("not an image at all"))
	}))
	defer srv.Close()

	c := New(resty.New(), time.Hour)
	c.EnsureCached(context.Background(), srv.URL)
	if _, _, ok := c.GetCached(srv.URL); ok {
		t.Error("undecodable bytes must not be cached")
	}
}

func TestGetCached_EvictsExpiredLazily(t *testing.T) {
	data := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	c := New(resty.New(), time.Hour)
	c.EnsureCached(context.Background(), srv.URL)

	// Move the clock past the TTL.
	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, _, ok := c.GetCached(srv.URL); ok {
		t.Error("expired entry must be evicted on access")
	}
}

func TestEnsureCached_SwallowsNetworkErrors(t *testing.T) {
	c := New(resty.New().SetTimeout(200*time.Millisecond), time.Hour)
	// Unroutable address; must return without panicking or caching.
	c.EnsureCached(context.Background(), "http://127.0.0.1:1/none.png")
	if _, _, ok := c.GetCached("http://127.0.0.1:1/none.png"); ok {
		t.Error("failed fetch must not populate the cache")
	}
}

func TestKey_IsStable(t *testing.T) {
	if Key("http://a") != Key("http://a") {
		t.Error("key must be deterministic")
	}
	if Key("http://a") == Key("http://b") {
		t.Error("distinct URLs should not collide")
	}
}
