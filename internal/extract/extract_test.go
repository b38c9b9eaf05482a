package extract

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/shiralev/matkonim/internal/apperr"
	"github.com/shiralev/matkonim/internal/discovery"
	"github.com/shiralev/matkonim/internal/imagecache"
	"github.com/shiralev/matkonim/internal/models"
)

type fakeLLM struct {
	rec      *models.Recipe
	err      error
	pageURL  string
	pageText string
	mimeType string
}

func (f *fakeLLM) FromPageText(_ context.Context, pageURL, pageText string) (*models.Recipe, error) {
	f.pageURL, f.pageText = pageURL, pageText
	return f.rec, f.err
}

func (f *fakeLLM) FromImage(_ context.Context, mimeType string, _ []byte) (*models.Recipe, error) {
	f.mimeType = mimeType
	return f.rec, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newExtractor(llmClient *fakeLLM) (*Extractor, *imagecache.Cache) {
	client := resty.New().SetTimeout(2 * time.Second)
	cache := imagecache.New(client, 0)
	finder := discovery.NewFinder(client, "")
	return New(llmClient, finder, cache, client, testLogger()), cache
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFromURL_RejectsNonHTTP(t *testing.T) {
	e, _ := newExtractor(&fakeLLM{})
	for _, in := range []string{"", "notaurl", "ftp://host/x"} {
		if _, err := e.FromURL(context.Background(), in); !errors.Is(err, apperr.ErrBadInput) {
			t.Errorf("FromURL(%q) error = %v, want ErrBadInput", in, err)
		}
	}
}

func TestFromURL_StampsSourceAndDiscoversImage(t *testing.T) {
	img := pngBytes(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/recipe", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<meta property="og:image" content="/hero.png">
		</head><body>recipe markup</body></html>`))
	})
	mux.HandleFunc("/hero.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(img)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fake := &fakeLLM{rec: &models.Recipe{Title: "Malabi"}}
	e, cache := newExtractor(fake)

	rec, err := e.FromURL(context.Background(), srv.URL+"/recipe")
	if err != nil {
		t.Fatalf("FromURL: %v", err)
	}

	if rec.SourceURL != srv.URL+"/recipe" {
		t.Errorf("source_url = %q", rec.SourceURL)
	}
	if rec.ImageURL != srv.URL+"/hero.png" {
		t.Errorf("image_url = %q, want discovered og:image", rec.ImageURL)
	}
	if fake.pageURL != srv.URL+"/recipe" || fake.pageText == "" {
		t.Error("model did not receive the fetched page")
	}
	if _, _, ok := cache.GetCached(rec.ImageURL); !ok {
		t.Error("discovered image was not warmed into the cache")
	}
}

func TestFromURL_PageFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	e, _ := newExtractor(&fakeLLM{rec: &models.Recipe{Title: "x"}})
	if _, err := e.FromURL(context.Background(), srv.URL); !errors.Is(err, apperr.ErrUpstream) {
		t.Errorf("error = %v, want ErrUpstream", err)
	}
}

func TestFromURL_ModelErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	e, _ := newExtractor(&fakeLLM{err: apperr.ErrParse})
	if _, err := e.FromURL(context.Background(), srv.URL); !errors.Is(err, apperr.ErrParse) {
		t.Errorf("error = %v, want ErrParse", err)
	}
}

func TestFromImage_ValidPNG(t *testing.T) {
	fake := &fakeLLM{rec: &models.Recipe{Title: "Sabich"}}
	e, _ := newExtractor(fake)

	rec, err := e.FromImage(context.Background(), pngBytes(t))
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if rec.Title != "Sabich" {
		t.Errorf("title = %q", rec.Title)
	}
	if fake.mimeType != "image/png" {
		t.Errorf("mime type = %q", fake.mimeType)
	}
}

func TestFromImage_RejectsMalformedInput(t *testing.T) {
	e, _ := newExtractor(&fakeLLM{rec: &models.Recipe{}})

	cases := map[string][]byte{
		"empty":     nil,
		"not image": []byte("plain text, definitely not pixels"),
		"truncated": pngBytes(t)[:10],
	}
	for name, data := range cases {
		if _, err := e.FromImage(context.Background(), data); !errors.Is(err, apperr.ErrBadInput) {
			t.Errorf("%s: error = %v, want ErrBadInput", name, err)
		}
	}
}
