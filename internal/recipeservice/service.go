// Package recipeservice coordinates extraction, persistence, and image
// caching behind a single API used by the HTTP handlers, the web UI, and the
// MCP server.
package recipeservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/shiralev/matkonim/internal/apperr"
	"github.com/shiralev/matkonim/internal/extract"
	"github.com/shiralev/matkonim/internal/imagecache"
	"github.com/shiralev/matkonim/internal/models"
	"github.com/shiralev/matkonim/internal/store"
)

// Service is the application core.
type Service struct {
	store     store.RecipeStore
	extractor *extract.Extractor
	cache     *imagecache.Cache
}

// NewService creates a recipe service.
func NewService(st store.RecipeStore, ex *extract.Extractor, cache *imagecache.Cache) *Service {
	return &Service{store: st, extractor: ex, cache: cache}
}

// ExtractFromURL produces a recipe preview from a web page. Nothing is
// persisted; the caller decides whether to save.
func (s *Service) ExtractFromURL(ctx context.Context, rawURL string) (*models.Recipe, error) {
	return s.extractor.FromURL(ctx, rawURL)
}

// ExtractFromImage produces a recipe preview from an uploaded photo.
func (s *Service) ExtractFromImage(ctx context.Context, data []byte) (*models.Recipe, error) {
	return s.extractor.FromImage(ctx, data)
}

// Save persists a recipe and returns it with its assigned id and timestamp.
func (s *Service) Save(_ context.Context, rec *models.Recipe) (*models.Recipe, error) {
	if strings.TrimSpace(rec.Title) == "" {
		return nil, fmt.Errorf("recipeservice: %w: recipe needs a title", apperr.ErrBadInput)
	}
	if _, err := s.store.Insert(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns all recipes in the requested sort order.
func (s *Service) List(_ context.Context, sort string) ([]models.Recipe, error) {
	switch sort {
	case store.SortNewest, store.SortOldest, store.SortTitle:
	case "":
		sort = store.SortNewest
	default:
		return nil, fmt.Errorf("recipeservice: %w: unknown sort %q", apperr.ErrBadInput, sort)
	}
	return s.store.ListAll(sort)
}

// Search runs a relevance-ranked full-text search. A blank query returns an
// empty result rather than everything.
func (s *Service) Search(_ context.Context, query string) ([]models.Recipe, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Recipe{}, nil
	}
	return s.store.Search(query)
}

// Delete removes a recipe. Deleting an unknown id reports found=false and no
// error, so a double delete stays harmless.
func (s *Service) Delete(_ context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("recipeservice: %w: empty id", apperr.ErrBadInput)
	}
	return s.store.Delete(id)
}

// Image returns cached image bytes for a URL, fetching on miss.
func (s *Service) Image(ctx context.Context, url string) ([]byte, string, bool) {
	if data, contentType, ok := s.cache.GetCached(url); ok {
		return data, contentType, true
	}
	s.cache.EnsureCached(ctx, url)
	return s.cache.GetCached(url)
}
