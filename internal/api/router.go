package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/shiralev/matkonim/internal/recipeservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *recipeservice.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Extraction previews.
	r.Post("/extract/url", h.ExtractURL)
	r.Post("/extract/image", h.ExtractImage)

	// Recipe collection.
	r.Get("/recipes", h.ListRecipes)
	r.Post("/recipes", h.SaveRecipe)
	r.Delete("/recipes/{id}", h.DeleteRecipe)

	// Search.
	r.Get("/search", h.Search)

	// Cached image proxy.
	r.Get("/images", h.Image)

	return r
}
