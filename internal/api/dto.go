package api

import "github.com/shiralev/matkonim/internal/models"

// ExtractURLRequest is the request body for URL extraction.
type ExtractURLRequest struct {
	URL string `json:"url" example:"https://example.com/best-shakshuka" validate:"required"`
}

// Recipe is the recipe wire type (aliased from the domain layer).
type Recipe = models.Recipe

// RecipeListResponse wraps recipe listings.
type RecipeListResponse struct {
	Recipes []Recipe `json:"recipes" validate:"required"`
	Total   int      `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps relevance-ranked search results.
type SearchResponse struct {
	Results []Recipe `json:"results" validate:"required"`
}
