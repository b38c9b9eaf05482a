package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shiralev/matkonim/internal/apperr"
	"github.com/shiralev/matkonim/internal/models"
	"github.com/shiralev/matkonim/internal/recipeservice"
)

const maxUploadBytes = 20 << 20 // 20 MB

// Handler holds API route handlers.
type Handler struct {
	svc *recipeservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *recipeservice.Service) *Handler {
	return &Handler{svc: svc}
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrBadInput):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrParse):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("could not extract a recipe from the source"))
	case errors.Is(err, apperr.ErrUpstream):
		writeJSON(w, http.StatusBadGateway, errorBody("upstream fetch or model call failed"))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ExtractURL handles POST /api/extract/url.
//
//	@Summary		Extract a recipe preview from a web page
//	@Tags			extract
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ExtractURLRequest	true	"Page to extract from"
//	@Success		200		{object}	Recipe
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Failure		502		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/extract/url [post]
func (h *Handler) ExtractURL(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ExtractURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("url is required"))
		return
	}
	rec, err := h.svc.ExtractFromURL(r.Context(), req.URL)
	if err != nil {
		writeServiceError(w, "extract from url", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ExtractImage handles POST /api/extract/image (multipart/form-data, field "file").
//
//	@Summary		Extract a recipe preview from a photo
//	@Tags			extract
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"Recipe photo"
//	@Success		200		{object}	Recipe
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Failure		502		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/extract/image [post]
func (h *Handler) ExtractImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read upload"))
		return
	}
	rec, err := h.svc.ExtractFromImage(r.Context(), data)
	if err != nil {
		writeServiceError(w, "extract from image", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// SaveRecipe handles POST /api/recipes.
//
//	@Summary		Persist a recipe record
//	@Tags			recipes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		Recipe	true	"Recipe to save"
//	@Success		201		{object}	Recipe
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/recipes [post]
func (h *Handler) SaveRecipe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	var rec models.Recipe
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	saved, err := h.svc.Save(r.Context(), &rec)
	if err != nil {
		writeServiceError(w, "save recipe", err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// ListRecipes handles GET /api/recipes.
//
//	@Summary		List all recipes
//	@Tags			recipes
//	@Produce		json
//	@Param			sort	query		string	false	"Sort order"	Enums(newest, oldest, title)
//	@Success		200		{object}	RecipeListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/recipes [get]
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.svc.List(r.Context(), r.URL.Query().Get("sort"))
	if err != nil {
		writeServiceError(w, "list recipes", err)
		return
	}
	writeJSON(w, http.StatusOK, RecipeListResponse{Recipes: recipes, Total: len(recipes)})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across recipes
//	@Tags			search
//	@Produce		json
//	@Param			q	query		string	true	"Search query"
//	@Success		200	{object}	SearchResponse
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	results, err := h.svc.Search(r.Context(), q)
	if err != nil {
		writeServiceError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// DeleteRecipe handles DELETE /api/recipes/{id}.
//
//	@Summary		Delete a recipe
//	@Tags			recipes
//	@Param			id	path	string	true	"Recipe id"
//	@Success		204	"Recipe deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/recipes/{id} [delete]
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	found, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, "delete recipe", err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Image handles GET /api/images, proxying a cached recipe image.
//
//	@Summary		Serve a cached recipe image
//	@Tags			images
//	@Param			url	query	string	true	"Image source URL"
//	@Success		200	"Image bytes"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/images [get]
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'url' is required"))
		return
	}
	data, contentType, ok := h.svc.Image(r.Context(), rawURL)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("image unavailable"))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(data)
}
