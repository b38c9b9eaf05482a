// Package web serves the server-rendered Hebrew UI: an add tab with URL and
// photo extraction, a browse tab over the saved collection, and a search tab.
package web

import (
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shiralev/matkonim/internal/i18n"
	"github.com/shiralev/matkonim/internal/models"
	"github.com/shiralev/matkonim/internal/recipeservice"
	"github.com/shiralev/matkonim/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxUploadBytes = 20 << 20 // 20 MB

// Handler renders the UI and processes its form posts.
type Handler struct {
	svc      *recipeservice.Service
	sessions *Sessions
	tmpl     *template.Template
	logger   *slog.Logger
}

// NewHandler parses the embedded templates and creates the UI handler.
func NewHandler(svc *recipeservice.Service, sessions *Sessions, logger *slog.Logger) (*Handler, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"t":      i18n.T,
		"tf":     i18n.Tf,
		"imgsrc": imageSrc,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	return &Handler{svc: svc, sessions: sessions, tmpl: tmpl, logger: logger}, nil
}

// NewRouter mounts all UI routes.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Index)
	r.Get("/img", h.Image)

	r.Post("/extract/url", h.ExtractURL)
	r.Post("/extract/image", h.ExtractImage)

	r.Post("/preview/save", h.SavePreview)
	r.Post("/preview/discard", h.DiscardPreview)
	r.Post("/preview/image", h.UploadPreviewImage)

	r.Post("/recipes/{id}/delete", h.ArmDelete)
	r.Post("/recipes/{id}/delete/confirm", h.ConfirmDelete)
	r.Post("/recipes/{id}/delete/cancel", h.CancelDelete)

	return r
}

// imageSrc picks the image source for a recipe card: inline uploaded bytes
// first, then the cache proxy, then a placeholder carrying the title.
func imageSrc(imageDataB64, imageURL, title string) template.URL {
	if imageDataB64 != "" {
		mime := "image/jpeg"
		// Sniff the real type from the first decoded bytes.
		head := imageDataB64
		if len(head) > 64 {
			head = head[:64]
		}
		head = head[:len(head)/4*4]
		if decoded, err := base64.StdEncoding.DecodeString(head); err == nil && len(decoded) > 0 {
			mime = http.DetectContentType(decoded)
		}
		return template.URL("data:" + mime + ";base64," + imageDataB64)
	}
	if imageURL != "" {
		return template.URL("/img?url=" + url.QueryEscape(imageURL))
	}
	return template.URL("https://placehold.co/600x400/FFF8DC/8B4513?text=" + url.QueryEscape(title))
}

type pageData struct {
	Tab       string
	Sort      string
	Query     string
	Preview   *models.Recipe
	Saved     bool
	Recipes   []models.Recipe
	Total     int
	Cuisine   string
	MealType  string
	Cuisines  []string
	MealTypes []string
	Results   []models.Recipe
	Armed     map[string]bool
	ErrMsg    string
	InfoMsg   string
}

// Index handles GET /, rendering the active tab.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(w, r)
	q := r.URL.Query()

	tab := q.Get("tab")
	switch tab {
	case "browse", "search":
	default:
		tab = "add"
	}

	data := pageData{
		Tab:   tab,
		Sort:  q.Get("sort"),
		Query: q.Get("q"),
		Armed: map[string]bool{},
	}
	if key := q.Get("err"); key != "" {
		data.ErrMsg = i18n.Tf(key, "title", q.Get("title"))
	}
	if key := q.Get("msg"); key != "" {
		data.InfoMsg = i18n.Tf(key, "title", q.Get("title"))
	}
	if data.Sort == "" {
		data.Sort = store.SortNewest
	}

	switch tab {
	case "add":
		data.Preview = sess.Preview()
		data.Saved = sess.ConsumeSaved()
	case "browse":
		recipes, ok := sess.CachedList(data.Sort)
		if !ok {
			var err error
			recipes, err = h.svc.List(r.Context(), data.Sort)
			if err != nil {
				h.logger.Error("web: list recipes", slog.String("error", err.Error()))
				data.ErrMsg = i18n.T("error_fetch")
				recipes = nil
			} else {
				sess.CacheList(data.Sort, recipes)
			}
		}
		data.Total = len(recipes)
		data.Cuisine = q.Get("cuisine")
		data.MealType = q.Get("meal")
		data.Cuisines, data.MealTypes = filterOptions(recipes)
		data.Recipes = filterRecipes(recipes, data.Cuisine, data.MealType)
		for _, rec := range data.Recipes {
			if sess.DeleteArmed(rec.ID) {
				data.Armed[rec.ID] = true
			}
		}
	case "search":
		if data.Query != "" {
			results, err := h.svc.Search(r.Context(), data.Query)
			if err != nil {
				h.logger.Error("web: search", slog.String("query", data.Query), slog.String("error", err.Error()))
				data.ErrMsg = i18n.T("error_search")
			}
			data.Results = results
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, "page.html", data); err != nil {
		h.logger.Error("web: render", slog.String("error", err.Error()))
	}
}

// ExtractURL handles the URL form on the add tab.
func (h *Handler) ExtractURL(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(w, r)
	pageURL := r.FormValue("url")
	if pageURL == "" {
		redirectTab(w, r, "add", "err", "enter_url_warning")
		return
	}
	rec, err := h.svc.ExtractFromURL(r.Context(), pageURL)
	if err != nil {
		h.logger.Warn("web: extract from url", slog.String("url", pageURL), slog.String("error", err.Error()))
		redirectTab(w, r, "add", "err", "error_extract_url")
		return
	}
	sess.SetPreview(rec)
	redirectTab(w, r, "add", "msg", "recipe_extracted")
}

// ExtractImage handles the photo form on the add tab.
func (h *Handler) ExtractImage(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(w, r)
	data, ok := h.readUpload(w, r)
	if !ok {
		redirectTab(w, r, "add", "err", "img_upload_error")
		return
	}
	rec, err := h.svc.ExtractFromImage(r.Context(), data)
	if err != nil {
		h.logger.Warn("web: extract from image", slog.String("error", err.Error()))
		redirectTab(w, r, "add", "err", "error_extract_image")
		return
	}
	sess.SetPreview(rec)
	redirectTab(w, r, "add", "msg", "recipe_extracted")
}

// SavePreview persists the pending preview.
func (h *Handler) SavePreview(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(w, r)
	rec := sess.Preview()
	if rec == nil {
		redirectTab(w, r, "add")
		return
	}
	if _, err := h.svc.Save(r.Context(), rec); err != nil {
		h.logger.Error("web: save recipe", slog.String("error", err.Error()))
		redirectTab(w, r, "add", "err", "error_save")
		return
	}
	sess.ClearPreview(true)
	h.sessions.InvalidateLists()
	redirectTab(w, r, "add")
}

// DiscardPreview drops the pending preview without saving.
func (h *Handler) DiscardPreview(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(w, r)
	sess.ClearPreview(false)
	redirectTab(w, r, "add")
}

// UploadPreviewImage attaches a manually chosen photo to the pending preview,
// for recipes where automatic discovery found nothing.
func (h *Handler) UploadPreviewImage(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(w, r)
	rec := sess.Preview()
	if rec == nil {
		redirectTab(w, r, "add")
		return
	}
	data, ok := h.readUpload(w, r)
	if !ok {
		redirectTab(w, r, "add", "err", "img_upload_error")
		return
	}
	rec.ImageDataB64 = base64.StdEncoding.EncodeToString(data)
	sess.SetPreview(rec)
	redirectTab(w, r, "add", "msg", "img_upload_success")
}

// ArmDelete handles the first delete click: confirmation buttons appear.
func (h *Handler) ArmDelete(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(w, r)
	sess.ArmDelete(chi.URLParam(r, "id"))
	redirectBrowse(w, r)
}

// ConfirmDelete handles the second, confirming delete click.
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(w, r)
	id := chi.URLParam(r, "id")
	sess.DisarmDelete(id)
	found, err := h.svc.Delete(r.Context(), id)
	if err != nil || !found {
		if err != nil {
			h.logger.Error("web: delete recipe", slog.String("id", id), slog.String("error", err.Error()))
		}
		redirectTab(w, r, "browse", "err", "error_delete")
		return
	}
	h.sessions.InvalidateLists()
	redirectTab(w, r, "browse", "msg", "recipe_deleted", "title", r.FormValue("title"))
}

// CancelDelete disarms a pending confirmation.
func (h *Handler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(w, r)
	sess.DisarmDelete(chi.URLParam(r, "id"))
	redirectBrowse(w, r)
}

// Image handles GET /img, serving recipe images through the cache.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		http.NotFound(w, r)
		return
	}
	data, contentType, ok := h.svc.Image(r.Context(), rawURL)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(data)
}

// readUpload pulls the "file" field out of a multipart form.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, false
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, false
	}
	return data, true
}

// filterOptions collects the distinct, trimmed cuisine and meal type values
// present in the collection, for the filter dropdowns.
func filterOptions(recipes []models.Recipe) (cuisines, mealTypes []string) {
	seenCuisine := map[string]bool{}
	seenMeal := map[string]bool{}
	for _, rec := range recipes {
		if c := strings.TrimSpace(rec.Cuisine); c != "" && !seenCuisine[c] {
			seenCuisine[c] = true
			cuisines = append(cuisines, c)
		}
		if m := strings.TrimSpace(rec.MealType); m != "" && !seenMeal[m] {
			seenMeal[m] = true
			mealTypes = append(mealTypes, m)
		}
	}
	sort.Strings(cuisines)
	sort.Strings(mealTypes)
	return cuisines, mealTypes
}

// filterRecipes keeps recipes matching the selected cuisine and meal type;
// empty selections match everything.
func filterRecipes(recipes []models.Recipe, cuisine, mealType string) []models.Recipe {
	if cuisine == "" && mealType == "" {
		return recipes
	}
	var out []models.Recipe
	for _, rec := range recipes {
		if cuisine != "" && strings.TrimSpace(rec.Cuisine) != cuisine {
			continue
		}
		if mealType != "" && strings.TrimSpace(rec.MealType) != mealType {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// redirectTab sends the browser back to a tab, carrying the current sort plus
// optional query pairs such as a flash message key.
func redirectTab(w http.ResponseWriter, r *http.Request, tab string, pairs ...string) {
	v := url.Values{"tab": {tab}}
	if sort := r.FormValue("sort"); sort != "" {
		v.Set("sort", sort)
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			v.Set(pairs[i], pairs[i+1])
		}
	}
	http.Redirect(w, r, "/?"+v.Encode(), http.StatusSeeOther)
}

func redirectBrowse(w http.ResponseWriter, r *http.Request) {
	redirectTab(w, r, "browse")
}
