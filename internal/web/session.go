package web

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/shiralev/matkonim/internal/models"
)

const sessionCookie = "matkonim_session"

// Session holds the per-browser UI state: the unsaved extraction preview,
// the post-save flag, armed delete confirmations, and cached list results
// keyed by sort order.
type Session struct {
	mu sync.Mutex

	preview     *models.Recipe
	justSaved   bool
	deleteArmed map[string]bool
	listCache   map[string][]models.Recipe
}

// Sessions tracks per-browser state keyed by a random cookie value.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessions creates an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*Session)}
}

// Get returns the session for the request, creating one (and setting the
// cookie) when none exists.
func (s *Sessions) Get(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.mu.Lock()
		if sess, ok := s.sessions[c.Value]; ok {
			s.mu.Unlock()
			return sess
		}
		s.mu.Unlock()
	}

	id := uuid.NewString()
	sess := &Session{
		deleteArmed: make(map[string]bool),
		listCache:   make(map[string][]models.Recipe),
	}
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// InvalidateLists drops every session's cached list results. Called after any
// write so no browser renders a stale collection.
func (s *Sessions) InvalidateLists() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.mu.Lock()
		sess.listCache = make(map[string][]models.Recipe)
		sess.mu.Unlock()
	}
}

// Preview returns the pending extraction preview, if any.
func (s *Session) Preview() *models.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// SetPreview replaces the pending preview and clears the saved flag.
func (s *Session) SetPreview(rec *models.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = rec
	s.justSaved = false
}

// ClearPreview discards the pending preview. saved marks whether it was
// persisted, which drives the one-shot success banner.
func (s *Session) ClearPreview(saved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = nil
	s.justSaved = saved
}

// ConsumeSaved reports whether a save just happened and resets the flag, so
// the banner shows exactly once.
func (s *Session) ConsumeSaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := s.justSaved
	s.justSaved = false
	return saved
}

// ArmDelete marks a recipe as pending delete confirmation.
func (s *Session) ArmDelete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteArmed[id] = true
}

// DisarmDelete clears a pending confirmation.
func (s *Session) DisarmDelete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.deleteArmed, id)
}

// DeleteArmed reports whether the recipe awaits delete confirmation.
func (s *Session) DeleteArmed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteArmed[id]
}

// CachedList returns the cached recipes for a sort order, if present.
func (s *Session) CachedList(sort string) ([]models.Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recipes, ok := s.listCache[sort]
	return recipes, ok
}

// CacheList stores list results for a sort order.
func (s *Session) CacheList(sort string, recipes []models.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCache[sort] = recipes
}
