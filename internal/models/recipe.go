// Package models defines the recipe record shared by extraction, storage,
// and presentation.
package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Servings is a string-or-number JSON field: model output may return either
// "4-6" or 4. It always marshals back as a string.
type Servings string

// UnmarshalJSON accepts a JSON string, number, or null.
func (s *Servings) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Servings(str)
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = Servings(strconv.FormatFloat(num, 'f', -1, 64))
	return nil
}

// String returns the servings as display text.
func (s Servings) String() string { return string(s) }

// Recipe is the sole persisted entity. The identifier is assigned by the
// store on insert; AddedOn is stamped at insert time and never modified.
type Recipe struct {
	ID           string    `json:"id,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	PrepTime     string    `json:"prep_time,omitempty"`
	CookTime     string    `json:"cook_time,omitempty"`
	TotalTime    string    `json:"total_time,omitempty"`
	Servings     Servings  `json:"servings,omitempty"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	Cuisine      string    `json:"cuisine,omitempty"`
	MealType     string    `json:"meal_type,omitempty"`
	Keywords     []string  `json:"keywords"`
	SourceURL    string    `json:"source_url,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	ImageDataB64 string    `json:"image_data_b64,omitempty"`
	AddedOn      time.Time `json:"added_on,omitempty"`
}

// Normalize coerces the list-typed fields to non-nil slices so they are never
// stored as null, and trims blank keywords.
func (r *Recipe) Normalize() {
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
	kws := make([]string, 0, len(r.Keywords))
	for _, kw := range r.Keywords {
		if trimmed := strings.TrimSpace(kw); trimmed != "" {
			kws = append(kws, trimmed)
		}
	}
	r.Keywords = kws
}

// HasImage reports whether the record carries any displayable image.
func (r *Recipe) HasImage() bool {
	return r.ImageURL != "" || r.ImageDataB64 != ""
}
