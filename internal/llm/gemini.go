// Package llm turns unstructured recipe sources into structured records via
// the Gemini generateContent REST API.
package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/shiralev/matkonim/internal/apperr"
	"github.com/shiralev/matkonim/internal/models"
)

// Client extracts a recipe from a page or from a photo.
type Client interface {
	FromPageText(ctx context.Context, pageURL, pageText string) (*models.Recipe, error)
	FromImage(ctx context.Context, mimeType string, image []byte) (*models.Recipe, error)
}

// Gemini calls the generateContent endpoint. The resty client must not carry
// a request timeout: model calls routinely run longer than page fetches, and
// the caller's context bounds them instead.
type Gemini struct {
	client      *resty.Client
	baseURL     string
	apiKey      string
	model       string
	visionModel string
}

var _ Client = (*Gemini)(nil)

// NewGemini creates a Gemini client. model handles text extraction,
// visionModel handles photos.
func NewGemini(client *resty.Client, baseURL, apiKey, model, visionModel string) *Gemini {
	return &Gemini{
		client:      client,
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		visionModel: visionModel,
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"response_mime_type"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// FromPageText extracts a recipe from fetched page markup.
func (g *Gemini) FromPageText(ctx context.Context, pageURL, pageText string) (*models.Recipe, error) {
	parts := []part{{Text: pagePrompt(pageURL, pageText)}}
	return g.generate(ctx, g.model, parts)
}

// FromImage extracts a recipe from a photo of a recipe.
func (g *Gemini) FromImage(ctx context.Context, mimeType string, image []byte) (*models.Recipe, error) {
	parts := []part{
		{Text: imagePrompt()},
		{InlineData: &inlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(image),
		}},
	}
	return g.generate(ctx, g.visionModel, parts)
}

func (g *Gemini) generate(ctx context.Context, model string, parts []part) (*models.Recipe, error) {
	req := generateRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: generationConfig{
			// Low temperature keeps extraction deterministic.
			Temperature:      0.1,
			ResponseMimeType: "application/json",
		},
	}

	var out generateResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetBody(req).
		SetResult(&out).
		Post(fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, model))
	if err != nil {
		return nil, fmt.Errorf("llm: call model %s: %w: %w", model, apperr.ErrUpstream, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("llm: call model %s: %w: status %d", model, apperr.ErrUpstream, resp.StatusCode())
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("llm: model %s returned no candidates: %w", model, apperr.ErrUpstream)
	}

	var rec models.Recipe
	if err := Decode(out.Candidates[0].Content.Parts[0].Text, &rec); err != nil {
		return nil, err
	}
	rec.Normalize()
	return &rec, nil
}
